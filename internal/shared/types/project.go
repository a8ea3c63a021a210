package types

// Project is one configured project entry. Order in the configuration file
// is significant and preserved for display sorting.
type Project struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Path        string   `json:"path,omitempty" yaml:"path,omitempty"`
	RemoteHost  string   `json:"remote_host,omitempty" yaml:"remote_host,omitempty"`
	AccentColor string   `json:"accent_color,omitempty" yaml:"accent_color,omitempty"`
	URLs        []string `json:"urls,omitempty" yaml:"urls,omitempty"`
}
