package types

// Window is a read-only snapshot of one window as reported by the external
// window manager. Identity is ID; snapshots are re-fetched on every query
// and never cached across calls.
type Window struct {
	ID          int    `json:"id"`
	AppBundleID string `json:"app_bundle_id"`
	Workspace   string `json:"workspace"`
	Title       string `json:"title"`
}

// CapturedFocus is an immutable snapshot of the focused window, taken
// before UI disrupts focus so it can be restored later.
type CapturedFocus struct {
	WindowID    int    `json:"window_id"`
	AppBundleID string `json:"app_bundle_id"`
	Workspace   string `json:"workspace"`
}

// Role identifies which managed application a window belongs to.
type Role string

const (
	RoleEditor  Role = "editor"
	RoleBrowser Role = "browser"
)

// RecoveryResult aggregates the outcome of one recovery sweep. Per-window
// failures are collected as strings rather than aborting the sweep.
type RecoveryResult struct {
	Processed int      `json:"windows_processed"`
	Recovered int      `json:"windows_recovered"`
	Errors    []string `json:"errors,omitempty"`
}
