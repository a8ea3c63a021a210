// Package paths expands user-relative filesystem paths.
//
// Configuration values may use a leading "~/" for the user's home
// directory; everything touching the filesystem goes through Expand so the
// convention holds everywhere.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand resolves a leading "~/" against the current user's home
// directory. Paths without the prefix are returned unchanged.
func Expand(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
