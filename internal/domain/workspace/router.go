package workspace

import "strings"

// ProjectPrefix marks a workspace as belonging to one project; the rest of
// the name is the project id.
const ProjectPrefix = "ap-"

// Fallback is the destination of last resort when no non-project workspace
// can be found at all.
const Fallback = "main"

// IsProject reports whether name is a project workspace.
func IsProject(name string) bool {
	return strings.HasPrefix(name, ProjectPrefix) && len(name) > len(ProjectPrefix)
}

// ProjectID extracts the project id of a project workspace. The second
// return is false for non-project names, including the bare prefix.
func ProjectID(name string) (string, bool) {
	if !IsProject(name) {
		return "", false
	}
	return name[len(ProjectPrefix):], true
}

// Name returns the workspace name hosting the given project.
func Name(projectID string) string {
	return ProjectPrefix + projectID
}

// TagToken returns the title token that marks a window as belonging to the
// given project. Launchers embed it in window titles; everything else
// matches on it.
func TagToken(projectID string) string {
	return "[" + projectID + "]"
}

// PreferredNonProject picks where windows should go when evicted from
// project workspaces without an explicit destination. Three-tier fallback:
// the first non-project workspace that has windows, else the first
// non-project workspace, else Fallback.
func PreferredNonProject(candidates []string, hasWindows func(name string) bool) string {
	first := ""
	for _, name := range candidates {
		if IsProject(name) {
			continue
		}
		if first == "" {
			first = name
		}
		if hasWindows != nil && hasWindows(name) {
			return name
		}
	}
	if first != "" {
		return first
	}
	return Fallback
}
