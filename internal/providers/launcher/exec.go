package launcher

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/deskpilot/deskpilot/internal/domain/workspace"
	"github.com/deskpilot/deskpilot/internal/shared/types"
)

// Editor launches editor windows through the system opener. Remote projects
// are opened against their remote host; local ones against their path.
type Editor struct {
	bundleID string
}

// NewEditor creates the editor launcher.
func NewEditor(bundleID string) *Editor {
	return &Editor{bundleID: bundleID}
}

func (e *Editor) Role() types.Role { return types.RoleEditor }

func (e *Editor) BundleID() string { return e.bundleID }

func (e *Editor) Open(ctx context.Context, project types.Project) error {
	args := []string{"-n", "-b", e.bundleID, "--args", "--new-window"}
	if project.RemoteHost != "" {
		args = append(args, "--remote", "ssh-remote+"+project.RemoteHost)
	}
	if project.Path != "" {
		args = append(args, project.Path)
	}
	if out, err := exec.CommandContext(ctx, "open", args...).CombinedOutput(); err != nil {
		return fmt.Errorf("open editor: %v: %s", err, out)
	}
	return nil
}

// Browser launches a tagged browser window with the project's initial URLs.
type Browser struct {
	bundleID string
}

// NewBrowser creates the browser launcher.
func NewBrowser(bundleID string) *Browser {
	return &Browser{bundleID: bundleID}
}

func (b *Browser) Role() types.Role { return types.RoleBrowser }

func (b *Browser) BundleID() string { return b.bundleID }

func (b *Browser) Open(ctx context.Context, project types.Project) error {
	args := []string{"-n", "-b", b.bundleID, "--args",
		"--new-window", "--window-name=" + workspace.TagToken(project.ID)}
	if project.AccentColor != "" {
		args = append(args, "--accent-color="+project.AccentColor)
	}
	urls := project.URLs
	if len(urls) == 0 {
		urls = []string{"about:blank"}
	}
	args = append(args, urls...)

	if out, err := exec.CommandContext(ctx, "open", args...).CombinedOutput(); err != nil {
		return fmt.Errorf("open browser: %v: %s", err, out)
	}
	return nil
}
