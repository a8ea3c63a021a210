package wm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/deskpilot/deskpilot/internal/shared/types"
)

// CLI shells out to the window manager's command-line interface. It is
// deliberately thin: flat command construction and JSON decoding, nothing
// more. Always use it through Guarded.
type CLI struct {
	binary      string
	callTimeout time.Duration
}

// NewCLI creates a CLI-backed window-manager client.
func NewCLI(binary string, callTimeout time.Duration) *CLI {
	return &CLI{binary: binary, callTimeout: callTimeout}
}

// wireWindow matches the CLI's JSON window representation.
type wireWindow struct {
	WindowID    int    `json:"window-id"`
	AppBundleID string `json:"app-bundle-id"`
	Workspace   string `json:"workspace"`
	WindowTitle string `json:"window-title"`
}

// wireWorkspace matches the CLI's JSON workspace representation.
type wireWorkspace struct {
	Workspace string `json:"workspace"`
}

func (c *CLI) run(ctx context.Context, op string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, c.binary, args...).Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &Error{Op: op, Detail: c.binary + " did not respond", Timeout: true}
		}
		detail := err.Error()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			detail = string(exitErr.Stderr)
		}
		return nil, &Error{Op: op, Detail: detail}
	}
	return out, nil
}

func (c *CLI) windows(ctx context.Context, op string, args ...string) ([]types.Window, error) {
	out, err := c.run(ctx, op, args...)
	if err != nil {
		return nil, err
	}

	var wire []wireWindow
	if err := json.Unmarshal(out, &wire); err != nil {
		return nil, &Error{Op: op, Detail: fmt.Sprintf("decode window list: %v", err)}
	}

	windows := make([]types.Window, 0, len(wire))
	for _, w := range wire {
		windows = append(windows, types.Window{
			ID:          w.WindowID,
			AppBundleID: w.AppBundleID,
			Workspace:   w.Workspace,
			Title:       w.WindowTitle,
		})
	}
	return windows, nil
}

func (c *CLI) ListWorkspaces(ctx context.Context) ([]string, error) {
	const op = "list-workspaces"
	out, err := c.run(ctx, op, "list-workspaces", "--all", "--json")
	if err != nil {
		return nil, err
	}

	var wire []wireWorkspace
	if err := json.Unmarshal(out, &wire); err != nil {
		return nil, &Error{Op: op, Detail: fmt.Sprintf("decode workspace list: %v", err)}
	}

	names := make([]string, 0, len(wire))
	for _, ws := range wire {
		names = append(names, ws.Workspace)
	}
	return names, nil
}

func (c *CLI) WorkspaceExists(ctx context.Context, name string) (bool, error) {
	names, err := c.ListWorkspaces(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

func (c *CLI) FocusedWorkspace(ctx context.Context) (string, error) {
	const op = "focused-workspace"
	out, err := c.run(ctx, op, "list-workspaces", "--focused", "--json")
	if err != nil {
		return "", err
	}

	var wire []wireWorkspace
	if err := json.Unmarshal(out, &wire); err != nil {
		return "", &Error{Op: op, Detail: fmt.Sprintf("decode workspace list: %v", err)}
	}
	if len(wire) == 0 {
		return "", &Error{Op: op, Detail: "no focused workspace reported"}
	}
	return wire[0].Workspace, nil
}

func (c *CLI) CreateWorkspace(ctx context.Context, name string) error {
	// Workspaces come into existence when focused.
	_, err := c.run(ctx, "create-workspace", "workspace", name)
	return err
}

func (c *CLI) CloseWorkspace(ctx context.Context, name string) error {
	windows, err := c.WindowsInWorkspace(ctx, name)
	if err != nil {
		return err
	}
	for _, w := range windows {
		if _, err := c.run(ctx, "close-workspace", "close", "--window-id", strconv.Itoa(w.ID)); err != nil {
			return err
		}
	}
	return nil
}

func (c *CLI) ListWindows(ctx context.Context) ([]types.Window, error) {
	return c.windows(ctx, "list-windows", "list-windows", "--all", "--json")
}

func (c *CLI) WindowsByApp(ctx context.Context, bundleID string) ([]types.Window, error) {
	return c.windows(ctx, "windows-by-app", "list-windows", "--all", "--app-bundle-id", bundleID, "--json")
}

func (c *CLI) WindowsInWorkspace(ctx context.Context, workspace string) ([]types.Window, error) {
	return c.windows(ctx, "windows-in-workspace", "list-windows", "--workspace", workspace, "--json")
}

func (c *CLI) FocusedWindow(ctx context.Context) (*types.Window, error) {
	windows, err := c.windows(ctx, "focused-window", "list-windows", "--focused", "--json")
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, nil
	}
	w := windows[0]
	return &w, nil
}

func (c *CLI) FocusWindow(ctx context.Context, windowID int) error {
	_, err := c.run(ctx, "focus-window", "focus", "--window-id", strconv.Itoa(windowID))
	return err
}

func (c *CLI) MoveWindow(ctx context.Context, windowID int, workspace string, keepFocus bool) error {
	args := []string{"move-node-to-workspace", workspace, "--window-id", strconv.Itoa(windowID)}
	if keepFocus {
		args = append(args, "--focus-follows-window")
	}
	_, err := c.run(ctx, "move-window", args...)
	return err
}
