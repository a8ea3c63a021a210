package wm

import (
	"context"

	"github.com/deskpilot/deskpilot/internal/shared/types"
)

// Client is the behavioral contract against the external tiling window
// manager. Every operation returns a value or a structured error, never
// panics; a timeout is itself an error outcome and is what trips the
// circuit breaker.
type Client interface {
	// ListWorkspaces returns all workspace names.
	ListWorkspaces(ctx context.Context) ([]string, error)
	// WorkspaceExists reports whether a workspace with the name exists.
	WorkspaceExists(ctx context.Context, name string) (bool, error)
	// FocusedWorkspace returns the currently focused workspace name.
	FocusedWorkspace(ctx context.Context) (string, error)
	// CreateWorkspace creates a workspace by name.
	CreateWorkspace(ctx context.Context, name string) error
	// CloseWorkspace closes a workspace and its windows.
	CloseWorkspace(ctx context.Context, name string) error

	// ListWindows returns every window across all workspaces.
	ListWindows(ctx context.Context) ([]types.Window, error)
	// WindowsByApp returns all windows of one application bundle id.
	WindowsByApp(ctx context.Context, bundleID string) ([]types.Window, error)
	// WindowsInWorkspace returns the windows of one workspace.
	WindowsInWorkspace(ctx context.Context, workspace string) ([]types.Window, error)
	// FocusedWindow returns the currently focused window, nil when none.
	FocusedWindow(ctx context.Context) (*types.Window, error)
	// FocusWindow focuses a window by id.
	FocusWindow(ctx context.Context, windowID int) error
	// MoveWindow moves a window to a named workspace, optionally keeping
	// focus on it.
	MoveWindow(ctx context.Context, windowID int, workspace string, keepFocus bool) error
}
