package session

import (
	"errors"
	"fmt"

	"github.com/deskpilot/deskpilot/internal/shared/types"
)

var (
	// ErrProjectNotFound means the requested project id is not configured.
	ErrProjectNotFound = errors.New("project not found")
	// ErrConfigNotLoaded means no project configuration has been loaded.
	ErrConfigNotLoaded = errors.New("project configuration not loaded")
	// ErrNoActiveProject means exit was requested with no project active.
	ErrNoActiveProject = errors.New("no active project")
	// ErrNoPreviousWindow means no focus snapshot exists to restore.
	ErrNoPreviousWindow = errors.New("no previous window captured")
)

// LaunchError means one application role could not be launched, or its
// window never appeared within the poll deadline.
type LaunchError struct {
	Role   types.Role
	Detail string
	Err    error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %s", e.Role, e.Detail)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// WindowNotFoundError means an expected window could not be confirmed.
type WindowNotFoundError struct {
	Detail string
}

func (e *WindowNotFoundError) Error() string {
	return "window not found: " + e.Detail
}
