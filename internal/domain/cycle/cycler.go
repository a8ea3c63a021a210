package cycle

import (
	"context"
	"fmt"

	"github.com/deskpilot/deskpilot/internal/providers/wm"
	"github.com/deskpilot/deskpilot/internal/shared/types"
)

// Direction is the way the selection moves through the candidate ring.
type Direction int

const (
	Next Direction = iota
	Previous
)

func (d Direction) step() int {
	if d == Previous {
		return -1
	}
	return 1
}

// ParseDirection maps the wire value to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "next", "":
		return Next, nil
	case "previous", "prev":
		return Previous, nil
	default:
		return Next, fmt.Errorf("unknown direction %q", s)
	}
}

// Session is a focus-cycle over the windows of one workspace. Candidates
// are a frozen snapshot taken at session start; Selected moves purely in
// memory until the session is committed or cancelled.
type Session struct {
	Candidates      []types.Window `json:"candidates"`
	InitialWindowID int            `json:"initial_window_id"`
	Selected        int            `json:"selected_index"`
}

// SelectedWindow returns the currently selected candidate.
func (s *Session) SelectedWindow() types.Window {
	return s.Candidates[s.Selected]
}

// Cycler builds and drives focus-cycle sessions over the focused
// workspace's windows.
type Cycler struct {
	wm wm.Client
}

// New creates a cycler.
func New(client wm.Client) *Cycler {
	return &Cycler{wm: client}
}

// StartSession snapshots the focused workspace's windows and moves the
// selection one step from the focused window. It returns nil (no error)
// when fewer than two windows exist or the focused window cannot be
// located in its workspace list; there is nothing to cycle through.
func (c *Cycler) StartSession(ctx context.Context, direction Direction) (*Session, error) {
	focused, err := c.wm.FocusedWindow(ctx)
	if err != nil {
		return nil, err
	}
	if focused == nil {
		return nil, nil
	}

	windows, err := c.wm.WindowsInWorkspace(ctx, focused.Workspace)
	if err != nil {
		return nil, err
	}
	if len(windows) < 2 {
		return nil, nil
	}

	current := -1
	for i, w := range windows {
		if w.ID == focused.ID {
			current = i
			break
		}
	}
	if current < 0 {
		return nil, nil
	}

	return &Session{
		Candidates:      windows,
		InitialWindowID: focused.ID,
		Selected:        wrap(current+direction.step(), len(windows)),
	}, nil
}

// Advance moves the selection one more step, purely in memory. A held
// modifier can advance the preview repeatedly before committing.
func (c *Cycler) Advance(session *Session, direction Direction) {
	session.Selected = wrap(session.Selected+direction.step(), len(session.Candidates))
}

// Commit focuses the selected candidate.
func (c *Cycler) Commit(ctx context.Context, session *Session) error {
	return c.wm.FocusWindow(ctx, session.SelectedWindow().ID)
}

// Cancel restores the window focused when the session began.
func (c *Cycler) Cancel(ctx context.Context, session *Session) error {
	return c.wm.FocusWindow(ctx, session.InitialWindowID)
}

// CycleFocus starts a session and immediately commits; single-press
// cycling. A nil session is a silent no-op.
func (c *Cycler) CycleFocus(ctx context.Context, direction Direction) error {
	session, err := c.StartSession(ctx, direction)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	return c.Commit(ctx, session)
}

// wrap keeps i within [0, n) with wraparound in both directions.
func wrap(i, n int) int {
	return ((i % n) + n) % n
}
