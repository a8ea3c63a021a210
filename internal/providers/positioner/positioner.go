package positioner

import (
	"context"

	"github.com/deskpilot/deskpilot/internal/shared/types"
)

// Outcome classifies one recovery attempt on one window.
type Outcome string

const (
	// OutcomeRecovered means the window was off-screen or oversized and
	// has been repositioned.
	OutcomeRecovered Outcome = "recovered"
	// OutcomeUnchanged means the window was already fine.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeNotFound means no matching window could be addressed.
	OutcomeNotFound Outcome = "not_found"
)

// Positioner reads and writes window frames through the accessibility
// layer, in the normalized top-left-origin coordinate space of types.Rect.
type Positioner interface {
	// SetFrame places the first window whose title contains the token.
	SetFrame(ctx context.Context, titleContains string, frame types.Rect) error
	// SetFramesForTag places every window matching the tag, cascading
	// secondary matches by a fixed offset. Returns the number addressed.
	SetFramesForTag(ctx context.Context, tag string, frame types.Rect) (int, error)
	// RecoverByTitle shrinks/centers a window found by title if it is
	// off-screen or oversized; no-op otherwise.
	RecoverByTitle(ctx context.Context, titleContains string) (Outcome, error)
	// RecoverFocused applies the same treatment to the focused window.
	RecoverFocused(ctx context.Context) (Outcome, error)
	// Trusted reports whether the OS-level accessibility permission is
	// granted; without it every write fails.
	Trusted(ctx context.Context) (bool, error)
}
