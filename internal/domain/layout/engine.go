package layout

import (
	"github.com/deskpilot/deskpilot/internal/shared/types"
)

// Side is a horizontal placement choice.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Config holds the immutable layout parameters. Zero values are replaced
// by defaults via Normalize.
type Config struct {
	// SmallScreenThresholdInches separates small from wide screens.
	SmallScreenThresholdInches float64
	// WindowHeightPercent of the visible frame height, wide mode only.
	WindowHeightPercent float64
	// MaxWindowWidthInches caps each window's width in physical inches.
	MaxWindowWidthInches float64
	// IDESide is the side of the pair the editor occupies.
	IDESide Side
	// Justification is the screen edge the window pair hugs.
	Justification Side
	// MaxGapPercent of the screen width separates the two windows.
	MaxGapPercent float64
}

// DefaultConfig returns the documented layout defaults.
func DefaultConfig() Config {
	return Config{
		SmallScreenThresholdInches: 23,
		WindowHeightPercent:        0.95,
		MaxWindowWidthInches:       14,
		IDESide:                    SideLeft,
		Justification:              SideRight,
		MaxGapPercent:              0.03,
	}
}

// Normalize fills unset fields with defaults.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if c.SmallScreenThresholdInches <= 0 {
		c.SmallScreenThresholdInches = def.SmallScreenThresholdInches
	}
	if c.WindowHeightPercent <= 0 {
		c.WindowHeightPercent = def.WindowHeightPercent
	}
	if c.MaxWindowWidthInches <= 0 {
		c.MaxWindowWidthInches = def.MaxWindowWidthInches
	}
	if c.IDESide == "" {
		c.IDESide = def.IDESide
	}
	if c.Justification == "" {
		c.Justification = def.Justification
	}
	if c.MaxGapPercent < 0 {
		c.MaxGapPercent = 0
	}
	return c
}

// Layout holds the computed target frames for the two-window layout.
type Layout struct {
	IDEFrame    types.Rect `json:"ide_frame"`
	ChromeFrame types.Rect `json:"chrome_frame"`
}

// Compute derives the target frames for one screen. Small mode stacks both
// windows over the full visible frame. Wide mode places two side-by-side
// windows anchored to the top of the frame; no output frame ever extends
// beyond the visible frame.
func Compute(visible types.Rect, physicalWidthInches float64, mode types.ScreenMode, cfg Config) Layout {
	cfg = cfg.Normalize()

	if mode == types.ScreenSmall {
		return Layout{IDEFrame: visible, ChromeFrame: visible}
	}

	height := visible.Height * cfg.WindowHeightPercent

	width := visible.Width / 2
	if physicalWidthInches > 0 {
		pointsPerInch := visible.Width / physicalWidthInches
		if max := cfg.MaxWindowWidthInches * pointsPerInch; max < width {
			width = max
		}
	}

	gap := cfg.MaxGapPercent * visible.Width
	if remaining := visible.Width - 2*width; remaining < gap {
		gap = remaining
	}
	if gap < 0 {
		gap = 0
	}
	// Overflow never leaves the screen: fall back to exact halves, no gap.
	if 2*width+gap > visible.Width {
		width = visible.Width / 2
		gap = 0
	}

	pairWidth := 2*width + gap
	pairX := visible.X
	if cfg.Justification == SideRight {
		pairX = visible.MaxX() - pairWidth
	}

	left := types.Rect{X: pairX, Y: visible.Y, Width: width, Height: height}
	right := types.Rect{X: pairX + width + gap, Y: visible.Y, Width: width, Height: height}

	if cfg.IDESide == SideRight {
		return Layout{IDEFrame: right, ChromeFrame: left}
	}
	return Layout{IDEFrame: left, ChromeFrame: right}
}

// ClampToScreen shrinks frame to fit the visible frame if it exceeds it in
// either dimension (re-centering on that axis when shrunk), then translates
// it back inside all four edges. Used to sanitize saved frames before
// restoring them on a possibly different screen. Idempotent.
func ClampToScreen(frame, visible types.Rect) types.Rect {
	if frame.Width > visible.Width {
		frame.Width = visible.Width
		frame.X = visible.X + (visible.Width-frame.Width)/2
	}
	if frame.Height > visible.Height {
		frame.Height = visible.Height
		frame.Y = visible.Y + (visible.Height-frame.Height)/2
	}

	if frame.X < visible.X {
		frame.X = visible.X
	}
	if frame.MaxX() > visible.MaxX() {
		frame.X = visible.MaxX() - frame.Width
	}
	if frame.Y < visible.Y {
		frame.Y = visible.Y
	}
	if frame.MaxY() > visible.MaxY() {
		frame.Y = visible.MaxY() - frame.Height
	}
	return frame
}
