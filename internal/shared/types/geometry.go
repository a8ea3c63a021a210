package types

// Rect is a window or screen frame in a normalized, top-left-origin screen
// coordinate space (y grows downward regardless of platform convention).
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float64 {
	return r.X + r.Width
}

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float64 {
	return r.Y + r.Height
}

// ScreenMode is a coarse classification of a display's physical size,
// derived externally from physical width vs a configured threshold.
type ScreenMode string

const (
	ScreenSmall ScreenMode = "small"
	ScreenWide  ScreenMode = "wide"
)
