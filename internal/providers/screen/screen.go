package screen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/deskpilot/deskpilot/internal/shared/types"
)

// Detector classifies the active display and reports its geometry. May
// fail when hardware geometry is unknown (e.g. some external displays);
// callers degrade to documented fallbacks.
type Detector interface {
	// Mode reports small or wide given the physical-width threshold.
	Mode(ctx context.Context, thresholdInches float64) (types.ScreenMode, error)
	// PhysicalWidthInches reports the physical width of the display.
	PhysicalWidthInches(ctx context.Context) (float64, error)
	// VisibleFrame reports the display's usable frame in points.
	VisibleFrame(ctx context.Context) (types.Rect, error)
}

// Helper shells out to the accessibility helper binary for display info.
type Helper struct {
	binary      string
	callTimeout time.Duration
}

// NewHelper creates a helper-backed detector.
func NewHelper(binary string, callTimeout time.Duration) *Helper {
	return &Helper{binary: binary, callTimeout: callTimeout}
}

type displayInfo struct {
	WidthInches float64    `json:"width_inches"`
	Frame       types.Rect `json:"visible_frame"`
}

func (h *Helper) info(ctx context.Context) (*displayInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, h.callTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, h.binary, "display-info").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %s", h.binary, exitErr.Stderr)
		}
		return nil, fmt.Errorf("%s: %w", h.binary, err)
	}

	var info displayInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("decode display info: %w", err)
	}
	return &info, nil
}

func (h *Helper) Mode(ctx context.Context, thresholdInches float64) (types.ScreenMode, error) {
	width, err := h.PhysicalWidthInches(ctx)
	if err != nil {
		return "", err
	}
	if width < thresholdInches {
		return types.ScreenSmall, nil
	}
	return types.ScreenWide, nil
}

func (h *Helper) PhysicalWidthInches(ctx context.Context) (float64, error) {
	info, err := h.info(ctx)
	if err != nil {
		return 0, err
	}
	if info.WidthInches <= 0 {
		return 0, errors.New("display reports no physical width")
	}
	return info.WidthInches, nil
}

func (h *Helper) VisibleFrame(ctx context.Context) (types.Rect, error) {
	info, err := h.info(ctx)
	if err != nil {
		return types.Rect{}, err
	}
	return info.Frame, nil
}
