package positioner

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

// Helper shells out to the accessibility helper binary. Thin adapter, no
// architecture: flat arguments in, one JSON object out.
type Helper struct {
	binary      string
	callTimeout time.Duration
}

// NewHelper creates a helper-backed positioner.
func NewHelper(binary string, callTimeout time.Duration) *Helper {
	return &Helper{binary: binary, callTimeout: callTimeout}
}

type helperReply struct {
	Outcome string `json:"outcome"`
	Count   int    `json:"count"`
	Trusted bool   `json:"trusted"`
}

func (h *Helper) run(ctx context.Context, args ...string) (*helperReply, error) {
	ctx, cancel := context.WithTimeout(ctx, h.callTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, h.binary, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %s", h.binary, exitErr.Stderr)
		}
		return nil, fmt.Errorf("%s: %w", h.binary, err)
	}

	var reply helperReply
	if err := json.Unmarshal(out, &reply); err != nil {
		return nil, fmt.Errorf("decode %s reply: %w", h.binary, err)
	}
	return &reply, nil
}

func frameArgs(frame types.Rect) []string {
	return []string{
		"--x", strconv.FormatFloat(frame.X, 'f', -1, 64),
		"--y", strconv.FormatFloat(frame.Y, 'f', -1, 64),
		"--width", strconv.FormatFloat(frame.Width, 'f', -1, 64),
		"--height", strconv.FormatFloat(frame.Height, 'f', -1, 64),
	}
}

func (h *Helper) SetFrame(ctx context.Context, titleContains string, frame types.Rect) error {
	args := append([]string{"set-frame", "--title", titleContains}, frameArgs(frame)...)
	_, err := h.run(ctx, args...)
	return err
}

func (h *Helper) SetFramesForTag(ctx context.Context, tag string, frame types.Rect) (int, error) {
	args := append([]string{"set-frames", "--tag", tag, "--cascade"}, frameArgs(frame)...)
	reply, err := h.run(ctx, args...)
	if err != nil {
		return 0, err
	}
	return reply.Count, nil
}

func (h *Helper) RecoverByTitle(ctx context.Context, titleContains string) (Outcome, error) {
	reply, err := h.run(ctx, "recover", "--title", titleContains)
	if err != nil {
		return OutcomeNotFound, err
	}
	return Outcome(reply.Outcome), nil
}

func (h *Helper) RecoverFocused(ctx context.Context) (Outcome, error) {
	reply, err := h.run(ctx, "recover", "--focused")
	if err != nil {
		return OutcomeNotFound, err
	}
	return Outcome(reply.Outcome), nil
}

func (h *Helper) Trusted(ctx context.Context) (bool, error) {
	reply, err := h.run(ctx, "trusted")
	if err != nil {
		return false, err
	}
	return reply.Trusted, nil
}
