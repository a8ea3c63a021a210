package wm

import (
	"context"
	"errors"
	"fmt"
)

// Error is the structured failure of one window-manager operation.
type Error struct {
	Op      string
	Detail  string
	Timeout bool
}

func (e *Error) Error() string {
	if e.Timeout {
		return fmt.Sprintf("wm %s: timed out (%s)", e.Op, e.Detail)
	}
	return fmt.Sprintf("wm %s: %s", e.Op, e.Detail)
}

// IsTimeout reports whether err represents a window-manager call timeout.
func IsTimeout(err error) bool {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Timeout
	}
	return errors.Is(err, context.DeadlineExceeded)
}
