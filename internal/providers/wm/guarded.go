package wm

import (
	"context"
	"fmt"
	"time"

	"github.com/deskpilot/deskpilot/internal/infrastructure/logging"
	"github.com/deskpilot/deskpilot/internal/infrastructure/monitoring"
	"github.com/deskpilot/deskpilot/internal/infrastructure/resilience"
	"github.com/deskpilot/deskpilot/internal/shared/types"
	"go.uber.org/zap"
)

// probeTimeout bounds one background recovery probe.
const probeTimeout = 3 * time.Second

// Guarded wraps a Client with the process-wide circuit breaker, call
// metrics, and logging. All core components talk to the window manager
// through it. While the breaker is open, eligible calls kick off a bounded
// background probe instead of waiting for another timeout.
type Guarded struct {
	inner   Client
	breaker *resilience.Breaker
	metrics *monitoring.Metrics
	log     *logging.Logger
}

// NewGuarded creates the guarded window-manager client.
func NewGuarded(inner Client, breaker *resilience.Breaker, metrics *monitoring.Metrics, log *logging.Logger) *Guarded {
	return &Guarded{
		inner:   inner,
		breaker: breaker,
		metrics: metrics,
		log:     log,
	}
}

// Breaker exposes the underlying breaker for diagnostics.
func (g *Guarded) Breaker() *resilience.Breaker {
	return g.breaker
}

// do runs one window-manager call through the breaker.
func (g *Guarded) do(op string, fn func() error) error {
	if !g.breaker.Allow() {
		g.maybeRecover()
		return fmt.Errorf("wm %s: %w", op, resilience.ErrCircuitOpen)
	}

	start := time.Now()
	err := fn()
	duration := time.Since(start)

	status := "ok"
	switch {
	case err == nil:
		g.breaker.RecordSuccess()
	case IsTimeout(err):
		// Only timeouts trip the breaker; a prompt error still proves
		// the window manager is responsive.
		status = "timeout"
		g.breaker.RecordTimeout()
		g.log.Warn("window manager call timed out",
			zap.String("op", op),
			zap.Duration("duration", duration))
		g.maybeRecover()
	default:
		status = "error"
		g.breaker.RecordSuccess()
	}

	if g.metrics != nil {
		g.metrics.RecordWMCall(op, status, duration)
	}
	return err
}

// maybeRecover launches a background probe if the breaker grants the claim.
func (g *Guarded) maybeRecover() {
	if !g.breaker.BeginRecovery() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()

		_, err := g.inner.ListWorkspaces(ctx)
		ok := err == nil
		g.breaker.EndRecovery(ok)
		if ok {
			g.log.Info("window manager recovered, breaker closed")
		} else {
			g.log.Warn("window manager recovery probe failed", zap.Error(err))
		}
	}()
}

func (g *Guarded) ListWorkspaces(ctx context.Context) ([]string, error) {
	var out []string
	err := g.do("list-workspaces", func() error {
		var err error
		out, err = g.inner.ListWorkspaces(ctx)
		return err
	})
	return out, err
}

func (g *Guarded) WorkspaceExists(ctx context.Context, name string) (bool, error) {
	var out bool
	err := g.do("workspace-exists", func() error {
		var err error
		out, err = g.inner.WorkspaceExists(ctx, name)
		return err
	})
	return out, err
}

func (g *Guarded) FocusedWorkspace(ctx context.Context) (string, error) {
	var out string
	err := g.do("focused-workspace", func() error {
		var err error
		out, err = g.inner.FocusedWorkspace(ctx)
		return err
	})
	return out, err
}

func (g *Guarded) CreateWorkspace(ctx context.Context, name string) error {
	return g.do("create-workspace", func() error {
		return g.inner.CreateWorkspace(ctx, name)
	})
}

func (g *Guarded) CloseWorkspace(ctx context.Context, name string) error {
	return g.do("close-workspace", func() error {
		return g.inner.CloseWorkspace(ctx, name)
	})
}

func (g *Guarded) ListWindows(ctx context.Context) ([]types.Window, error) {
	var out []types.Window
	err := g.do("list-windows", func() error {
		var err error
		out, err = g.inner.ListWindows(ctx)
		return err
	})
	return out, err
}

func (g *Guarded) WindowsByApp(ctx context.Context, bundleID string) ([]types.Window, error) {
	var out []types.Window
	err := g.do("windows-by-app", func() error {
		var err error
		out, err = g.inner.WindowsByApp(ctx, bundleID)
		return err
	})
	return out, err
}

func (g *Guarded) WindowsInWorkspace(ctx context.Context, workspace string) ([]types.Window, error) {
	var out []types.Window
	err := g.do("windows-in-workspace", func() error {
		var err error
		out, err = g.inner.WindowsInWorkspace(ctx, workspace)
		return err
	})
	return out, err
}

func (g *Guarded) FocusedWindow(ctx context.Context) (*types.Window, error) {
	var out *types.Window
	err := g.do("focused-window", func() error {
		var err error
		out, err = g.inner.FocusedWindow(ctx)
		return err
	})
	return out, err
}

func (g *Guarded) FocusWindow(ctx context.Context, windowID int) error {
	return g.do("focus-window", func() error {
		return g.inner.FocusWindow(ctx, windowID)
	})
}

func (g *Guarded) MoveWindow(ctx context.Context, windowID int, workspace string, keepFocus bool) error {
	return g.do("move-window", func() error {
		return g.inner.MoveWindow(ctx, windowID, workspace, keepFocus)
	})
}
