package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deskpilot/deskpilot/internal/domain/project"
	"github.com/deskpilot/deskpilot/internal/domain/workspace"
	"github.com/deskpilot/deskpilot/internal/infrastructure/logging"
	"github.com/deskpilot/deskpilot/internal/infrastructure/monitoring"
	"github.com/deskpilot/deskpilot/internal/providers/launcher"
	"github.com/deskpilot/deskpilot/internal/providers/state"
	"github.com/deskpilot/deskpilot/internal/providers/wm"
	"github.com/deskpilot/deskpilot/internal/shared/id"
	"github.com/deskpilot/deskpilot/internal/shared/types"
	"go.uber.org/zap"
)

// PollConfig bounds the launch and arrival poll loops. Every loop yields
// for Interval between queries and gives up at an absolute deadline of
// Timeout; a timeout stops polling without killing any in-flight launch.
type PollConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

// DefaultPollConfig returns the documented polling defaults.
func DefaultPollConfig() PollConfig {
	return PollConfig{
		Interval: 100 * time.Millisecond,
		Timeout:  10 * time.Second,
	}
}

// Notifier receives activation lifecycle events, e.g. for a WebSocket
// stream. May be nil.
type Notifier interface {
	Publish(event map[string]any)
}

// Orchestrator drives the per-activation state machine: ensure the
// editor and browser windows exist, tag-match them, move them into the
// project workspace, verify arrival, and maintain the recency list.
//
// The recency list and captured focus are owned by this instance and must
// only be touched from a single calling context; callers that serve
// concurrent requests serialize access externally.
type Orchestrator struct {
	projects  *project.Registry // nil until configuration is loaded
	wm        wm.Client
	launchers map[types.Role]launcher.Launcher
	store     state.Store
	poll      PollConfig
	notifier  Notifier
	metrics   *monitoring.Metrics
	log       *logging.Logger

	captured *types.CapturedFocus
	activeID string
	recents  *recencyList
}

// New creates an orchestrator. projects may be nil when configuration is
// not loaded; every activation then fails with ErrConfigNotLoaded. The
// recency list is seeded from the store; a store failure seeds empty.
func New(projects *project.Registry, client wm.Client, launchers []launcher.Launcher, store state.Store, poll PollConfig, notifier Notifier, metrics *monitoring.Metrics, log *logging.Logger) *Orchestrator {
	byRole := make(map[types.Role]launcher.Launcher, len(launchers))
	for _, l := range launchers {
		byRole[l.Role()] = l
	}

	var ids []string
	if store != nil {
		loaded, err := store.Load()
		if err != nil {
			log.Warn("recency state unreadable, starting empty", zap.Error(err))
		} else {
			ids = loaded
		}
	}

	return &Orchestrator{
		projects:  projects,
		wm:        client,
		launchers: byRole,
		store:     store,
		poll:      poll,
		notifier:  notifier,
		metrics:   metrics,
		log:       log,
		recents:   newRecencyList(ids),
	}
}

// ActiveProject returns the id of the currently active project, if any.
func (o *Orchestrator) ActiveProject() (string, bool) {
	return o.activeID, o.activeID != ""
}

// Recents returns the recency list, most recent first.
func (o *Orchestrator) Recents() []string {
	return o.recents.Snapshot()
}

func (o *Orchestrator) publish(event map[string]any) {
	if o.notifier != nil {
		o.notifier.Publish(event)
	}
}

// Activate brings the project's editor and browser windows into its
// workspace. All-or-nothing: the first sub-step failure aborts the whole
// activation; partial side effects (e.g. one window already launched) are
// left for a retry to discover via the find-first-then-launch check.
func (o *Orchestrator) Activate(ctx context.Context, projectID string) error {
	start := time.Now()
	err := o.activate(ctx, projectID)

	status := "ok"
	if err != nil {
		status = "error"
	}
	if o.metrics != nil {
		o.metrics.RecordActivation(status, time.Since(start))
	}
	return err
}

func (o *Orchestrator) activate(ctx context.Context, projectID string) error {
	start := time.Now()
	if o.projects == nil {
		return ErrConfigNotLoaded
	}
	p, ok := o.projects.Get(projectID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrProjectNotFound, projectID)
	}

	activationID := id.NewActivationID().String()
	target := workspace.Name(p.ID)
	log := o.log.With(
		zap.String("activation", activationID),
		zap.String("project", p.ID),
		zap.String("workspace", target))
	log.Info("activating project")
	o.publish(map[string]any{"type": "activation_started", "project": p.ID, "activation": activationID})

	// Capture focus at most once per session of a project being open, so
	// closing later can restore where the user was before.
	if o.captured == nil {
		if w, err := o.wm.FocusedWindow(ctx); err == nil && w != nil {
			o.captured = &types.CapturedFocus{
				WindowID:    w.ID,
				AppBundleID: w.AppBundleID,
				Workspace:   w.Workspace,
			}
		} else if err != nil {
			log.Warn("could not capture focus before activation", zap.Error(err))
		}
	}

	// The two launch+poll sub-flows are independent; running them in
	// parallel halves the worst-case wall clock.
	results := make(chan error, 2)
	for _, role := range []types.Role{types.RoleBrowser, types.RoleEditor} {
		go func(role types.Role) {
			results <- o.ensureWindow(ctx, role, p, target)
		}(role)
	}

	var firstErr error
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		o.publish(map[string]any{"type": "activation_failed", "project": p.ID, "activation": activationID, "error": firstErr.Error()})
		return firstErr
	}

	// Workspace moves are asynchronous relative to the query API; never
	// trust membership until re-queried.
	if err := o.awaitArrival(ctx, p, target); err != nil {
		o.publish(map[string]any{"type": "activation_failed", "project": p.ID, "activation": activationID, "error": err.Error()})
		return err
	}

	o.activeID = p.ID
	o.recents.Touch(p.ID)
	if o.store != nil {
		if err := o.store.Save(o.recents.Snapshot()); err != nil {
			log.Warn("could not persist recency state", zap.Error(err))
		}
	}

	log.Info("project activated", zap.Duration("elapsed", time.Since(start)))
	o.publish(map[string]any{"type": "activation_completed", "project": p.ID, "activation": activationID})
	return nil
}

// ensureWindow finds or launches the tagged window of one role and moves
// it into the target workspace.
func (o *Orchestrator) ensureWindow(ctx context.Context, role types.Role, p types.Project, target string) error {
	l, ok := o.launchers[role]
	if !ok {
		return &LaunchError{Role: role, Detail: "no launcher configured"}
	}

	token := workspace.TagToken(p.ID)
	w, err := o.findTagged(ctx, l.BundleID(), token)
	if err != nil {
		return fmt.Errorf("find %s window: %w", role, err)
	}

	if w == nil {
		if err := l.Open(ctx, p); err != nil {
			return &LaunchError{Role: role, Detail: err.Error(), Err: err}
		}
		w, err = o.pollForWindow(ctx, l.BundleID(), token)
		if err != nil {
			return &LaunchError{Role: role, Detail: "window did not appear within " + o.poll.Timeout.String(), Err: err}
		}
	}

	if w.Workspace != target {
		if err := o.wm.MoveWindow(ctx, w.ID, target, false); err != nil {
			return fmt.Errorf("move %s window to %q: %w", role, target, err)
		}
	}
	return nil
}

// findTagged returns the first window of the bundle whose title contains
// the tag token, nil when none exists.
func (o *Orchestrator) findTagged(ctx context.Context, bundleID, token string) (*types.Window, error) {
	windows, err := o.wm.WindowsByApp(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	for _, w := range windows {
		if strings.Contains(w.Title, token) {
			found := w
			return &found, nil
		}
	}
	return nil, nil
}

// pollForWindow waits for the tagged window to appear after a launch.
func (o *Orchestrator) pollForWindow(ctx context.Context, bundleID, token string) (*types.Window, error) {
	deadline := time.Now().Add(o.poll.Timeout)
	for {
		w, err := o.findTagged(ctx, bundleID, token)
		if err == nil && w != nil {
			return w, nil
		}

		if time.Now().After(deadline) {
			return nil, &WindowNotFoundError{Detail: fmt.Sprintf("%s window tagged %s", bundleID, token)}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(o.poll.Interval):
		}
	}
}

// awaitArrival polls until both role windows are confirmed present in the
// target workspace's window list.
func (o *Orchestrator) awaitArrival(ctx context.Context, p types.Project, target string) error {
	token := workspace.TagToken(p.ID)
	deadline := time.Now().Add(o.poll.Timeout)

	for {
		windows, err := o.wm.WindowsInWorkspace(ctx, target)
		if err == nil {
			present := make(map[types.Role]bool)
			for _, w := range windows {
				if !strings.Contains(w.Title, token) {
					continue
				}
				for role, l := range o.launchers {
					if w.AppBundleID == l.BundleID() {
						present[role] = true
					}
				}
			}
			if present[types.RoleEditor] && present[types.RoleBrowser] {
				return nil
			}
		}

		if time.Now().After(deadline) {
			return &WindowNotFoundError{Detail: fmt.Sprintf("windows not confirmed in %q within %s", target, o.poll.Timeout)}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(o.poll.Interval):
		}
	}
}

// CloseProject closes the project's workspace and restores the captured
// focus. Once the workspace is closed the operation counts as successful;
// a focus-restore failure is logged, not propagated.
func (o *Orchestrator) CloseProject(ctx context.Context, projectID string) error {
	if o.projects == nil {
		return ErrConfigNotLoaded
	}
	if _, ok := o.projects.Get(projectID); !ok {
		return fmt.Errorf("%w: %q", ErrProjectNotFound, projectID)
	}

	target := workspace.Name(projectID)
	if err := o.wm.CloseWorkspace(ctx, target); err != nil {
		return fmt.Errorf("close workspace %q: %w", target, err)
	}

	if o.captured != nil {
		if err := o.wm.FocusWindow(ctx, o.captured.WindowID); err != nil {
			o.log.Warn("could not restore focus after close",
				zap.Int("window", o.captured.WindowID), zap.Error(err))
		}
		o.captured = nil
	}
	if o.activeID == projectID {
		o.activeID = ""
	}

	o.publish(map[string]any{"type": "project_closed", "project": projectID})
	return nil
}

// ExitProject restores the pre-activation focus without closing the
// project's workspace.
func (o *Orchestrator) ExitProject(ctx context.Context) error {
	if o.activeID == "" {
		return ErrNoActiveProject
	}
	if o.captured == nil {
		return ErrNoPreviousWindow
	}

	if err := o.wm.FocusWindow(ctx, o.captured.WindowID); err != nil {
		return fmt.Errorf("restore focus: %w", err)
	}
	o.captured = nil
	return nil
}
