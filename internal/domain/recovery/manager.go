package recovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/deskpilot/deskpilot/internal/domain/layout"
	"github.com/deskpilot/deskpilot/internal/domain/workspace"
	"github.com/deskpilot/deskpilot/internal/infrastructure/logging"
	"github.com/deskpilot/deskpilot/internal/infrastructure/monitoring"
	"github.com/deskpilot/deskpilot/internal/providers/positioner"
	"github.com/deskpilot/deskpilot/internal/providers/screen"
	"github.com/deskpilot/deskpilot/internal/providers/wm"
	"github.com/deskpilot/deskpilot/internal/shared/id"
	"github.com/deskpilot/deskpilot/internal/shared/types"
	"go.uber.org/zap"
)

// Fallbacks when the screen detector cannot answer; recorded as non-fatal
// errors in the sweep result rather than aborting.
const (
	fallbackMode        = types.ScreenWide
	fallbackWidthInches = 32.0
)

// RoleBinding associates an application role with its bundle id for the
// layout-aware pass.
type RoleBinding struct {
	Role     types.Role
	BundleID string
}

// Progress reports one window handled during a bulk sweep.
type Progress struct {
	Done   int
	Total  int
	Window types.Window
}

// ProgressFunc receives Progress after every window of a bulk sweep.
type ProgressFunc func(Progress)

// Manager sweeps workspaces, repositioning windows that are off-screen or
// sized incorrectly. Per-window failures accumulate as strings in the
// result; one stuck window must not block recovery of the rest.
type Manager struct {
	wm         wm.Client
	positioner positioner.Positioner
	screen     screen.Detector // nil disables the layout-aware pass
	layoutCfg  layout.Config
	roles      []RoleBinding
	metrics    *monitoring.Metrics
	log        *logging.Logger
}

// New creates a recovery manager. screen may be nil when no detector is
// available; project workspaces then get only the generic pass.
func New(client wm.Client, pos positioner.Positioner, detector screen.Detector, layoutCfg layout.Config, roles []RoleBinding, metrics *monitoring.Metrics, log *logging.Logger) *Manager {
	return &Manager{
		wm:         client,
		positioner: pos,
		screen:     detector,
		layoutCfg:  layoutCfg,
		roles:      roles,
		metrics:    metrics,
		log:        log,
	}
}

func (m *Manager) roleFor(bundleID string) (types.Role, bool) {
	for _, b := range m.roles {
		if b.BundleID == bundleID {
			return b.Role, true
		}
	}
	return "", false
}

// RecoverWorkspaceWindows sweeps one workspace. For project workspaces
// with a screen detector, a layout-aware pass first places windows whose
// bundle id matches a known role and whose title carries the project's
// tag token; the windows it successfully addresses are excluded from the
// generic pass that follows. Original focus is restored at the end
// regardless of outcome.
func (m *Manager) RecoverWorkspaceWindows(ctx context.Context, name string) (types.RecoveryResult, error) {
	var result types.RecoveryResult

	sweep := id.NewSweepID()
	windows, err := m.wm.WindowsInWorkspace(ctx, name)
	if err != nil {
		return result, fmt.Errorf("list windows of %q: %w", name, err)
	}
	m.log.Info("workspace recovery sweep",
		zap.String("sweep", sweep.String()),
		zap.String("workspace", name),
		zap.Int("windows", len(windows)))

	handled := make(map[int]bool)
	if projectID, ok := workspace.ProjectID(name); ok && m.screen != nil {
		m.layoutPass(ctx, projectID, windows, handled, &result)
	}

	origFocus, err := m.wm.FocusedWindow(ctx)
	if err != nil {
		origFocus = nil
	}

	for _, w := range windows {
		if handled[w.ID] {
			continue
		}
		result.Processed++
		m.recoverOne(ctx, w, &result)
	}

	if origFocus != nil {
		if err := m.wm.FocusWindow(ctx, origFocus.ID); err != nil {
			m.log.Warn("could not restore focus after sweep",
				zap.Int("window", origFocus.ID), zap.Error(err))
		}
	}

	if m.metrics != nil {
		m.metrics.RecordRecoverySweep("workspace", result.Recovered, len(result.Errors))
	}
	return result, nil
}

// layoutPass applies the canonical two-window layout to role windows
// tagged for the project. Successfully placed windows land in handled;
// failures fall through to the generic pass.
func (m *Manager) layoutPass(ctx context.Context, projectID string, windows []types.Window, handled map[int]bool, result *types.RecoveryResult) {
	mode, err := m.screen.Mode(ctx, m.layoutCfg.SmallScreenThresholdInches)
	if err != nil {
		mode = fallbackMode
		result.Errors = append(result.Errors, fmt.Sprintf("screen mode detection failed, assuming wide: %v", err))
	}

	widthInches, err := m.screen.PhysicalWidthInches(ctx)
	if err != nil {
		widthInches = fallbackWidthInches
		result.Errors = append(result.Errors, fmt.Sprintf("screen width detection failed, assuming %.0f inches: %v", fallbackWidthInches, err))
	}

	visible, err := m.screen.VisibleFrame(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("screen frame unavailable, skipping layout pass: %v", err))
		return
	}

	frames := layout.Compute(visible, widthInches, mode, m.layoutCfg)
	token := workspace.TagToken(projectID)

	for _, w := range windows {
		role, ok := m.roleFor(w.AppBundleID)
		if !ok || !strings.Contains(w.Title, token) {
			continue
		}

		frame := frames.ChromeFrame
		if role == types.RoleEditor {
			frame = frames.IDEFrame
		}

		if err := m.positioner.SetFrame(ctx, w.Title, frame); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("layout window %d: %v", w.ID, err))
			continue
		}
		handled[w.ID] = true
		result.Processed++
		result.Recovered++
	}
}

// recoverOne focuses one window and asks the positioner to recover it.
func (m *Manager) recoverOne(ctx context.Context, w types.Window, result *types.RecoveryResult) {
	if err := m.wm.FocusWindow(ctx, w.ID); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("focus window %d: %v", w.ID, err))
		return
	}

	outcome, err := m.positioner.RecoverFocused(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("recover window %d: %v", w.ID, err))
		return
	}

	switch outcome {
	case positioner.OutcomeRecovered:
		result.Recovered++
	case positioner.OutcomeNotFound:
		result.Errors = append(result.Errors, fmt.Sprintf("recover window %d: not found", w.ID))
	}
}

// RecoverAllWindows sweeps every workspace: all windows are gathered, a
// single destination is chosen via the workspace router, and each window
// is moved there (continuing past per-window move failures) and then
// recovered. progress, if non-nil, is called after every window. The only
// fatal failure is the initial enumeration itself.
func (m *Manager) RecoverAllWindows(ctx context.Context, progress ProgressFunc) (types.RecoveryResult, error) {
	var result types.RecoveryResult

	names, err := m.wm.ListWorkspaces(ctx)
	if err != nil {
		return result, fmt.Errorf("list workspaces: %w", err)
	}

	var all []types.Window
	populated := make(map[string]bool)
	for _, name := range names {
		windows, err := m.wm.WindowsInWorkspace(ctx, name)
		if err != nil {
			return result, fmt.Errorf("list windows of %q: %w", name, err)
		}
		populated[name] = len(windows) > 0
		all = append(all, windows...)
	}

	dest := workspace.PreferredNonProject(names, func(name string) bool {
		return populated[name]
	})
	m.log.Info("bulk recovery sweep",
		zap.String("sweep", id.NewSweepID().String()),
		zap.Int("windows", len(all)), zap.String("destination", dest))

	origFocus, err := m.wm.FocusedWindow(ctx)
	if err != nil {
		origFocus = nil
	}

	for i, w := range all {
		result.Processed++

		if w.Workspace != dest {
			if err := m.wm.MoveWindow(ctx, w.ID, dest, false); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("move window %d to %q: %v", w.ID, dest, err))
			}
		}

		m.recoverOne(ctx, w, &result)

		if progress != nil {
			progress(Progress{Done: i + 1, Total: len(all), Window: w})
		}
	}

	if origFocus != nil {
		if err := m.wm.FocusWindow(ctx, origFocus.ID); err != nil {
			m.log.Warn("could not restore focus after sweep",
				zap.Int("window", origFocus.ID), zap.Error(err))
		}
	}

	if m.metrics != nil {
		m.metrics.RecordRecoverySweep("all", result.Recovered, len(result.Errors))
	}
	return result, nil
}
