package recovery

import (
	"context"
	"errors"
	"testing"

	"github.com/deskpilot/deskpilot/internal/domain/layout"
	"github.com/deskpilot/deskpilot/internal/infrastructure/logging"
	"github.com/deskpilot/deskpilot/internal/providers/positioner"
	"github.com/deskpilot/deskpilot/internal/providers/screen"
	"github.com/deskpilot/deskpilot/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWM struct {
	workspaces []string
	windows    map[string][]types.Window
	focused    *types.Window

	listErr    error
	moveErr    map[int]error
	focusCalls []int
	moves      map[int]string
}

func (f *fakeWM) ListWorkspaces(context.Context) ([]string, error) {
	return f.workspaces, f.listErr
}

func (f *fakeWM) WorkspaceExists(context.Context, string) (bool, error) { return true, nil }

func (f *fakeWM) FocusedWorkspace(context.Context) (string, error) { return "", nil }

func (f *fakeWM) CreateWorkspace(context.Context, string) error { return nil }

func (f *fakeWM) CloseWorkspace(context.Context, string) error { return nil }

func (f *fakeWM) ListWindows(context.Context) ([]types.Window, error) { return nil, nil }

func (f *fakeWM) WindowsByApp(context.Context, string) ([]types.Window, error) { return nil, nil }

func (f *fakeWM) WindowsInWorkspace(_ context.Context, ws string) ([]types.Window, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.windows[ws], nil
}

func (f *fakeWM) FocusedWindow(context.Context) (*types.Window, error) { return f.focused, nil }

func (f *fakeWM) FocusWindow(_ context.Context, id int) error {
	f.focusCalls = append(f.focusCalls, id)
	return nil
}

func (f *fakeWM) MoveWindow(_ context.Context, id int, ws string, _ bool) error {
	if err := f.moveErr[id]; err != nil {
		return err
	}
	if f.moves == nil {
		f.moves = make(map[int]string)
	}
	f.moves[id] = ws
	return nil
}

type fakePositioner struct {
	setFrames    map[string]types.Rect
	setFrameErr  map[string]error
	recoverQueue []positioner.Outcome
	recoverErrAt int // 1-based call index that fails, 0 = never
	recoverCalls int
}

func (f *fakePositioner) SetFrame(_ context.Context, title string, frame types.Rect) error {
	if err := f.setFrameErr[title]; err != nil {
		return err
	}
	if f.setFrames == nil {
		f.setFrames = make(map[string]types.Rect)
	}
	f.setFrames[title] = frame
	return nil
}

func (f *fakePositioner) SetFramesForTag(context.Context, string, types.Rect) (int, error) {
	return 0, nil
}

func (f *fakePositioner) RecoverByTitle(context.Context, string) (positioner.Outcome, error) {
	return positioner.OutcomeUnchanged, nil
}

func (f *fakePositioner) RecoverFocused(context.Context) (positioner.Outcome, error) {
	f.recoverCalls++
	if f.recoverErrAt == f.recoverCalls {
		return positioner.OutcomeNotFound, errors.New("accessibility call failed")
	}
	if len(f.recoverQueue) > 0 {
		out := f.recoverQueue[0]
		f.recoverQueue = f.recoverQueue[1:]
		return out, nil
	}
	return positioner.OutcomeRecovered, nil
}

func (f *fakePositioner) Trusted(context.Context) (bool, error) { return true, nil }

type fakeDetector struct {
	mode    types.ScreenMode
	modeErr error

	widthInches float64
	widthErr    error

	frame    types.Rect
	frameErr error
}

func (f *fakeDetector) Mode(context.Context, float64) (types.ScreenMode, error) {
	return f.mode, f.modeErr
}

func (f *fakeDetector) PhysicalWidthInches(context.Context) (float64, error) {
	return f.widthInches, f.widthErr
}

func (f *fakeDetector) VisibleFrame(context.Context) (types.Rect, error) {
	return f.frame, f.frameErr
}

var testRoles = []RoleBinding{
	{Role: types.RoleEditor, BundleID: "com.microsoft.VSCode"},
	{Role: types.RoleBrowser, BundleID: "com.google.Chrome"},
}

func newManager(wm *fakeWM, pos *fakePositioner, det *fakeDetector) *Manager {
	return New(wm, pos, detectorOrNil(det), layout.DefaultConfig(), testRoles, nil, logging.NewNop())
}

// detectorOrNil avoids a typed-nil interface when no detector is wanted.
func detectorOrNil(det *fakeDetector) screen.Detector {
	if det == nil {
		return nil
	}
	return det
}

func TestGenericSweepPartialFailure(t *testing.T) {
	wm := &fakeWM{
		windows: map[string][]types.Window{
			"scratch": {
				{ID: 1, Workspace: "scratch"},
				{ID: 2, Workspace: "scratch"},
				{ID: 3, Workspace: "scratch"},
			},
		},
		focused: &types.Window{ID: 1, Workspace: "scratch"},
	}
	pos := &fakePositioner{recoverErrAt: 2}

	result, err := newManager(wm, pos, nil).RecoverWorkspaceWindows(context.Background(), "scratch")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Processed)
	assert.LessOrEqual(t, result.Recovered, 2)
	assert.Len(t, result.Errors, 1)

	// Original focus restored after the sweep.
	assert.Equal(t, 1, wm.focusCalls[len(wm.focusCalls)-1])
}

func TestProjectSweepLayoutPassExcludesHandled(t *testing.T) {
	wm := &fakeWM{
		windows: map[string][]types.Window{
			"ap-demo": {
				{ID: 1, AppBundleID: "com.microsoft.VSCode", Workspace: "ap-demo", Title: "main.go — [demo]"},
				{ID: 2, AppBundleID: "com.google.Chrome", Workspace: "ap-demo", Title: "[demo] localhost"},
				{ID: 3, AppBundleID: "com.apple.Terminal", Workspace: "ap-demo", Title: "zsh"},
			},
		},
		focused: &types.Window{ID: 3, Workspace: "ap-demo"},
	}
	pos := &fakePositioner{}
	det := &fakeDetector{
		mode:        types.ScreenWide,
		widthInches: 34,
		frame:       types.Rect{X: 0, Y: 0, Width: 3440, Height: 1440},
	}

	result, err := newManager(wm, pos, det).RecoverWorkspaceWindows(context.Background(), "ap-demo")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Processed)
	assert.Empty(t, result.Errors)

	// Both role windows placed by the layout pass.
	require.Len(t, pos.setFrames, 2)
	ide := pos.setFrames["main.go — [demo]"]
	chrome := pos.setFrames["[demo] localhost"]
	assert.Less(t, ide.X, chrome.X)

	// Only the terminal window went through the generic focus+recover step.
	assert.Equal(t, 1, pos.recoverCalls)
}

func TestRoleWindowWithoutTokenFallsThrough(t *testing.T) {
	wm := &fakeWM{
		windows: map[string][]types.Window{
			"ap-demo": {
				{ID: 1, AppBundleID: "com.google.Chrome", Workspace: "ap-demo", Title: "unrelated page"},
			},
		},
		focused: &types.Window{ID: 1, Workspace: "ap-demo"},
	}
	pos := &fakePositioner{}
	det := &fakeDetector{mode: types.ScreenWide, widthInches: 34, frame: types.Rect{Width: 3440, Height: 1440}}

	result, err := newManager(wm, pos, det).RecoverWorkspaceWindows(context.Background(), "ap-demo")
	require.NoError(t, err)

	assert.Empty(t, pos.setFrames)
	assert.Equal(t, 1, pos.recoverCalls)
	assert.Equal(t, 1, result.Processed)
}

func TestDetectorFailuresDegradeToFallbacks(t *testing.T) {
	wm := &fakeWM{
		windows: map[string][]types.Window{
			"ap-demo": {
				{ID: 1, AppBundleID: "com.microsoft.VSCode", Workspace: "ap-demo", Title: "[demo] code"},
			},
		},
	}
	pos := &fakePositioner{}
	det := &fakeDetector{
		modeErr:  errors.New("unknown display"),
		widthErr: errors.New("unknown display"),
		frame:    types.Rect{Width: 2560, Height: 1440},
	}

	result, err := newManager(wm, pos, det).RecoverWorkspaceWindows(context.Background(), "ap-demo")
	require.NoError(t, err)

	// Degraded but not aborted: the window is still laid out.
	assert.Len(t, pos.setFrames, 1)
	assert.Equal(t, 1, result.Recovered)
	assert.Len(t, result.Errors, 2)
}

func TestRecoverAllMovesAndReportsProgress(t *testing.T) {
	wm := &fakeWM{
		workspaces: []string{"ap-demo", "main"},
		windows: map[string][]types.Window{
			"ap-demo": {
				{ID: 1, Workspace: "ap-demo"},
				{ID: 2, Workspace: "ap-demo"},
			},
			"main": {
				{ID: 3, Workspace: "main"},
			},
		},
		focused: &types.Window{ID: 3, Workspace: "main"},
		moveErr: map[int]error{2: errors.New("move refused")},
	}
	pos := &fakePositioner{}

	var seen []Progress
	result, err := newManager(wm, pos, nil).RecoverAllWindows(context.Background(), func(p Progress) {
		seen = append(seen, p)
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Processed)
	// "main" is the first populated non-project workspace.
	assert.Equal(t, "main", wm.moves[1])
	// Window 3 already lives in the destination; no move issued for it.
	_, moved := wm.moves[3]
	assert.False(t, moved)
	// The failed move is recorded but the sweep continues.
	assert.Len(t, result.Errors, 1)

	require.Len(t, seen, 3)
	assert.Equal(t, 1, seen[0].Done)
	assert.Equal(t, 3, seen[0].Total)
	assert.Equal(t, 3, seen[2].Done)
}

func TestRecoverAllFatalOnEnumerationFailure(t *testing.T) {
	wm := &fakeWM{listErr: errors.New("wm gone")}

	_, err := newManager(wm, &fakePositioner{}, nil).RecoverAllWindows(context.Background(), nil)
	assert.Error(t, err)
}
