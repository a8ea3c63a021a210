package cycle

import (
	"context"
	"testing"

	"github.com/deskpilot/deskpilot/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWM serves a fixed window list and records focus calls.
type fakeWM struct {
	focused    *types.Window
	windows    map[string][]types.Window
	focusCalls []int
}

func (f *fakeWM) ListWorkspaces(context.Context) ([]string, error) { return nil, nil }

func (f *fakeWM) WorkspaceExists(context.Context, string) (bool, error) { return false, nil }

func (f *fakeWM) FocusedWorkspace(context.Context) (string, error) { return "", nil }

func (f *fakeWM) CreateWorkspace(context.Context, string) error { return nil }

func (f *fakeWM) CloseWorkspace(context.Context, string) error { return nil }

func (f *fakeWM) ListWindows(context.Context) ([]types.Window, error) { return nil, nil }

func (f *fakeWM) WindowsByApp(context.Context, string) ([]types.Window, error) { return nil, nil }

func (f *fakeWM) WindowsInWorkspace(_ context.Context, ws string) ([]types.Window, error) {
	return f.windows[ws], nil
}

func (f *fakeWM) FocusedWindow(context.Context) (*types.Window, error) { return f.focused, nil }

func (f *fakeWM) FocusWindow(_ context.Context, id int) error {
	f.focusCalls = append(f.focusCalls, id)
	return nil
}

func (f *fakeWM) MoveWindow(context.Context, int, string, bool) error { return nil }

func threeWindows() *fakeWM {
	ws := []types.Window{
		{ID: 1, Workspace: "ap-demo", Title: "editor"},
		{ID: 2, Workspace: "ap-demo", Title: "browser"},
		{ID: 3, Workspace: "ap-demo", Title: "terminal"},
	}
	return &fakeWM{
		focused: &ws[0],
		windows: map[string][]types.Window{"ap-demo": ws},
	}
}

func TestStartSessionStepsFromFocused(t *testing.T) {
	c := New(threeWindows())

	s, err := c.StartSession(context.Background(), Next)
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, 1, s.InitialWindowID)
	assert.Equal(t, 1, s.Selected)
	assert.Equal(t, 2, s.SelectedWindow().ID)
}

func TestStartSessionWrapsBackward(t *testing.T) {
	c := New(threeWindows())

	s, err := c.StartSession(context.Background(), Previous)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 3, s.SelectedWindow().ID)
}

func TestStartSessionNoSessionCases(t *testing.T) {
	tests := []struct {
		name string
		wm   *fakeWM
	}{
		{"no focused window", &fakeWM{}},
		{
			"single window",
			&fakeWM{
				focused: &types.Window{ID: 1, Workspace: "main"},
				windows: map[string][]types.Window{"main": {{ID: 1, Workspace: "main"}}},
			},
		},
		{
			"focused window missing from list",
			&fakeWM{
				focused: &types.Window{ID: 99, Workspace: "main"},
				windows: map[string][]types.Window{"main": {
					{ID: 1, Workspace: "main"},
					{ID: 2, Workspace: "main"},
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.wm).StartSession(context.Background(), Next)
			require.NoError(t, err)
			assert.Nil(t, s)
		})
	}
}

func TestAdvanceIsItsOwnInverse(t *testing.T) {
	c := New(threeWindows())
	s, err := c.StartSession(context.Background(), Next)
	require.NoError(t, err)

	start := s.Selected
	for i := 0; i < 7; i++ {
		c.Advance(s, Next)
	}
	for i := 0; i < 7; i++ {
		c.Advance(s, Previous)
	}
	assert.Equal(t, start, s.Selected)
}

func TestAdvanceMakesNoExternalCalls(t *testing.T) {
	wm := threeWindows()
	c := New(wm)
	s, err := c.StartSession(context.Background(), Next)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		c.Advance(s, Next)
	}
	assert.Empty(t, wm.focusCalls)
}

func TestCommitAndCancel(t *testing.T) {
	wm := threeWindows()
	c := New(wm)
	s, err := c.StartSession(context.Background(), Next)
	require.NoError(t, err)

	require.NoError(t, c.Commit(context.Background(), s))
	assert.Equal(t, []int{2}, wm.focusCalls)

	require.NoError(t, c.Cancel(context.Background(), s))
	assert.Equal(t, []int{2, 1}, wm.focusCalls)
}

func TestCycleFocus(t *testing.T) {
	wm := threeWindows()
	require.NoError(t, New(wm).CycleFocus(context.Background(), Next))
	assert.Equal(t, []int{2}, wm.focusCalls)

	// No-op when there is nothing to cycle.
	empty := &fakeWM{}
	require.NoError(t, New(empty).CycleFocus(context.Background(), Next))
	assert.Empty(t, empty.focusCalls)
}
