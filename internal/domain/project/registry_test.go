package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/deskpilot/deskpilot/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	data := `projects:
  - id: demo
    name: Demo App
    path: ~/code/demo
    urls:
      - http://localhost:3000
  - id: api
    name: Backend API
    remote_host: devbox
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())

	all := r.All()
	assert.Equal(t, "demo", all[0].ID)
	assert.Equal(t, "api", all[1].ID)
	assert.Equal(t, 0, r.Order("demo"))
	assert.Equal(t, 1, r.Order("api"))
	assert.Equal(t, 2, r.Order("missing"))

	p, ok := r.Get("api")
	require.True(t, ok)
	assert.Equal(t, "devbox", p.RemoteHost)

	_, ok = r.Get("nope")
	assert.False(t, ok)
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]types.Project{{ID: "x"}, {ID: "x"}})
	assert.Error(t, err)
}

func TestNewRejectsEmptyID(t *testing.T) {
	_, err := New([]types.Project{{Name: "unnamed"}})
	assert.Error(t, err)
}
