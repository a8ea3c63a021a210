package project

import (
	"fmt"
	"os"

	"github.com/deskpilot/deskpilot/internal/shared/types"
	"github.com/goccy/go-yaml"
)

// Registry holds the configured projects. File order is preserved; it is
// the tie-breaking sort key for every project listing.
type Registry struct {
	projects []types.Project
	index    map[string]int
}

// file is the on-disk shape of the project configuration.
type file struct {
	Projects []types.Project `yaml:"projects"`
}

// Load reads the project configuration from a YAML file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read projects file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse projects file: %w", err)
	}

	return New(f.Projects)
}

// New builds a registry from an ordered project list.
func New(projects []types.Project) (*Registry, error) {
	index := make(map[string]int, len(projects))
	for i, p := range projects {
		if p.ID == "" {
			return nil, fmt.Errorf("project %d has no id", i)
		}
		if _, dup := index[p.ID]; dup {
			return nil, fmt.Errorf("duplicate project id %q", p.ID)
		}
		index[p.ID] = i
	}
	return &Registry{projects: projects, index: index}, nil
}

// Get returns a project by id.
func (r *Registry) Get(id string) (types.Project, bool) {
	i, ok := r.index[id]
	if !ok {
		return types.Project{}, false
	}
	return r.projects[i], true
}

// All returns the projects in configuration order.
func (r *Registry) All() []types.Project {
	out := make([]types.Project, len(r.projects))
	copy(out, r.projects)
	return out
}

// Order returns the configuration-order rank of a project id.
func (r *Registry) Order(id string) int {
	if i, ok := r.index[id]; ok {
		return i
	}
	return len(r.projects)
}

// Len returns the number of configured projects.
func (r *Registry) Len() int {
	return len(r.projects)
}
