package session

import (
	"sort"
	"strings"

	"github.com/deskpilot/deskpilot/internal/shared/types"
)

// matchTier classifies how well a project matches a text query. Lower is
// better; tierNone entries are dropped from results.
type matchTier int

const (
	tierNamePrefix matchTier = iota
	tierIDPrefix
	tierNameSubstring
	tierIDSubstring
	tierNone
)

// classify assigns the best tier for one project, case-insensitive.
func classify(p types.Project, query string) matchTier {
	query = strings.ToLower(query)
	name := strings.ToLower(p.Name)
	id := strings.ToLower(p.ID)

	switch {
	case strings.HasPrefix(name, query):
		return tierNamePrefix
	case strings.HasPrefix(id, query):
		return tierIDPrefix
	case strings.Contains(name, query):
		return tierNameSubstring
	case strings.Contains(id, query):
		return tierIDSubstring
	default:
		return tierNone
	}
}

// OrderedProjects returns the configured projects ordered for display.
// With an empty query: recency rank first (unranked entries tie, after
// all ranked ones), then configuration order. With a query: no-match
// entries are dropped and match tier precedes recency and config order.
func (o *Orchestrator) OrderedProjects(query string) ([]types.Project, error) {
	if o.projects == nil {
		return nil, ErrConfigNotLoaded
	}

	type entry struct {
		project types.Project
		tier    matchTier
		rank    int
		order   int
	}

	var entries []entry
	for _, p := range o.projects.All() {
		e := entry{
			project: p,
			rank:    o.recents.Rank(p.ID),
			order:   o.projects.Order(p.ID),
		}
		if query != "" {
			e.tier = classify(p, query)
			if e.tier == tierNone {
				continue
			}
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].tier != entries[j].tier {
			return entries[i].tier < entries[j].tier
		}
		if entries[i].rank != entries[j].rank {
			return entries[i].rank < entries[j].rank
		}
		return entries[i].order < entries[j].order
	})

	out := make([]types.Project, len(entries))
	for i, e := range entries {
		out[i] = e.project
	}
	return out, nil
}
