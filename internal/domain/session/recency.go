package session

// recencyCapacity bounds the most-recent-first activation list.
const recencyCapacity = 100

// recencyList is a bounded, most-recent-first list of project ids.
// Owned exclusively by one Orchestrator; not safe for concurrent use.
type recencyList struct {
	ids []string
}

func newRecencyList(ids []string) *recencyList {
	if len(ids) > recencyCapacity {
		ids = ids[:recencyCapacity]
	}
	return &recencyList{ids: ids}
}

// Touch moves id to the front, inserting it if absent and evicting the
// oldest entry when over capacity.
func (l *recencyList) Touch(id string) {
	for i, existing := range l.ids {
		if existing == id {
			copy(l.ids[1:i+1], l.ids[:i])
			l.ids[0] = id
			return
		}
	}

	l.ids = append([]string{id}, l.ids...)
	if len(l.ids) > recencyCapacity {
		l.ids = l.ids[:recencyCapacity]
	}
}

// Rank returns the recency position of id; unranked ids return a rank
// past every ranked entry, so they sort after all of them and tie with
// each other.
func (l *recencyList) Rank(id string) int {
	for i, existing := range l.ids {
		if existing == id {
			return i
		}
	}
	return len(l.ids)
}

// Snapshot returns a copy of the list, most recent first.
func (l *recencyList) Snapshot() []string {
	out := make([]string, len(l.ids))
	copy(out, l.ids)
	return out
}
