package entity

import "sort"

// Store owns every live entity for the lifetime of one session. Other
// subsystems hold only ids; the store is the single writer (§3 ownership,
// §5 single-logical-executor model). It is not safe for concurrent use —
// the session's tick loop is the only caller.
type Store struct {
	byID    map[string]*Entity
	ids     []string // kept sorted; avoids relying on map iteration order (§9)
	pending []string // ids marked for end-of-tick removal
}

// NewStore returns an empty entity store.
func NewStore() *Store {
	return &Store{byID: make(map[string]*Entity)}
}

// Add inserts a new entity. The id must be unique within the session.
func (s *Store) Add(e *Entity) {
	if e == nil || e.ID == "" {
		return
	}
	if _, exists := s.byID[e.ID]; exists {
		return
	}
	s.byID[e.ID] = e
	idx := sort.SearchStrings(s.ids, e.ID)
	s.ids = append(s.ids, "")
	copy(s.ids[idx+1:], s.ids[idx:])
	s.ids[idx] = e.ID
}

// Get returns the entity with the given id, or nil if absent.
func (s *Store) Get(id string) *Entity {
	if s == nil {
		return nil
	}
	return s.byID[id]
}

// MarkRemoved defers destruction of the entity to the end of the current
// tick, keeping iteration stable during the tick body (§3 lifecycle).
func (s *Store) MarkRemoved(id string) {
	if _, ok := s.byID[id]; !ok {
		return
	}
	s.pending = append(s.pending, id)
}

// CommitRemovals deletes every entity marked this tick. Call once, as the
// final step of the tick orchestrator (§4.1 step 10).
func (s *Store) CommitRemovals() []string {
	if len(s.pending) == 0 {
		return nil
	}
	removed := s.pending
	s.pending = nil
	for _, id := range removed {
		delete(s.byID, id)
		idx := sort.SearchStrings(s.ids, id)
		if idx < len(s.ids) && s.ids[idx] == id {
			s.ids = append(s.ids[:idx], s.ids[idx+1:]...)
		}
	}
	return removed
}

// Len returns the number of live (not-yet-removed) entities.
func (s *Store) Len() int {
	return len(s.ids)
}

// Each iterates every entity in ascending id order, deterministically. The
// callback must not add or remove entities mid-iteration; use MarkRemoved
// and CommitRemovals for deferred destruction instead.
func (s *Store) Each(fn func(*Entity)) {
	for _, id := range s.ids {
		fn(s.byID[id])
	}
}

// EachOfKind iterates entities of the given kind in ascending id order.
func (s *Store) EachOfKind(kind Kind, fn func(*Entity)) {
	for _, id := range s.ids {
		e := s.byID[id]
		if e.Kind == kind {
			fn(e)
		}
	}
}

// Snapshot returns every live entity as a slice in ascending id order.
// Callers must not retain pointers across ticks without understanding the
// store may have removed or repointed them.
func (s *Store) Snapshot() []*Entity {
	out := make([]*Entity, 0, len(s.ids))
	s.Each(func(e *Entity) { out = append(out, e) })
	return out
}
