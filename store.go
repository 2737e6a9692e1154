package tonic

import "sort"

// Entry is the stored value bound to one override key.
type Entry struct {
	Kind  Kind
	Value any
}

// overrideStore holds the active override entries plus the generation
// counter. Every mutating call bumps the generation, which in turn discards
// all cached instanced and computed realizations.
type overrideStore struct {
	entries    map[Key]Entry
	generation uint64
}

func newOverrideStore() *overrideStore {
	return &overrideStore{entries: make(map[Key]Entry)}
}

// reset discards the current entries and installs incoming as the complete
// new state.
func (s *overrideStore) reset(incoming map[Key]Entry) {
	s.entries = make(map[Key]Entry, len(incoming))
	for key, entry := range incoming {
		s.entries[key] = entry
	}
	s.generation++
}

// update overlays incoming onto the current state; incoming keys win.
func (s *overrideStore) update(incoming map[Key]Entry) {
	for key, entry := range incoming {
		s.entries[key] = entry
	}
	s.generation++
}

func (s *overrideStore) get(key Key) (Entry, bool) {
	entry, ok := s.entries[key]
	return entry, ok
}

// sortedKeys returns every active key ordered by namespace then parameter so
// snapshots and dumps are deterministic.
func (s *overrideStore) sortedKeys() []Key {
	keys := make([]Key, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Namespace == keys[j].Namespace {
			return keys[i].Param < keys[j].Param
		}
		return keys[i].Namespace < keys[j].Namespace
	})
	return keys
}
