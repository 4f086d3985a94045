package knowledge

import (
	"sync/atomic"
	"time"
)

type snapshot struct {
	byPair   map[string]*DrugInteraction
	loadedAt time.Time
}

// Store holds the in-memory view of the knowledge base. Lookups read an
// immutable snapshot through an atomic pointer, so checks never block on a
// reload; Replace swaps the whole snapshot at once.
type Store struct {
	current atomic.Pointer[snapshot]
}

// NewStore creates an empty, unloaded Store. Lookups against an unloaded
// store report unavailability rather than an empty knowledge base.
func NewStore() *Store {
	return &Store{}
}

// Replace installs a new snapshot built from the given entries. Inactive
// entries are skipped. When two entries share a pair the later one wins.
func (s *Store) Replace(entries []*DrugInteraction) {
	byPair := make(map[string]*DrugInteraction, len(entries))
	for _, e := range entries {
		if !e.Active {
			continue
		}
		byPair[e.Key()] = e
	}
	s.current.Store(&snapshot{byPair: byPair, loadedAt: time.Now().UTC()})
}

// Lookup finds the interaction entry for the unordered pair (a, b). The
// second return reports whether an entry exists; the third whether the store
// has ever been loaded. An absent entry in a loaded store is a definitive
// "no known interaction", which callers must not conflate with an unloaded
// store.
func (s *Store) Lookup(a, b string) (*DrugInteraction, bool, bool) {
	snap := s.current.Load()
	if snap == nil {
		return nil, false, false
	}
	entry, ok := snap.byPair[PairKey(a, b)]
	return entry, ok, true
}

// Loaded reports whether the store holds a snapshot.
func (s *Store) Loaded() bool {
	return s.current.Load() != nil
}

// Len returns the number of entries in the current snapshot.
func (s *Store) Len() int {
	snap := s.current.Load()
	if snap == nil {
		return 0
	}
	return len(snap.byPair)
}

// LoadedAt returns when the current snapshot was installed, or the zero time
// when the store is unloaded.
func (s *Store) LoadedAt() time.Time {
	snap := s.current.Load()
	if snap == nil {
		return time.Time{}
	}
	return snap.loadedAt
}
