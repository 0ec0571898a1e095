package pose

import "sync"

// Library is an ordered, concurrency-safe collection of definitions.
// Detection runs on a snapshot, so a reload never blocks in-flight calls.
type Library struct {
	mu   sync.RWMutex
	defs []Definition
}

// NewLibrary creates a Library holding a copy of defs in order.
func NewLibrary(defs ...Definition) *Library {
	l := &Library{}
	l.Replace(defs)
	return l
}

// Replace swaps the whole ordered list.
func (l *Library) Replace(defs []Definition) {
	cp := make([]Definition, len(defs))
	copy(cp, defs)

	l.mu.Lock()
	l.defs = cp
	l.mu.Unlock()
}

// List returns the definitions in priority order.
func (l *Library) List() []Definition {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

// Len returns the number of definitions.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.defs)
}

// Detect runs Detect against the current definitions. The returned
// definition is a copy owned by the caller.
func (l *Library) Detect(s *HandSample) (*Definition, error) {
	l.mu.RLock()
	defs := l.defs
	l.mu.RUnlock()

	// defs is never mutated in place, so reading it unlocked is safe.
	matched, err := Detect(s, defs)
	if err != nil || matched == nil {
		return nil, err
	}
	cp := *matched
	return &cp, nil
}

func (l *Library) snapshotLocked() []Definition {
	cp := make([]Definition, len(l.defs))
	copy(cp, l.defs)
	return cp
}
