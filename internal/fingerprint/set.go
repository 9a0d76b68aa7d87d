package fingerprint

import "sync"

// Set is the membership set consulted during a batch ingestion run. It is
// the one piece of mutable shared state in the pipeline, so it carries its
// own lock: two workers racing to insert the same fingerprint get exactly
// one winner.
type Set struct {
	mu   sync.Mutex
	seen map[Fingerprint]struct{}
}

// NewSet returns an empty set, optionally pre-seeded with fingerprints
// already present in the store.
func NewSet(seed ...Fingerprint) *Set {
	s := &Set{seen: make(map[Fingerprint]struct{}, len(seed))}
	for _, fp := range seed {
		s.seen[fp] = struct{}{}
	}
	return s
}

// Add inserts the fingerprint and reports whether it was absent before.
// The check and insert are a single atomic step.
func (s *Set) Add(fp Fingerprint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[fp]; dup {
		return false
	}
	s.seen[fp] = struct{}{}
	return true
}

// Remove deletes the fingerprint, making it insertable again. Called
// when the worker that won the Add race fails to persist its record, so
// the event stays storable on retry.
func (s *Set) Remove(fp Fingerprint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, fp)
}

// Contains reports membership without inserting.
func (s *Set) Contains(fp Fingerprint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[fp]
	return ok
}

// Len returns the number of distinct fingerprints seen.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
