// Package services – RefStore
//
// RefStore remembers, per user, the pet name of the last report-related
// action so short affirmative follow-ups ("sim", "pode enviar") can be
// resolved. The store is deliberately in-memory only: pointers are cheap to
// re-establish and losing them on restart is an accepted limitation.
package services

import "sync"

// RefStore is a per-user "last referenced report" pointer map.
// Safe for concurrent use.
type RefStore struct {
	mu sync.Mutex
	m  map[string]string
}

// NewRefStore returns an empty store.
func NewRefStore() *RefStore {
	return &RefStore{m: make(map[string]string)}
}

// Set records petName as the last referenced report for userID.
func (s *RefStore) Set(userID, petName string) {
	s.mu.Lock()
	s.m[userID] = petName
	s.mu.Unlock()
}

// Get returns the pointer for userID, if any.
func (s *RefStore) Get(userID string) (string, bool) {
	s.mu.Lock()
	pet, ok := s.m[userID]
	s.mu.Unlock()
	return pet, ok
}

// Clear removes the pointer for userID.
func (s *RefStore) Clear(userID string) {
	s.mu.Lock()
	delete(s.m, userID)
	s.mu.Unlock()
}
