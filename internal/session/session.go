// Package session holds the bearer credential for the lifetime of the
// process. Nothing is written to disk; a restart always starts logged out.
package session

import "sync"

// Store holds the current credential. It is safe for concurrent use because
// UI commands read it from their own goroutines.
type Store struct {
	mu    sync.RWMutex
	token string
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

// Set replaces the current credential.
func (s *Store) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Get returns the credential and whether one is present.
func (s *Store) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Clear drops the credential.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}
