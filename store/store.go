package store

import (
	"sync"

	"github.com/mkarev/shclient/models"
)

// Store holds the latest snapshot. Apply is full replacement: no merging, no
// diffing against the previous snapshot. Consumers treat the returned state
// as read-only; the next Apply discards it wholesale.
type Store struct {
	mu          sync.RWMutex
	current     *models.GameState
	subscribers []func(*models.GameState)
}

func New() *Store {
	return &Store{}
}

// Apply replaces the snapshot and notifies subscribers synchronously, in
// registration order.
func (s *Store) Apply(snapshot *models.GameState) {
	s.mu.Lock()
	s.current = snapshot
	subs := make([]func(*models.GameState), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Current returns the latest snapshot, or nil before the first one arrives.
func (s *Store) Current() *models.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) Subscribe(fn func(*models.GameState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Reset drops the snapshot on session teardown.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}
