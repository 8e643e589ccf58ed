package studio

import "sync"

// Store serialises dispatches against a single State.
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore creates a store holding initial.
func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Dispatch applies a and returns the states before and after.
func (s *Store) Dispatch(a Action) (prev, next State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev = s.state
	s.state = Reduce(prev, a)
	return prev, s.state
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
