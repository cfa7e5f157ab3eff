package session

import "sync"

// DefaultKey is the session key used by single-client transports, where
// only one logical client can exist for the process lifetime.
const DefaultKey = "stdio"

// Store maps a derived client key to its workflow state. Entries are
// created lazily on first use and removed when the owning connection
// goes away.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*State
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*State),
	}
}

// GetOrCreate returns the state for key, creating a zero-valued one if
// none exists. It never fails.
func (s *Store) GetOrCreate(key string) *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[key]
	if !ok {
		state = &State{}
		s.sessions[key] = state
	}
	return state
}

// Delete removes the state for key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

// Len returns the number of active sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ForEach calls fn for every active session. The callback runs outside
// the store lock so it may mutate the state it receives.
func (s *Store) ForEach(fn func(key string, state *State)) {
	s.mu.Lock()
	snapshot := make(map[string]*State, len(s.sessions))
	for k, v := range s.sessions {
		snapshot[k] = v
	}
	s.mu.Unlock()

	for k, v := range snapshot {
		fn(k, v)
	}
}
