package session

import (
	"sync"
	"time"
)

// State tracks how far a single client has progressed through the two-step
// documentation workflow: a resolve call followed by a docs call. A fresh
// resolve always re-arms the docs step.
type State struct {
	mu            sync.Mutex
	resolveCalled bool
	docsCalled    bool
	lastResolve   time.Time
}

// Snapshot is a copy of the workflow flags taken under the state lock.
type Snapshot struct {
	ResolveCalled bool
	DocsCalled    bool
	LastResolve   time.Time
}

// MarkResolve records a resolve call. The docs flag is cleared so the
// snapshot reflects the most recent resolve, not an earlier round trip.
func (s *State) MarkResolve(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolveCalled = true
	s.docsCalled = false
	s.lastResolve = now
}

// MarkDocs records a docs call. The flag is set before the backend is
// consulted and is never rolled back on an empty result.
func (s *State) MarkDocs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docsCalled = true
}

// ResolveCalled reports whether a resolve call has been made since the
// state was created or last reset.
func (s *State) ResolveCalled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveCalled
}

// Reset clears all workflow flags, forcing the client back to step one.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolveCalled = false
	s.docsCalled = false
	s.lastResolve = time.Time{}
}

// Snapshot returns a consistent copy of the flags.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ResolveCalled: s.resolveCalled,
		DocsCalled:    s.docsCalled,
		LastResolve:   s.lastResolve,
	}
}

// ExpirePending resets the state if it has a resolve call with no
// follow-up docs call and the resolve is older than expiry. It reports
// whether a reset happened. Satisfied sessions are never touched.
func (s *State) ExpirePending(now time.Time, expiry time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resolveCalled || s.docsCalled {
		return false
	}
	if now.Sub(s.lastResolve) <= expiry {
		return false
	}

	s.resolveCalled = false
	s.docsCalled = false
	s.lastResolve = time.Time{}
	return true
}
