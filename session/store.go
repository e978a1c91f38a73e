// Package session owns all per-user conversational state for the relay and
// its expiry rules. State is process-lifetime only; nothing is persisted.
package session

import (
	"sync"
	"time"
)

// View describes what the store knows about a user at read time.
type View int

const (
	// None means the user never selected a category, or the session was
	// cleared by a restart, a completed relay, or an earlier expired read.
	None View = iota
	// Active means a category was selected and the session has not timed out.
	Active
	// Expired means the session outlived the timeout. Observing this view
	// clears the session; subsequent reads settle on None.
	Expired
)

// Snapshot is the result of a point-in-time session read.
type Snapshot struct {
	View      View
	Category  Category
	StartedAt time.Time
}

type entry struct {
	category  Category
	startedAt time.Time
}

// Store maps user IDs to sessions. Entries are immutable once written; Start
// replaces the whole entry, so readers can never observe a half-updated
// session, and operations on different users never contend on a shared lock.
type Store struct {
	timeout  time.Duration
	sessions sync.Map // int64 -> *entry
}

// NewStore creates a Store whose sessions expire after the given timeout.
func NewStore(timeout time.Duration) *Store {
	return &Store{timeout: timeout}
}

// Start creates or overwrites the session for a user. The clock is supplied
// by the caller so the expiry window is testable.
func (s *Store) Start(userID int64, category Category, now time.Time) {
	s.sessions.Store(userID, &entry{category: category, startedAt: now})
}

// Get returns the current session view for a user. Reading an expired session
// removes it: the CompareAndDelete only drops the exact entry that was
// observed, so a concurrent Start is never lost and repeated reads after the
// deadline all yield None.
func (s *Store) Get(userID int64, now time.Time) Snapshot {
	v, ok := s.sessions.Load(userID)
	if !ok {
		return Snapshot{View: None}
	}
	e := v.(*entry)
	if now.Sub(e.startedAt) > s.timeout {
		s.sessions.CompareAndDelete(userID, v)
		return Snapshot{View: Expired, Category: e.category, StartedAt: e.startedAt}
	}
	return Snapshot{View: Active, Category: e.category, StartedAt: e.startedAt}
}

// Clear unconditionally removes the session for a user.
func (s *Store) Clear(userID int64) {
	s.sessions.Delete(userID)
}
