package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestGetUnknownUser(t *testing.T) {
	s := NewStore(5 * time.Minute)
	snap := s.Get(42, t0)
	assert.Equal(t, None, snap.View)
}

func TestStartThenGetActive(t *testing.T) {
	s := NewStore(5 * time.Minute)
	s.Start(42, CategorySupport, t0)

	snap := s.Get(42, t0.Add(4*time.Minute))
	assert.Equal(t, Active, snap.View)
	assert.Equal(t, CategorySupport, snap.Category)
	assert.Equal(t, t0, snap.StartedAt)
}

func TestExactTimeoutStillActive(t *testing.T) {
	s := NewStore(5 * time.Minute)
	s.Start(42, CategoryOther, t0)

	snap := s.Get(42, t0.Add(5*time.Minute))
	assert.Equal(t, Active, snap.View)
}

func TestExpiredReadClearsSession(t *testing.T) {
	s := NewStore(5 * time.Minute)
	s.Start(42, CategoryPartnership, t0)

	late := t0.Add(5*time.Minute + time.Second)
	snap := s.Get(42, late)
	assert.Equal(t, Expired, snap.View)
	assert.Equal(t, CategoryPartnership, snap.Category)

	// Expiry is observed once; afterwards the user simply has no session.
	snap = s.Get(42, late)
	assert.Equal(t, None, snap.View)
}

func TestStartOverwritesSession(t *testing.T) {
	s := NewStore(5 * time.Minute)
	s.Start(42, CategorySupport, t0)
	s.Start(42, CategoryOther, t0.Add(4*time.Minute))

	// The window restarts from the second Start.
	snap := s.Get(42, t0.Add(8*time.Minute))
	assert.Equal(t, Active, snap.View)
	assert.Equal(t, CategoryOther, snap.Category)
}

func TestClear(t *testing.T) {
	s := NewStore(5 * time.Minute)
	s.Start(42, CategorySupport, t0)
	s.Clear(42)
	assert.Equal(t, None, s.Get(42, t0).View)
}

func TestUsersAreIndependent(t *testing.T) {
	s := NewStore(5 * time.Minute)
	s.Start(1, CategorySupport, t0)
	s.Start(2, CategoryOther, t0.Add(-10*time.Minute))

	now := t0.Add(time.Minute)
	assert.Equal(t, Active, s.Get(1, now).View)
	assert.Equal(t, Expired, s.Get(2, now).View)
	assert.Equal(t, Active, s.Get(1, now).View)
}

func TestConcurrentExpiredReadsNeverActive(t *testing.T) {
	s := NewStore(5 * time.Minute)
	s.Start(42, CategorySupport, t0)
	late := t0.Add(5*time.Minute + time.Second)

	const readers = 32
	var wg sync.WaitGroup
	views := make([]View, readers)
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func(i int) {
			defer wg.Done()
			views[i] = s.Get(42, late).View
		}(i)
	}
	wg.Wait()

	expired := 0
	for i, v := range views {
		assert.NotEqual(t, Active, v, "reader %d observed Active past the deadline", i)
		if v == Expired {
			expired++
		}
	}
	assert.GreaterOrEqual(t, expired, 1, "at least one reader observes the expiry transition")
	assert.Equal(t, None, s.Get(42, late).View)
}

func TestParseCategory(t *testing.T) {
	for _, cat := range Categories() {
		got, ok := ParseCategory(string(cat))
		assert.True(t, ok)
		assert.Equal(t, cat, got)
	}
	_, ok := ParseCategory("billing")
	assert.False(t, ok)
}
