// Package store keeps the latest normalized series of each dataset in memory.
package store

import (
	"sync/atomic"
	"time"

	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
	"github.com/jonboulle/clockwork"
)

// snapshot is an immutable stored series with its write time.
type snapshot struct {
	series   domain.Series
	storedAt time.Time
}

// Store holds one snapshot slot per known dataset. Slots are allocated up
// front, so the map itself is never written after New and readers need no lock.
type Store struct {
	clock clockwork.Clock
	slots map[domain.Dataset]*atomic.Pointer[snapshot]
}

// New creates an empty store. Pass nil to use the real clock.
func New(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	slots := make(map[domain.Dataset]*atomic.Pointer[snapshot], len(domain.Datasets))
	for _, d := range domain.Datasets {
		slots[d] = new(atomic.Pointer[snapshot])
	}
	return &Store{clock: clock, slots: slots}
}

// Set replaces the stored series for its dataset wholesale. The series is
// copied, so later changes by the caller are not visible to readers.
// Series for unknown datasets are ignored and report a zero time.
func (s *Store) Set(series domain.Series) time.Time {
	slot, ok := s.slots[series.Dataset]
	if !ok {
		return time.Time{}
	}
	now := s.clock.Now()
	slot.Store(&snapshot{series: series.Clone(), storedAt: now})
	return now
}

// Get returns the current series for d, or an empty series if nothing has
// been stored yet. The returned value must be treated as read-only.
func (s *Store) Get(d domain.Dataset) domain.Series {
	slot, ok := s.slots[d]
	if !ok {
		return domain.EmptySeries(d)
	}
	snap := slot.Load()
	if snap == nil {
		return domain.EmptySeries(d)
	}
	return snap.series
}

// Summary describes one dataset slot.
type Summary struct {
	Dataset  domain.Dataset `json:"dataset"`
	Records  int            `json:"records"`
	StoredAt *time.Time     `json:"stored_at"`
}

// Summaries reports every dataset in display order.
func (s *Store) Summaries() []Summary {
	out := make([]Summary, 0, len(domain.Datasets))
	for _, d := range domain.Datasets {
		sum := Summary{Dataset: d}
		if snap := s.slots[d].Load(); snap != nil {
			at := snap.storedAt
			sum.Records = snap.series.Len()
			sum.StoredAt = &at
		}
		out = append(out, sum)
	}
	return out
}
