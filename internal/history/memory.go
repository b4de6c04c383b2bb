// Package history keeps an ephemeral, capacity-bounded record of recent
// scans. Nothing is persisted; the history lives and dies with the
// process.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/pricescan/internal/model"
)

// DefaultCapacity bounds the history when no capacity is configured.
const DefaultCapacity = 50

// Entry is one remembered scan.
type Entry struct {
	ID        string                `json:"id"`
	ScannedAt time.Time             `json:"scanned_at"`
	Product   string                `json:"product"`
	Brand     string                `json:"brand,omitempty"`
	UnitPrice model.UnitPriceResult `json:"unit_price"`
}

// Store is a thread-safe in-memory scan history, newest first.
type Store struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

// NewStore creates a history bounded to capacity entries.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity}
}

// Add records a scan, assigning an ID and timestamp when missing. The
// oldest entry is dropped once the capacity is reached.
func (s *Store) Add(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ScannedAt.IsZero() {
		e.ScannedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]Entry{e}, s.entries...)
	if len(s.entries) > s.capacity {
		s.entries = s.entries[:s.capacity]
	}
	return e
}

// List returns a copy of the history, newest first.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of remembered scans.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear empties the history.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
