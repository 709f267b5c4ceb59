package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arborview/arbor/pkg/document"
	"github.com/arborview/arbor/pkg/pipeline"
	"github.com/arborview/arbor/pkg/tree"
)

const (
	// DefaultMaxDocuments bounds the store when no limit is configured.
	DefaultMaxDocuments = 100

	// DefaultDocumentTTL is how long an untouched document is kept.
	DefaultDocumentTTL = time.Hour
)

// Entry is one stored document together with everything derived from it.
// Entries are immutable once stored: Replace swaps in a fresh Entry instead
// of mutating the old one, so a handler holding the previous entry keeps a
// consistent snapshot of text, tree, and graph.
type Entry struct {
	ID        string
	Text      []byte
	Doc       *document.Value
	Tree      *tree.Tree
	GraphJSON []byte
	Stats     pipeline.Stats
	CreatedAt time.Time
	UpdatedAt time.Time
}

// expired reports whether the entry has outlived ttl. A zero ttl means
// entries never expire.
func (e *Entry) expired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(e.UpdatedAt) > ttl
}

// DocumentStore holds uploaded documents in memory. The store is bounded:
// creating a document beyond the limit evicts the oldest one, and entries
// untouched for longer than the TTL are swept by the janitor.
type DocumentStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string // creation order, oldest first
	max     int
	ttl     time.Duration
}

// NewDocumentStore creates a store holding at most max documents, each kept
// for ttl after its last update. max <= 0 means DefaultMaxDocuments; ttl <= 0
// disables expiry.
func NewDocumentStore(max int, ttl time.Duration) *DocumentStore {
	if max <= 0 {
		max = DefaultMaxDocuments
	}
	return &DocumentStore{
		entries: make(map[string]*Entry),
		max:     max,
		ttl:     ttl,
	}
}

// Create stores e under a fresh ID and returns that ID. When the store is
// full the oldest document is evicted to make room.
func (s *DocumentStore) Create(e *Entry) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.entries) >= s.max && len(s.order) > 0 {
		delete(s.entries, s.order[0])
		s.order = s.order[1:]
	}

	now := time.Now()
	e.ID = uuid.NewString()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.entries[e.ID] = e
	s.order = append(s.order, e.ID)
	return e.ID
}

// Replace swaps the entry stored under id for e, keeping the original
// creation time. It reports false when no document with that ID exists.
// The swap happens under the write lock, so a reader sees the old version
// or the new one, never a mix.
func (s *DocumentStore) Replace(id string, e *Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.entries[id]
	if !ok {
		return false
	}
	e.ID = id
	e.CreatedAt = old.CreatedAt
	e.UpdatedAt = time.Now()
	s.entries[id] = e
	return true
}

// Get returns the entry stored under id. An expired entry counts as missing
// and is dropped on the spot.
func (s *DocumentStore) Get(id string) (*Entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if e.expired(s.ttl, time.Now()) {
		s.Delete(id)
		return nil, false
	}
	return e, true
}

// Delete removes the entry stored under id and reports whether it existed.
func (s *DocumentStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Newest returns the most recently created live entry, for the index page.
func (s *DocumentStore) Newest() (*Entry, bool) {
	now := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.order) - 1; i >= 0; i-- {
		if e, ok := s.entries[s.order[i]]; ok && !e.expired(s.ttl, now) {
			return e, true
		}
	}
	return nil, false
}

// Len returns the number of stored documents, expired ones included until
// the next sweep.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Cleanup removes expired entries and returns how many were dropped.
func (s *DocumentStore) Cleanup() int {
	if s.ttl <= 0 {
		return 0
	}

	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	kept := s.order[:0]
	for _, id := range s.order {
		e, ok := s.entries[id]
		if !ok {
			continue
		}
		if e.expired(s.ttl, now) {
			delete(s.entries, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return removed
}

// StartJanitor sweeps expired documents every interval until ctx is
// canceled. A store without a TTL needs no janitor, so this is a no-op.
func (s *DocumentStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}
