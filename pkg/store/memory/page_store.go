package memory

import (
	"context"
	"sync"
	"time"

	"agentconsole/internal/agentform"
	"agentconsole/pkg/store"
)

type entry struct {
	snapshot  *agentform.Snapshot
	expiresAt time.Time
}

// PageStore in-process page store with idle expiry
type PageStore struct {
	mu    sync.RWMutex
	pages map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

var (
	_ store.PageStore = (*PageStore)(nil)
	_ store.Sweeper   = (*PageStore)(nil)
)

// NewPageStore creates a memory page store. Pages expire ttl after their last save.
func NewPageStore(ttl time.Duration) *PageStore {
	return &PageStore{
		pages: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *PageStore) Save(_ context.Context, snap *agentform.Snapshot) error {
	c := *snap
	c.Draft = snap.Draft.Clone()

	s.mu.Lock()
	s.pages[snap.ID] = entry{snapshot: &c, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *PageStore) Load(_ context.Context, id string) (*agentform.Snapshot, error) {
	s.mu.RLock()
	e, ok := s.pages[id]
	s.mu.RUnlock()
	if !ok || s.expired(e) {
		return nil, store.ErrPageNotFound
	}

	c := *e.snapshot
	c.Draft = e.snapshot.Draft.Clone()
	return &c, nil
}

func (s *PageStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.pages, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored pages, expired ones included until cleanup
func (s *PageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// Sweep removes expired pages and returns how many were removed
func (s *PageStore) Sweep(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.pages {
		if s.expired(e) {
			delete(s.pages, id)
			removed++
		}
	}
	return removed, nil
}

func (s *PageStore) expired(e entry) bool {
	return s.ttl > 0 && !s.now().Before(e.expiresAt)
}
