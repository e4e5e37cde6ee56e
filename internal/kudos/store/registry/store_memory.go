// Package registry owns the kudos token records and the monotonically
// increasing token id counter. All writes go through the registration
// service; nothing else mutates these tables.
package registry

import (
	"context"
	"sync"

	"kudos/internal/kudos/models"
	id "kudos/pkg/domain"
	"kudos/pkg/platform/sentinel"
	"kudos/pkg/platform/tx"
)

// InMemory keeps token records and the id counter in maps. Used by tests and
// single-node dev deployments.
type InMemory struct {
	mu     sync.RWMutex
	kudos  map[id.TokenID]*models.Kudos
	nextID id.TokenID
}

// NewInMemory constructs a registry seeded with the first token id to hand
// out. A seed of 0 falls back to 1; ids are never reused or reclaimed.
func NewInMemory(seed id.TokenID) *InMemory {
	if seed == 0 {
		seed = 1
	}
	return &InMemory{
		kudos:  make(map[id.TokenID]*models.Kudos),
		nextID: seed,
	}
}

// Create stores the record under the current unused token id, advances the
// counter and returns the allocated id. Inside a journaled registration the
// record and the counter advance are discarded if a later step fails.
func (s *InMemory) Create(ctx context.Context, record *models.Kudos) (id.TokenID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokenID := s.nextID
	stored := *record
	stored.TokenID = tokenID
	stored.Links = append([]string(nil), record.Links...)
	s.kudos[tokenID] = &stored
	s.nextID++

	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.kudos, tokenID)
		if s.nextID == tokenID+1 {
			s.nextID = tokenID
		}
	})
	return tokenID, nil
}

// Get returns the record for a token id, or sentinel.ErrNotFound.
func (s *InMemory) Get(_ context.Context, tokenID id.TokenID) (*models.Kudos, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.kudos[tokenID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *record
	copied.Links = append([]string(nil), record.Links...)
	return &copied, nil
}

// LatestUnusedTokenID returns the id the next registration will consume.
func (s *InMemory) LatestUnusedTokenID(_ context.Context) (id.TokenID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID, nil
}
