// Package allowlist owns the per-token contributor sequences. Lists are
// created at registration, grown only by append, never shrunk. Duplicates
// are allowed: the sequence has no set semantics and claiming does not
// remove entries.
package allowlist

import (
	"context"
	"sync"

	id "kudos/pkg/domain"
	"kudos/pkg/platform/sentinel"
	"kudos/pkg/platform/tx"
)

// InMemory keeps allowlists in a map. Used by tests and single-node dev
// deployments.
type InMemory struct {
	mu    sync.RWMutex
	lists map[id.TokenID][]id.Address
}

// NewInMemory constructs an empty allowlist store.
func NewInMemory() *InMemory {
	return &InMemory{lists: make(map[id.TokenID][]id.Address)}
}

// Create stores the initial contributor sequence for a token, order
// preserved. An empty initial list is valid; the token then only becomes
// claimable after an allowlist edit. Inside a journaled registration the
// list is dropped again if a later step fails.
func (s *InMemory) Create(ctx context.Context, tokenID id.TokenID, addrs []id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lists[tokenID]; ok {
		return sentinel.ErrConflict
	}
	s.lists[tokenID] = append([]id.Address(nil), addrs...)

	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.lists, tokenID)
	})
	return nil
}

// Append adds addresses to the end of an existing list, in submission order,
// without deduplication.
func (s *InMemory) Append(_ context.Context, tokenID id.TokenID, addrs []id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.lists[tokenID]
	if !ok {
		return sentinel.ErrNotFound
	}
	s.lists[tokenID] = append(existing, addrs...)
	return nil
}

// List returns the full contributor sequence for a token, or
// sentinel.ErrNotFound if the token was never registered.
func (s *InMemory) List(_ context.Context, tokenID id.TokenID) ([]id.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.lists[tokenID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return append([]id.Address(nil), list...), nil
}
