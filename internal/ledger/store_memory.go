package ledger

import (
	"context"
	"sync"

	id "kudos/pkg/domain"
	"kudos/pkg/platform/tx"
)

type balanceKey struct {
	holder  id.Address
	tokenID id.TokenID
}

// InMemoryStore keeps balances in a map. Used by tests and single-node dev
// deployments.
type InMemoryStore struct {
	mu       sync.RWMutex
	balances map[balanceKey]uint64
}

// NewInMemoryStore constructs an empty balance store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{balances: make(map[balanceKey]uint64)}
}

func (s *InMemoryStore) BalanceOf(_ context.Context, holder id.Address, tokenID id.TokenID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[balanceKey{holder: holder, tokenID: tokenID}], nil
}

func (s *InMemoryStore) Add(ctx context.Context, holder id.Address, tokenID id.TokenID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := balanceKey{holder: holder, tokenID: tokenID}
	s.balances[key] += amount

	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.balances[key] -= amount
	})
	return nil
}
