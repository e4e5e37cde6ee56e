// Package ledger holds multi-token unit balances and enforces
// non-transferability: the only balance transition the transfer hook lets
// through is a mint (null origin, non-null destination).
package ledger

import (
	"context"

	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domain-errors"
)

// BalanceStore persists (holder, tokenId) -> unit count.
type BalanceStore interface {
	BalanceOf(ctx context.Context, holder id.Address, tokenID id.TokenID) (uint64, error)
	// Add increases the holder's balance for the token. Callers go through
	// Ledger.Mint; the store performs no authorization of its own.
	Add(ctx context.Context, holder id.Address, tokenID id.TokenID, amount uint64) error
}

// Ledger wraps a BalanceStore behind the transfer hook.
type Ledger struct {
	balances BalanceStore
}

// New constructs a ledger over the given balance store.
func New(balances BalanceStore) *Ledger {
	return &Ledger{balances: balances}
}

// Mint credits amount units of tokenID to the destination. It routes through
// the transfer hook with the null identity as origin, the only transition the
// hook admits.
func (l *Ledger) Mint(ctx context.Context, to id.Address, tokenID id.TokenID, amount uint64) error {
	if err := beforeTokenTransfer(id.ZeroAddress, to); err != nil {
		return err
	}
	if err := l.balances.Add(ctx, to, tokenID, amount); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "credit balance")
	}
	return nil
}

// Transfer exists so the non-transferability contract is enforced in one
// place rather than by the absence of an endpoint. Every call fails: the hook
// rejects any move whose origin is not the null identity.
func (l *Ledger) Transfer(_ context.Context, from, to id.Address, _ id.TokenID, _ uint64) error {
	return beforeTokenTransfer(from, to)
}

// BalanceOf reports the holder's unit count for the token.
func (l *Ledger) BalanceOf(ctx context.Context, holder id.Address, tokenID id.TokenID) (uint64, error) {
	n, err := l.balances.BalanceOf(ctx, holder, tokenID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "read balance")
	}
	return n, nil
}

// beforeTokenTransfer is the hook every balance transition passes through.
// Mints only: origin must be null, destination must not be. Burns (null
// destination) and holder-to-holder moves are rejected unconditionally,
// regardless of who asks.
func beforeTokenTransfer(from, to id.Address) error {
	if !from.IsZero() {
		return dErrors.New(dErrors.CodeNonMintTransfer, "tokens are non-transferable")
	}
	if to.IsZero() {
		return dErrors.New(dErrors.CodeNonMintTransfer, "cannot mint to the null identity")
	}
	return nil
}
