package service

import (
	"context"

	"kudos/pkg/platform/tx"
)

// StoreTx bounds the store mutations of a registration so the token record,
// the seed allowlist and the optional creator mint commit or roll back as a
// unit. The PostgreSQL deployment supplies a runner that shares one database
// transaction across the stores.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// journalTx is the default boundary for the in-memory stores. Mutations
// apply in place; each store pushes its own undo into the journal, and a
// failed callback unwinds them in reverse order so no partial registration
// survives.
type journalTx struct{}

func (journalTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	journal := &tx.Journal{}
	if err := fn(tx.WithJournal(ctx, journal)); err != nil {
		journal.Rollback()
		return err
	}
	return nil
}
