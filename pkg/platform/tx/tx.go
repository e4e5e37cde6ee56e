// Package tx carries the transactional boundary of a multi-store mutation
// through context. SQL-backed stores pick up the shared *sql.Tx and skip
// their own begin/commit; in-memory stores register an undo in the journal
// so a failed sequence can be unwound.
package tx

import (
	"context"
	"database/sql"
)

type (
	txKey      struct{}
	journalKey struct{}
)

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// Journal collects compensation callbacks for stores that mutate in place
// instead of inside a database transaction. Each store pushes the inverse of
// a mutation right after applying it; Rollback unwinds them newest-first.
//
// A journal is single-goroutine: the coordinator that created it runs the
// whole mutation sequence and the rollback on one goroutine.
type Journal struct {
	undos []func()
}

// OnRollback pushes a compensation callback.
func (j *Journal) OnRollback(fn func()) {
	j.undos = append(j.undos, fn)
}

// Rollback runs the registered callbacks in reverse order and empties the
// journal.
func (j *Journal) Rollback() {
	for i := len(j.undos) - 1; i >= 0; i-- {
		j.undos[i]()
	}
	j.undos = nil
}

// WithJournal stores an undo journal in context for downstream store usage.
func WithJournal(ctx context.Context, j *Journal) context.Context {
	if j == nil {
		return ctx
	}
	return context.WithValue(ctx, journalKey{}, j)
}

// OnRollback registers a compensation callback with the journal in ctx, if
// any. Stores call it unconditionally after a successful mutation; outside a
// journaled sequence it is a no-op.
func OnRollback(ctx context.Context, fn func()) {
	if j, ok := ctx.Value(journalKey{}).(*Journal); ok {
		j.OnRollback(fn)
	}
}
