package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "kudos/pkg/domain"
	"kudos/pkg/platform/tx"
)

// PostgresStore persists balances in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed balance store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) BalanceOf(ctx context.Context, holder id.Address, tokenID id.TokenID) (uint64, error) {
	var amount uint64
	err := s.db.QueryRowContext(ctx,
		`SELECT amount FROM balances WHERE holder = $1 AND token_id = $2`,
		holder.String(), uint64(tokenID),
	).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return amount, nil
}

// Add credits the balance via an upsert. The write joins a shared context
// transaction when one is present (creator mints during registration).
func (s *PostgresStore) Add(ctx context.Context, holder id.Address, tokenID id.TokenID, amount uint64) error {
	var run execer = s.db
	if shared, ok := tx.From(ctx); ok {
		run = shared
	}
	_, err := run.ExecContext(ctx,
		`INSERT INTO balances (holder, token_id, amount)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (holder, token_id) DO UPDATE SET amount = balances.amount + EXCLUDED.amount`,
		holder.String(), uint64(tokenID), amount,
	)
	if err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
