package allowlist

import (
	"context"
	"database/sql"
	"fmt"

	id "kudos/pkg/domain"
	"kudos/pkg/platform/sentinel"
	"kudos/pkg/platform/tx"
)

// Postgres persists allowlist entries, one row per (token, position). The
// position column preserves submission order and keeps duplicates distinct.
// Writes join a shared transaction when the context carries one, so the seed
// list commits together with the token record at registration.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed allowlist store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, tokenID id.TokenID, addrs []id.Address) error {
	return s.write(ctx, func(sqlTx *sql.Tx) error {
		return createIn(ctx, sqlTx, tokenID, addrs)
	})
}

func (s *Postgres) Append(ctx context.Context, tokenID id.TokenID, addrs []id.Address) error {
	return s.write(ctx, func(sqlTx *sql.Tx) error {
		return appendIn(ctx, sqlTx, tokenID, addrs)
	})
}

// write runs fn against the shared context transaction when present, or an
// owned one otherwise.
func (s *Postgres) write(ctx context.Context, fn func(sqlTx *sql.Tx) error) error {
	if shared, ok := tx.From(ctx); ok {
		return fn(shared)
	}

	own, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin allowlist tx: %w", err)
	}
	defer own.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(own); err != nil {
		return err
	}
	return own.Commit()
}

func createIn(ctx context.Context, sqlTx *sql.Tx, tokenID id.TokenID, addrs []id.Address) error {
	var exists bool
	err := sqlTx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM allowlists WHERE token_id = $1)`,
		uint64(tokenID),
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check allowlist existence: %w", err)
	}
	if exists {
		return sentinel.ErrConflict
	}

	// The marker row at position -1 records that the list exists even when
	// the initial contributor set is empty.
	if _, err := sqlTx.ExecContext(ctx,
		`INSERT INTO allowlists (token_id, position, address) VALUES ($1, -1, '')`,
		uint64(tokenID),
	); err != nil {
		return fmt.Errorf("insert allowlist marker: %w", err)
	}
	return insertEntries(ctx, sqlTx, tokenID, 0, addrs)
}

func appendIn(ctx context.Context, sqlTx *sql.Tx, tokenID id.TokenID, addrs []id.Address) error {
	var next sql.NullInt64
	err := sqlTx.QueryRowContext(ctx,
		`SELECT MAX(position) + 1 FROM allowlists WHERE token_id = $1`,
		uint64(tokenID),
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("read allowlist tail: %w", err)
	}
	if !next.Valid {
		return sentinel.ErrNotFound
	}
	return insertEntries(ctx, sqlTx, tokenID, next.Int64, addrs)
}

func (s *Postgres) List(ctx context.Context, tokenID id.TokenID) ([]id.Address, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT address FROM allowlists WHERE token_id = $1 AND position >= 0 ORDER BY position`,
		uint64(tokenID),
	)
	if err != nil {
		return nil, fmt.Errorf("list allowlist entries: %w", err)
	}
	defer rows.Close()

	var (
		list  []id.Address
		found bool
	)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan allowlist entry: %w", err)
		}
		addr, err := id.ParseAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt allowlist entry for token %d: %w", tokenID, err)
		}
		list = append(list, addr)
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allowlist entries: %w", err)
	}
	if !found {
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM allowlists WHERE token_id = $1)`,
			uint64(tokenID),
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("check allowlist existence: %w", err)
		}
		if !exists {
			return nil, sentinel.ErrNotFound
		}
	}
	return list, nil
}

func insertEntries(ctx context.Context, sqlTx *sql.Tx, tokenID id.TokenID, from int64, addrs []id.Address) error {
	for i, addr := range addrs {
		if _, err := sqlTx.ExecContext(ctx,
			`INSERT INTO allowlists (token_id, position, address) VALUES ($1, $2, $3)`,
			uint64(tokenID), from+int64(i), addr.String(),
		); err != nil {
			return fmt.Errorf("insert allowlist entry: %w", err)
		}
	}
	return nil
}
