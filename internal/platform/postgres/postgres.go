// Package postgres opens the shared database pool and bootstraps the
// schema the stores expect.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver

	id "kudos/pkg/domain"
	"kudos/pkg/platform/tx"
)

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}

// defaultTxTimeout caps a store transaction that arrives without a deadline.
const defaultTxTimeout = 5 * time.Second

// StoreTx runs a multi-store mutation inside one database transaction. The
// callback receives a context carrying the transaction; the stores detect it
// and execute against it instead of the pool, so every mutation in the
// callback commits or rolls back as a unit.
type StoreTx struct {
	db      *sql.DB
	timeout time.Duration
}

// NewStoreTx constructs a transaction runner over the shared pool.
func NewStoreTx(db *sql.DB) *StoreTx {
	return &StoreTx{db: db}
}

func (t *StoreTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sqlTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin store tx: %w", err)
	}
	defer sqlTx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit store tx: %w", err)
	}
	return nil
}

// EnsureSchema creates the gateway's tables if missing and seeds the token
// counter. The seed only applies on first boot; an existing counter is
// never rewound.
func EnsureSchema(ctx context.Context, db *sql.DB, seed id.TokenID) error {
	if seed == 0 {
		seed = 1
	}
	statements := []string{
		`CREATE TABLE IF NOT EXISTS kudos (
			token_id          BIGINT PRIMARY KEY,
			headline          TEXT NOT NULL,
			description       TEXT NOT NULL,
			start_date_ts     BIGINT NOT NULL,
			end_date_ts       BIGINT NOT NULL,
			links             TEXT NOT NULL,
			community_uniq_id TEXT NOT NULL,
			creator           TEXT NOT NULL,
			registered_ts     BIGINT NOT NULL,
			nft_image_link    TEXT NOT NULL DEFAULT '',
			custom_attributes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS token_counter (
			latest_unused_token_id BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS allowlists (
			token_id BIGINT NOT NULL,
			position BIGINT NOT NULL,
			address  TEXT NOT NULL,
			PRIMARY KEY (token_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS balances (
			holder   TEXT NOT NULL,
			token_id BIGINT NOT NULL,
			amount   BIGINT NOT NULL DEFAULT 0,
			PRIMARY KEY (holder, token_id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO token_counter (latest_unused_token_id)
		 SELECT $1 WHERE NOT EXISTS (SELECT 1 FROM token_counter)`,
		uint64(seed),
	)
	if err != nil {
		return fmt.Errorf("seed token counter: %w", err)
	}
	return nil
}
