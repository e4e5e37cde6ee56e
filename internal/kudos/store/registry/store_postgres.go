package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"kudos/internal/kudos/models"
	id "kudos/pkg/domain"
	"kudos/pkg/platform/sentinel"
	"kudos/pkg/platform/tx"
)

// Postgres persists token records and the id counter. The counter lives in a
// single-row table and is advanced inside the same transaction that inserts
// the record, so ids stay unique and strictly increasing even with multiple
// gateway replicas sharing the database.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registry. The counter row must
// have been seeded by the schema bootstrap.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Create allocates the next id and inserts the record. When the context
// carries a shared transaction the mutations join it and commit with the
// rest of the registration; otherwise Create opens its own.
func (s *Postgres) Create(ctx context.Context, record *models.Kudos) (id.TokenID, error) {
	if shared, ok := tx.From(ctx); ok {
		return createIn(ctx, shared, record)
	}

	own, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin registration tx: %w", err)
	}
	defer own.Rollback() //nolint:errcheck // no-op after commit

	tokenID, err := createIn(ctx, own, record)
	if err != nil {
		return 0, err
	}
	if err := own.Commit(); err != nil {
		return 0, fmt.Errorf("commit registration tx: %w", err)
	}
	return tokenID, nil
}

func createIn(ctx context.Context, sqlTx *sql.Tx, record *models.Kudos) (id.TokenID, error) {
	var tokenID uint64
	err := sqlTx.QueryRowContext(ctx,
		`UPDATE token_counter SET latest_unused_token_id = latest_unused_token_id + 1
		 RETURNING latest_unused_token_id - 1`,
	).Scan(&tokenID)
	if err != nil {
		return 0, fmt.Errorf("advance token counter: %w", err)
	}

	_, err = sqlTx.ExecContext(ctx,
		`INSERT INTO kudos (token_id, headline, description, start_date_ts, end_date_ts,
		                    links, community_uniq_id, creator, registered_ts,
		                    nft_image_link, custom_attributes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		tokenID, record.Headline, record.Description,
		record.StartDateTimestamp, record.EndDateTimestamp,
		encodeLinks(record.Links), record.CommunityUniqID,
		record.Creator.String(), record.RegisteredTimestamp,
		record.DeprecatedNftImageLink, record.DeprecatedCustomAttributes,
	)
	if err != nil {
		return 0, fmt.Errorf("insert kudos record: %w", err)
	}
	return id.TokenID(tokenID), nil
}

func (s *Postgres) Get(ctx context.Context, tokenID id.TokenID) (*models.Kudos, error) {
	var (
		record  models.Kudos
		links   string
		creator string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT token_id, headline, description, start_date_ts, end_date_ts,
		        links, community_uniq_id, creator, registered_ts,
		        nft_image_link, custom_attributes
		 FROM kudos WHERE token_id = $1`,
		uint64(tokenID),
	).Scan(
		&record.TokenID, &record.Headline, &record.Description,
		&record.StartDateTimestamp, &record.EndDateTimestamp,
		&links, &record.CommunityUniqID, &creator, &record.RegisteredTimestamp,
		&record.DeprecatedNftImageLink, &record.DeprecatedCustomAttributes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read kudos record: %w", err)
	}

	record.Links = decodeLinks(links)
	record.Creator, err = id.ParseAddress(creator)
	if err != nil {
		return nil, fmt.Errorf("corrupt creator column for token %d: %w", tokenID, err)
	}
	return &record, nil
}

func (s *Postgres) LatestUnusedTokenID(ctx context.Context) (id.TokenID, error) {
	var latest uint64
	err := s.db.QueryRowContext(ctx,
		`SELECT latest_unused_token_id FROM token_counter`,
	).Scan(&latest)
	if err != nil {
		return 0, fmt.Errorf("read token counter: %w", err)
	}
	return id.TokenID(latest), nil
}

// Links are stored as a JSON array so order and arbitrary content survive
// the round trip exactly.
func encodeLinks(links []string) string {
	if len(links) == 0 {
		return "[]"
	}
	raw, _ := json.Marshal(links)
	return string(raw)
}

func decodeLinks(raw string) []string {
	var links []string
	if raw == "" || json.Unmarshal([]byte(raw), &links) != nil {
		return nil
	}
	if len(links) == 0 {
		return nil
	}
	return links
}
