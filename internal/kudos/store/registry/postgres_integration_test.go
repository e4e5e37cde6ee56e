//go:build integration

package registry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"kudos/internal/kudos/models"
	"kudos/internal/kudos/store/registry"
	"kudos/internal/platform/postgres"
	id "kudos/pkg/domain"
	"kudos/pkg/platform/sentinel"
	"kudos/pkg/testutil/containers"
)

type PostgresRegistrySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *registry.Postgres
}

func TestPostgresRegistrySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRegistrySuite))
}

func (s *PostgresRegistrySuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.EnsureSchema(context.Background(), s.postgres.DB, 1))
	s.store = registry.NewPostgres(s.postgres.DB)
}

func (s *PostgresRegistrySuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "kudos", "token_counter"))
	// Reseed the single-row counter the truncate just emptied.
	s.Require().NoError(postgres.EnsureSchema(ctx, s.postgres.DB, 1))
}

func newTestRecord(creator id.Address) *models.Kudos {
	return &models.Kudos{
		Headline:            "Hackathon Winner",
		Description:         "Won the spring hackathon",
		StartDateTimestamp:  1700000000,
		EndDateTimestamp:    1700086400,
		Links:               []string{"https://example.org/results", "ipfs://bafyexample"},
		CommunityUniqID:     "community-1",
		Creator:             creator,
		RegisteredTimestamp: 1700100000,
	}
}

func (s *PostgresRegistrySuite) TestCreateAndGetRoundTrip() {
	ctx := context.Background()
	creator := id.MustParseAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	tokenID, err := s.store.Create(ctx, newTestRecord(creator))
	s.Require().NoError(err)
	s.Equal(id.TokenID(1), tokenID)

	got, err := s.store.Get(ctx, tokenID)
	s.Require().NoError(err)
	s.Equal(tokenID, got.TokenID)
	s.Equal("Hackathon Winner", got.Headline)
	s.Equal("Won the spring hackathon", got.Description)
	s.Equal(int64(1700000000), got.StartDateTimestamp)
	s.Equal(int64(1700086400), got.EndDateTimestamp)
	s.Equal([]string{"https://example.org/results", "ipfs://bafyexample"}, got.Links)
	s.Equal("community-1", got.CommunityUniqID)
	s.Equal(creator, got.Creator)
	s.Equal(int64(1700100000), got.RegisteredTimestamp)
	s.Empty(got.DeprecatedNftImageLink)
	s.Empty(got.DeprecatedCustomAttributes)
}

func (s *PostgresRegistrySuite) TestIdsStrictlyIncrease() {
	ctx := context.Background()
	creator := id.MustParseAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	for want := id.TokenID(1); want <= 3; want++ {
		got, err := s.store.Create(ctx, newTestRecord(creator))
		s.Require().NoError(err)
		s.Equal(want, got)
	}

	latest, err := s.store.LatestUnusedTokenID(ctx)
	s.Require().NoError(err)
	s.Equal(id.TokenID(4), latest)
}

// TestConcurrentCreatesAllocateUniqueIds verifies the counter transaction
// serializes id allocation across concurrent registrations.
func (s *PostgresRegistrySuite) TestConcurrentCreatesAllocateUniqueIds() {
	ctx := context.Background()
	creator := id.MustParseAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	const goroutines = 20

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = map[id.TokenID]bool{}
	)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokenID, err := s.store.Create(ctx, newTestRecord(creator))
			if err != nil {
				return
			}
			mu.Lock()
			ids[tokenID] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.Len(ids, goroutines, "every registration should get its own id")

	latest, err := s.store.LatestUnusedTokenID(ctx)
	s.Require().NoError(err)
	s.Equal(id.TokenID(goroutines+1), latest)
}

func (s *PostgresRegistrySuite) TestGetUnknownToken() {
	_, err := s.store.Get(context.Background(), 404)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresRegistrySuite) TestEmptyLinksRoundTrip() {
	ctx := context.Background()
	record := newTestRecord(id.MustParseAddress("0xcccccccccccccccccccccccccccccccccccccccc"))
	record.Links = nil

	tokenID, err := s.store.Create(ctx, record)
	s.Require().NoError(err)

	got, err := s.store.Get(ctx, tokenID)
	s.Require().NoError(err)
	s.Nil(got.Links)
}
