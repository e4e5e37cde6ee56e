//go:build integration

package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"kudos/internal/ledger"
	"kudos/internal/platform/postgres"
	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domain-errors"
	"kudos/pkg/testutil/containers"
)

type PostgresLedgerSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	ledger   *ledger.Ledger
}

func TestPostgresLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresLedgerSuite))
}

func (s *PostgresLedgerSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.EnsureSchema(context.Background(), s.postgres.DB, 1))
	s.ledger = ledger.New(ledger.NewPostgres(s.postgres.DB))
}

func (s *PostgresLedgerSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "balances"))
}

func (s *PostgresLedgerSuite) TestMintAccumulates() {
	ctx := context.Background()
	holder := id.MustParseAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	s.Require().NoError(s.ledger.Mint(ctx, holder, 1, 1))
	s.Require().NoError(s.ledger.Mint(ctx, holder, 1, 2))

	balance, err := s.ledger.BalanceOf(ctx, holder, 1)
	s.Require().NoError(err)
	s.Equal(uint64(3), balance)
}

func (s *PostgresLedgerSuite) TestUnknownBalanceIsZero() {
	balance, err := s.ledger.BalanceOf(context.Background(),
		id.MustParseAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"), 9)
	s.Require().NoError(err)
	s.Zero(balance)
}

func (s *PostgresLedgerSuite) TestBalancesIsolatedPerTokenAndHolder() {
	ctx := context.Background()
	holderA := id.MustParseAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	holderB := id.MustParseAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	s.Require().NoError(s.ledger.Mint(ctx, holderA, 1, 1))
	s.Require().NoError(s.ledger.Mint(ctx, holderA, 2, 1))
	s.Require().NoError(s.ledger.Mint(ctx, holderB, 1, 1))

	for _, tc := range []struct {
		holder id.Address
		token  id.TokenID
		want   uint64
	}{
		{holderA, 1, 1},
		{holderA, 2, 1},
		{holderB, 1, 1},
		{holderB, 2, 0},
	} {
		balance, err := s.ledger.BalanceOf(ctx, tc.holder, tc.token)
		s.Require().NoError(err)
		s.Equal(tc.want, balance)
	}
}

// TestConcurrentMintsSum verifies the upsert accumulates correctly under
// concurrent credits to the same row.
func (s *PostgresLedgerSuite) TestConcurrentMintsSum() {
	ctx := context.Background()
	holder := id.MustParseAddress("0xcccccccccccccccccccccccccccccccccccccccc")
	const goroutines = 25

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.ledger.Mint(ctx, holder, 7, 1)
		}()
	}
	wg.Wait()

	balance, err := s.ledger.BalanceOf(ctx, holder, 7)
	s.Require().NoError(err)
	s.Equal(uint64(goroutines), balance)
}

func (s *PostgresLedgerSuite) TestTransferStillRejected() {
	ctx := context.Background()
	from := id.MustParseAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	to := id.MustParseAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	s.Require().NoError(s.ledger.Mint(ctx, from, 1, 1))

	err := s.ledger.Transfer(ctx, from, to, 1, 1)
	s.True(dErrors.HasCode(err, dErrors.CodeNonMintTransfer))

	balance, err := s.ledger.BalanceOf(ctx, from, 1)
	s.Require().NoError(err)
	s.Equal(uint64(1), balance)
}
