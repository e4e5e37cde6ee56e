package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domain-errors"
)

var (
	alice = id.MustParseAddress("0xa11cea11cea11cea11cea11cea11cea11cea11ce")
	bob   = id.MustParseAddress("0xb0bb0bb0bb0bb0bb0bb0bb0bb0bb0bb0bb0bb0bb")
)

type LedgerSuite struct {
	suite.Suite
	ledger *Ledger
	ctx    context.Context
}

func (s *LedgerSuite) SetupTest() {
	s.ledger = New(NewInMemoryStore())
	s.ctx = context.Background()
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) TestMintCreditsBalance() {
	s.Require().NoError(s.ledger.Mint(s.ctx, alice, 1, 1))

	n, err := s.ledger.BalanceOf(s.ctx, alice, 1)
	s.Require().NoError(err)
	s.Equal(uint64(1), n)

	s.Run("balances are per token id", func() {
		n, err := s.ledger.BalanceOf(s.ctx, alice, 2)
		s.Require().NoError(err)
		s.Equal(uint64(0), n)
	})

	s.Run("balances are per holder", func() {
		n, err := s.ledger.BalanceOf(s.ctx, bob, 1)
		s.Require().NoError(err)
		s.Equal(uint64(0), n)
	})
}

func (s *LedgerSuite) TestMintToNullIdentityRejected() {
	err := s.ledger.Mint(s.ctx, id.ZeroAddress, 1, 1)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNonMintTransfer))
}

// TestTransferHookRejectsNonMints covers the non-transferability contract:
// any move whose origin is a real holder fails, including burns.
func (s *LedgerSuite) TestTransferHookRejectsNonMints() {
	s.Require().NoError(s.ledger.Mint(s.ctx, alice, 1, 1))

	s.Run("holder to holder", func() {
		err := s.ledger.Transfer(s.ctx, alice, bob, 1, 1)
		s.True(dErrors.HasCode(err, dErrors.CodeNonMintTransfer))
	})

	s.Run("burn", func() {
		err := s.ledger.Transfer(s.ctx, alice, id.ZeroAddress, 1, 1)
		s.True(dErrors.HasCode(err, dErrors.CodeNonMintTransfer))
	})

	s.Run("balance untouched after rejections", func() {
		n, err := s.ledger.BalanceOf(s.ctx, alice, 1)
		s.Require().NoError(err)
		s.Equal(uint64(1), n)
	})
}
