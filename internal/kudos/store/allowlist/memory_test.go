package allowlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	id "kudos/pkg/domain"
	"kudos/pkg/platform/sentinel"
)

var (
	contributorA = id.MustParseAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	contributorB = id.MustParseAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	contributorC = id.MustParseAddress("0xcccccccccccccccccccccccccccccccccccccccc")
)

type AllowlistSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *AllowlistSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestAllowlistSuite(t *testing.T) {
	suite.Run(t, new(AllowlistSuite))
}

func (s *AllowlistSuite) TestCreateAndList() {
	s.Require().NoError(s.store.Create(s.ctx, 1, []id.Address{contributorA, contributorB}))

	list, err := s.store.List(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal([]id.Address{contributorA, contributorB}, list)

	s.Run("rejects double create", func() {
		err := s.store.Create(s.ctx, 1, []id.Address{contributorC})
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("empty initial list is valid", func() {
		s.Require().NoError(s.store.Create(s.ctx, 2, nil))
		list, err := s.store.List(s.ctx, 2)
		s.Require().NoError(err)
		s.Empty(list)
	})

	s.Run("unknown token returns ErrNotFound", func() {
		_, err := s.store.List(s.ctx, 999)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *AllowlistSuite) TestAppendPreservesOrderAndDuplicates() {
	s.Require().NoError(s.store.Create(s.ctx, 1, []id.Address{contributorA}))

	s.Require().NoError(s.store.Append(s.ctx, 1, []id.Address{contributorB, contributorA}))
	s.Require().NoError(s.store.Append(s.ctx, 1, []id.Address{contributorA}))

	list, err := s.store.List(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal([]id.Address{contributorA, contributorB, contributorA, contributorA}, list)
}

func (s *AllowlistSuite) TestAppendUnknownToken() {
	err := s.store.Append(s.ctx, 42, []id.Address{contributorA})
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestListReturnsCopy guards against callers mutating the stored sequence
// through the returned slice.
func (s *AllowlistSuite) TestListReturnsCopy() {
	s.Require().NoError(s.store.Create(s.ctx, 1, []id.Address{contributorA}))

	list, err := s.store.List(s.ctx, 1)
	s.Require().NoError(err)
	list[0] = contributorC

	again, err := s.store.List(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(contributorA, again[0])
}
