package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kudos/internal/kudos/models"
	id "kudos/pkg/domain"
	"kudos/pkg/platform/sentinel"
)

type RegistrySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *RegistrySuite) SetupTest() {
	s.store = NewInMemory(1)
	s.ctx = context.Background()
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) newRecord(headline string) *models.Kudos {
	record, err := models.NewKudos(
		headline, "a description", 1700000000, 1700086400,
		[]string{"https://example.org/a"}, "community-1",
		id.MustParseAddress("0xcccccccccccccccccccccccccccccccccccccccc"),
		time.Unix(1700090000, 0),
	)
	s.Require().NoError(err)
	return record
}

func (s *RegistrySuite) TestCreateAllocatesSequentialIDs() {
	first, err := s.store.Create(s.ctx, s.newRecord("first"))
	s.Require().NoError(err)
	s.Equal(id.TokenID(1), first)

	second, err := s.store.Create(s.ctx, s.newRecord("second"))
	s.Require().NoError(err)
	s.Equal(id.TokenID(2), second)

	next, err := s.store.LatestUnusedTokenID(s.ctx)
	s.Require().NoError(err)
	s.Equal(id.TokenID(3), next)
}

func (s *RegistrySuite) TestCreateHonorsSeed() {
	seeded := NewInMemory(100)
	tokenID, err := seeded.Create(s.ctx, s.newRecord("seeded"))
	s.Require().NoError(err)
	s.Equal(id.TokenID(100), tokenID)
}

func (s *RegistrySuite) TestGet() {
	s.Run("returns stored record", func() {
		tokenID, err := s.store.Create(s.ctx, s.newRecord("findable"))
		s.Require().NoError(err)

		found, err := s.store.Get(s.ctx, tokenID)
		s.Require().NoError(err)
		s.Equal("findable", found.Headline)
		s.Equal(tokenID, found.TokenID)
		s.Empty(found.DeprecatedNftImageLink)
		s.Empty(found.DeprecatedCustomAttributes)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.Get(s.ctx, 999)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestGetReturnsCopy guards record immutability: mutating what Get hands out
// must not leak back into the store.
func (s *RegistrySuite) TestGetReturnsCopy() {
	tokenID, err := s.store.Create(s.ctx, s.newRecord("immutable"))
	s.Require().NoError(err)

	found, err := s.store.Get(s.ctx, tokenID)
	s.Require().NoError(err)
	found.Headline = "mutated"
	found.Links[0] = "https://evil.example"

	again, err := s.store.Get(s.ctx, tokenID)
	s.Require().NoError(err)
	s.Equal("immutable", again.Headline)
	s.Equal("https://example.org/a", again.Links[0])
}
