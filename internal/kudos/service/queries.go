package service

import (
	"context"
	"errors"

	"kudos/internal/kudos/models"
	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domain-errors"
	"kudos/pkg/platform/sentinel"
)

// GetKudosMetadata returns the immutable record for a token id. Pure read;
// works while paused.
func (s *Service) GetKudosMetadata(ctx context.Context, tokenID id.TokenID) (*models.Kudos, error) {
	record, err := s.registry.Get(ctx, tokenID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "token %d is not registered", tokenID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load token record")
	}
	return record, nil
}

// GetAllowlistedContributors returns the full contributor sequence for a
// token id, in registration-then-append order, duplicates included. Pure
// read; works while paused.
func (s *Service) GetAllowlistedContributors(ctx context.Context, tokenID id.TokenID) ([]id.Address, error) {
	list, err := s.allowlists.List(ctx, tokenID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "token %d is not registered", tokenID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load allowlist")
	}
	return list, nil
}
