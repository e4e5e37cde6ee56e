package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"kudos/internal/typeddata"
	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domain-errors"
	"kudos/pkg/platform/sentinel"
)

// ClaimBySig validates the claimee's signature over the token id, checks
// allowlist membership and zero prior balance, and mints one unit.
//
// The allowlist is not mutated on claim: the claimee stays listed, and a
// re-claim is blocked by the balance check alone.
func (s *Service) ClaimBySig(ctx context.Context, tokenID id.TokenID, claimee id.Address, sig id.Signature) error {
	ctx, span := s.tracer.Start(ctx, "kudos.ClaimBySig")
	defer span.End()
	span.SetAttributes(attribute.Int64("kudos.token_id", int64(tokenID)))
	if s.metrics != nil {
		defer s.metrics.ObserveClaim(time.Now())
	}

	if err := s.guard(ctx); err != nil {
		return s.reject(err)
	}
	if claimee.IsZero() {
		// The verifier returns the null identity for garbage signatures; a
		// null claimee must not ride that into a match.
		return s.reject(dErrors.New(dErrors.CodeInvalidSignature, "claimee cannot be the null identity"))
	}

	digest := s.hasher.ClaimDigest(tokenID)
	signer := typeddata.Recover(digest, sig)
	if signer != claimee {
		return s.reject(dErrors.New(dErrors.CodeInvalidSignature, "signature does not recover to the claimee"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.allowlists.List(ctx, tokenID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return s.reject(dErrors.New(dErrors.CodeNotAllowlisted, "claimee is not allowlisted"))
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "load allowlist")
	}
	if !containsAddress(list, claimee) {
		return s.reject(dErrors.New(dErrors.CodeNotAllowlisted, "claimee is not allowlisted"))
	}

	balance, err := s.ledger.BalanceOf(ctx, claimee, tokenID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "read claimee balance")
	}
	if balance != 0 {
		return s.reject(dErrors.New(dErrors.CodeAlreadyClaimed, "claimee already holds this token"))
	}

	if err := s.ledger.Mint(ctx, claimee, tokenID, 1); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "mint to claimee")
	}

	if s.metrics != nil {
		s.metrics.Claims.Inc()
	}
	s.logger.InfoContext(ctx, "kudos claimed",
		"token_id", tokenID,
		"claimee", claimee.String(),
	)
	return nil
}

// containsAddress scans linearly; duplicates in the list grant nothing
// beyond membership.
func containsAddress(list []id.Address, target id.Address) bool {
	for _, addr := range list {
		if addr == target {
			return true
		}
	}
	return false
}
