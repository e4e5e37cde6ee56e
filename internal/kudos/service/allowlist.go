package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"kudos/internal/typeddata"
	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domain-errors"
	"kudos/pkg/platform/sentinel"
)

// AddAllowlistedAddressesBySig appends addresses to a token's allowlist
// after verifying the signature recovers to the token's original creator.
//
// The signed payload binds only the token id, not the addresses being added:
// a relayer holding a valid (creator, tokenId) signature can append an
// address set of its own choosing, and can replay the same signature for
// further appends. That weak binding is part of the wire format this service
// is compatible with; tightening it would break every signature already
// issued. The appended addresses are stored verbatim: no content validation,
// no deduplication against existing entries.
func (s *Service) AddAllowlistedAddressesBySig(ctx context.Context, tokenID id.TokenID, addrs []id.Address, sig id.Signature) error {
	ctx, span := s.tracer.Start(ctx, "kudos.AddAllowlistedAddressesBySig")
	defer span.End()
	span.SetAttributes(attribute.Int64("kudos.token_id", int64(tokenID)))

	if err := s.guard(ctx); err != nil {
		return s.reject(err)
	}

	digest := s.hasher.AddAllowlistDigest(tokenID)
	signer := typeddata.Recover(digest, sig)

	record, err := s.registry.Get(ctx, tokenID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return s.reject(dErrors.Newf(dErrors.CodeNotFound, "token %d is not registered", tokenID))
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "load token record")
	}
	if signer != record.Creator {
		return s.reject(dErrors.New(dErrors.CodeUnauthorized, "signature does not recover to the token creator"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.allowlists.Append(ctx, tokenID, addrs); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "append allowlist entries")
	}

	if s.metrics != nil {
		s.metrics.AllowlistAppends.Inc()
	}
	s.logger.InfoContext(ctx, "allowlist extended",
		"token_id", tokenID,
		"added", len(addrs),
	)
	return nil
}
