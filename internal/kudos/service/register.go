package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"kudos/internal/events"
	"kudos/internal/kudos/models"
	"kudos/internal/typeddata"
	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domain-errors"
	"kudos/pkg/requestcontext"
)

// RegisterRequest carries an owner-relayed registration: the claimed creator,
// the metadata exactly as the creator signed it, the initial contributor
// set, and the creator's signature.
type RegisterRequest struct {
	Creator        id.Address
	Message        typeddata.RegisterMessage
	Contributors   []id.Address
	MintForCreator bool
	Signature      id.Signature
}

// RegisterBySig validates the creator's signature over the registration
// message, checks the community exists, then atomically creates the token
// record, seeds its allowlist, optionally mints one unit to the creator, and
// emits the RegisteredKudos event.
//
// The digest is computed over the submitted metadata verbatim; whatever the
// creator signed is what gets stored. Duplicate-metadata submissions are not
// rejected here: replay prevention is the relaying layer's concern.
func (s *Service) RegisterBySig(ctx context.Context, req RegisterRequest) (*models.Kudos, error) {
	ctx, span := s.tracer.Start(ctx, "kudos.RegisterBySig")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveRegister(time.Now())
	}

	if err := s.guard(ctx); err != nil {
		return nil, s.reject(err)
	}
	if req.Creator.IsZero() {
		return nil, s.reject(dErrors.New(dErrors.CodeInvalidSignature, "creator cannot be the null identity"))
	}

	digest := s.hasher.RegisterDigest(req.Message)
	signer := typeddata.Recover(digest, req.Signature)
	if signer != req.Creator {
		return nil, s.reject(dErrors.New(dErrors.CodeInvalidSignature, "signature does not recover to the creator"))
	}

	exists, err := s.community.DoesCommunityExist(ctx, req.Message.CommunityUniqID)
	if err != nil {
		return nil, s.reject(dErrors.Wrap(err, dErrors.CodeInternal, "query community registry"))
	}
	if !exists {
		return nil, s.reject(dErrors.Newf(dErrors.CodeUnknownCommunity, "community %q does not exist", req.Message.CommunityUniqID))
	}

	record, err := models.NewKudos(
		req.Message.Headline,
		req.Message.Description,
		req.Message.StartDateTimestamp,
		req.Message.EndDateTimestamp,
		req.Message.Links,
		req.Message.CommunityUniqID,
		signer,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, s.reject(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The record insert, the seed allowlist and the creator mint commit as a
	// unit: a failure in any step rolls the earlier ones back, so no token id
	// is ever observable without its allowlist.
	var tokenID id.TokenID
	err = s.storeTx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		tokenID, err = s.registry.Create(txCtx, record)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "create token record")
		}
		record.TokenID = tokenID

		if err := s.allowlists.Create(txCtx, tokenID, req.Contributors); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "create allowlist")
		}

		if req.MintForCreator {
			if err := s.ledger.Mint(txCtx, signer, tokenID, 1); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "mint to creator")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("kudos.token_id", int64(tokenID)))

	s.publishRegistered(ctx, signer, tokenID)

	if s.metrics != nil {
		s.metrics.Registrations.Inc()
	}
	s.logger.InfoContext(ctx, "kudos registered",
		"token_id", tokenID,
		"creator", signer.String(),
		"community", req.Message.CommunityUniqID,
		"contributors", len(req.Contributors),
		"minted_for_creator", req.MintForCreator,
	)
	return record, nil
}

// publishRegistered emits the registration event. Delivery is best-effort:
// the stores have already committed, and failing the call now would leave
// the relayer retrying a registration that actually succeeded.
func (s *Service) publishRegistered(ctx context.Context, creator id.Address, tokenID id.TokenID) {
	if s.publisher == nil {
		return
	}
	event := events.RegisteredKudos{
		Creator:   creator,
		TokenID:   tokenID,
		RequestID: requestcontext.RequestID(ctx),
		Timestamp: requestcontext.Now(ctx),
	}
	if err := s.publisher.PublishRegistered(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish registration event",
			"token_id", tokenID,
			"error", err,
		)
	}
}
