package models

import (
	"time"

	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domain-errors"
)

// Kudos is the immutable record of one registered token class.
//
// Invariants:
//   - Creator is the recovered signer of the registration message and never
//     changes; it alone authorizes allowlist edits for this token.
//   - All other fields are written exactly once, at registration.
//   - DeprecatedNftImageLink and DeprecatedCustomAttributes are never written
//     by current logic; they stay empty for compatibility with records
//     produced by earlier deployments.
type Kudos struct {
	TokenID             id.TokenID `json:"token_id"`
	Headline            string     `json:"headline"`
	Description         string     `json:"description"`
	StartDateTimestamp  int64      `json:"start_date_timestamp"`
	EndDateTimestamp    int64      `json:"end_date_timestamp"`
	Links               []string   `json:"links"`
	CommunityUniqID     string     `json:"community_uniq_id"`
	Creator             id.Address `json:"creator"`
	RegisteredTimestamp int64      `json:"registered_timestamp"`

	DeprecatedNftImageLink     string `json:"nft_image_link,omitempty"`
	DeprecatedCustomAttributes string `json:"custom_attributes,omitempty"`
}

// NewKudos builds an unregistered record from validated registration input.
// The token id and registered timestamp are assigned by the registry at
// creation time.
func NewKudos(headline, description string, start, end int64, links []string, communityUniqID string, creator id.Address, registeredAt time.Time) (*Kudos, error) {
	if headline == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "headline cannot be empty")
	}
	if communityUniqID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "community uniq id cannot be empty")
	}
	if creator.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "creator cannot be the null identity")
	}
	return &Kudos{
		Headline:            headline,
		Description:         description,
		StartDateTimestamp:  start,
		EndDateTimestamp:    end,
		Links:               append([]string(nil), links...),
		CommunityUniqID:     communityUniqID,
		Creator:             creator,
		RegisteredTimestamp: registeredAt.Unix(),
	}, nil
}
