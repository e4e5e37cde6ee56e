package handler

import (
	"kudos/internal/kudos/service"
	"kudos/internal/typeddata"
	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domain-errors"
)

// registerRequest is the wire form of an owner-relayed registration. Field
// values feed the digest exactly as submitted, so the handler does no
// normalization beyond parsing addresses and the signature.
type registerRequest struct {
	Creator            string   `json:"creator"`
	Headline           string   `json:"headline"`
	Description        string   `json:"description"`
	StartDateTimestamp int64    `json:"start_date_timestamp"`
	EndDateTimestamp   int64    `json:"end_date_timestamp"`
	Links              []string `json:"links"`
	CommunityUniqID    string   `json:"community_uniq_id"`
	Contributors       []string `json:"contributors"`
	MintForCreator     bool     `json:"mint_for_creator"`
	Signature          string   `json:"signature"`
}

func (r registerRequest) toServiceRequest() (service.RegisterRequest, error) {
	creator, err := id.ParseAddress(r.Creator)
	if err != nil {
		return service.RegisterRequest{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid creator address")
	}
	sig, err := id.ParseSignature(r.Signature)
	if err != nil {
		return service.RegisterRequest{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid signature")
	}
	contributors, err := parseAddresses(r.Contributors)
	if err != nil {
		return service.RegisterRequest{}, err
	}
	return service.RegisterRequest{
		Creator: creator,
		Message: typeddata.RegisterMessage{
			Headline:           r.Headline,
			Description:        r.Description,
			StartDateTimestamp: r.StartDateTimestamp,
			EndDateTimestamp:   r.EndDateTimestamp,
			Links:              r.Links,
			CommunityUniqID:    r.CommunityUniqID,
		},
		Contributors:   contributors,
		MintForCreator: r.MintForCreator,
		Signature:      sig,
	}, nil
}

type claimRequest struct {
	Claimee   string `json:"claimee"`
	Signature string `json:"signature"`
}

type addAllowlistRequest struct {
	Addresses []string `json:"addresses"`
	Signature string   `json:"signature"`
}

func parseAddresses(raw []string) ([]id.Address, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	addrs := make([]id.Address, 0, len(raw))
	for _, s := range raw {
		addr, err := id.ParseAddress(s)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid address in list")
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}
