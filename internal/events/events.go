// Package events emits the persisted-log signals off-chain indexers consume.
// RegisteredKudos is the only one: creator-to-token mappings are not
// queryable from the gateway, so indexers reconstruct them from this stream.
package events

import (
	"context"
	"time"

	id "kudos/pkg/domain"
)

// RegisteredKudos records one successful token registration.
type RegisteredKudos struct {
	Creator   id.Address `json:"creator"`
	TokenID   id.TokenID `json:"token_id"`
	RequestID string     `json:"request_id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// Publisher delivers registration events to the log.
type Publisher interface {
	PublishRegistered(ctx context.Context, event RegisteredKudos) error
	Close()
}
