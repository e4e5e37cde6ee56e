package events

import (
	"context"
	"sync"
)

// MemoryPublisher buffers events in memory. Used by tests and deployments
// without a Kafka cluster.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []RegisteredKudos
}

// NewMemoryPublisher constructs an empty in-memory publisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) PublishRegistered(_ context.Context, event RegisteredKudos) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a snapshot of everything published so far.
func (p *MemoryPublisher) Events() []RegisteredKudos {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]RegisteredKudos(nil), p.events...)
}

func (p *MemoryPublisher) Close() {}
