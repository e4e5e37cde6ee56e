// Package admin implements the ownership and pause gate consumed by every
// signed kudos operation.
package admin

import (
	"sync"

	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domain-errors"
)

// Config carries the activation parameters for the gate.
type Config struct {
	Owner id.Address
}

// Gate tracks the owner identity and the paused flag. It is constructed
// inert and must be activated exactly once before use; Activate stands in
// for the deferred-initialization step of the original deployment model.
//
// Reads (IsOwner, Paused) work while paused. Owner-only mutators also work
// while paused, so the owner can always unpause.
type Gate struct {
	mu        sync.RWMutex
	activated bool
	owner     id.Address
	paused    bool
}

// NewGate returns an inert gate. Every check fails until Activate runs.
func NewGate() *Gate {
	return &Gate{}
}

// Activate initializes the gate. It may run at most once; a second call
// fails with an invariant violation rather than silently re-seating the
// owner.
func (g *Gate) Activate(cfg Config) error {
	if cfg.Owner.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "owner cannot be the null identity")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.activated {
		return dErrors.New(dErrors.CodeInvariantViolation, "gate already activated")
	}
	g.activated = true
	g.owner = cfg.Owner
	return nil
}

// IsOwner reports whether caller is the current owner. Always false before
// activation and for the null identity.
func (g *Gate) IsOwner(caller id.Address) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.activated && !caller.IsZero() && caller == g.owner
}

// Paused reports the pause flag.
func (g *Gate) Paused() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.paused
}

// Pause blocks the signed operations. Owner only.
func (g *Gate) Pause(caller id.Address) error {
	return g.setPaused(caller, true)
}

// Unpause re-enables the signed operations. Owner only.
func (g *Gate) Unpause(caller id.Address) error {
	return g.setPaused(caller, false)
}

func (g *Gate) setPaused(caller id.Address, paused bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.activated || caller.IsZero() || caller != g.owner {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the owner")
	}
	g.paused = paused
	return nil
}

// TransferOwnership moves the gate to a new owner. Owner only; the null
// identity can never become owner.
func (g *Gate) TransferOwnership(caller, newOwner id.Address) error {
	if newOwner.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "new owner cannot be the null identity")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.activated || caller.IsZero() || caller != g.owner {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the owner")
	}
	g.owner = newOwner
	return nil
}
