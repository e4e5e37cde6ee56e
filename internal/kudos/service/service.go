// Package service implements the signed kudos operations: registration,
// claiming and allowlist edits. Every entry point follows the same shape:
// owner/pause gating, digest derivation, signer recovery, signer binding,
// domain preconditions, then mutations. All checks short-circuit before any
// state changes.
package service

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"kudos/internal/community"
	"kudos/internal/events"
	kudosmetrics "kudos/internal/kudos/metrics"
	"kudos/internal/kudos/models"
	"kudos/internal/typeddata"
	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domain-errors"
	"kudos/pkg/requestcontext"
)

// TokenRegistry owns token records and the id counter. Id allocation
// happens inside Create; the counter itself is store-internal.
type TokenRegistry interface {
	Create(ctx context.Context, record *models.Kudos) (id.TokenID, error)
	Get(ctx context.Context, tokenID id.TokenID) (*models.Kudos, error)
}

// AllowlistStore owns the per-token contributor sequences.
type AllowlistStore interface {
	Create(ctx context.Context, tokenID id.TokenID, addrs []id.Address) error
	Append(ctx context.Context, tokenID id.TokenID, addrs []id.Address) error
	List(ctx context.Context, tokenID id.TokenID) ([]id.Address, error)
}

// Ledger is the balance collaborator. Minting is the only mutation this
// service ever requests; the ledger's own hook rejects everything else.
type Ledger interface {
	Mint(ctx context.Context, to id.Address, tokenID id.TokenID, amount uint64) error
	BalanceOf(ctx context.Context, holder id.Address, tokenID id.TokenID) (uint64, error)
}

// Gate supplies the ownership and pause checks.
type Gate interface {
	IsOwner(caller id.Address) bool
	Paused() bool
}

// Service orchestrates the three signed operations and the public reads.
//
// A single mutex serializes every check-then-mutate sequence. The original
// execution substrate ran one call to completion at a time; on a
// multi-threaded server the "require balance==0 then mint" and "read counter
// then increment" sequences are read-modify-write races without it.
type Service struct {
	hasher     *typeddata.Hasher
	registry   TokenRegistry
	allowlists AllowlistStore
	ledger     Ledger
	community  community.Client
	gate       Gate
	storeTx    StoreTx
	publisher  events.Publisher
	logger     *slog.Logger
	metrics    *kudosmetrics.Metrics
	tracer     trace.Tracer

	mu sync.Mutex
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithPublisher attaches a registration event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithStoreTx overrides the registration transaction boundary. The default
// journal-based boundary suits the in-memory stores; PostgreSQL deployments
// pass a runner sharing one database transaction.
func WithStoreTx(tx StoreTx) Option {
	return func(s *Service) { s.storeTx = tx }
}

// WithMetrics attaches module metrics.
func WithMetrics(m *kudosmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs the kudos service.
func New(
	hasher *typeddata.Hasher,
	registry TokenRegistry,
	allowlists AllowlistStore,
	ledger Ledger,
	communityClient community.Client,
	gate Gate,
	opts ...Option,
) *Service {
	s := &Service{
		hasher:     hasher,
		registry:   registry,
		allowlists: allowlists,
		ledger:     ledger,
		community:  communityClient,
		gate:       gate,
		storeTx:    journalTx{},
		logger:     slog.Default(),
		tracer:     otel.Tracer("kudos/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// guard enforces the shared preconditions of every signed operation: the
// caller must be the owner and the gate must not be paused. Reads skip it.
func (s *Service) guard(ctx context.Context) error {
	caller := requestcontext.Caller(ctx)
	if !s.gate.IsOwner(caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the owner")
	}
	if s.gate.Paused() {
		return dErrors.New(dErrors.CodePaused, "signed operations are paused")
	}
	return nil
}

// reject records a failed signed operation and returns the error unchanged.
func (s *Service) reject(err error) error {
	if s.metrics != nil {
		s.metrics.IncrementRejected(string(dErrors.CodeOf(err)))
	}
	return err
}
