package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the kudos module: counts for the three
// signed operations and durations for their critical paths.
type Metrics struct {
	Registrations    prometheus.Counter
	Claims           prometheus.Counter
	AllowlistAppends prometheus.Counter
	RejectedOps      *prometheus.CounterVec

	RegisterDuration prometheus.Histogram
	ClaimDuration    prometheus.Histogram
}

// New creates a Metrics instance with all kudos module metrics registered.
func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kudos_registrations_total",
			Help: "Total number of tokens registered",
		}),
		Claims: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kudos_claims_total",
			Help: "Total number of successful claims",
		}),
		AllowlistAppends: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kudos_allowlist_appends_total",
			Help: "Total number of allowlist edit operations",
		}),
		RejectedOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kudos_rejected_operations_total",
			Help: "Signed operations rejected, by error code",
		}, []string{"code"}),
		RegisterDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kudos_register_duration_seconds",
			Help:    "Duration of registerBySig operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ClaimDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kudos_claim_duration_seconds",
			Help:    "Duration of claimBySig operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveRegister records the duration of a registerBySig operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}

// ObserveClaim records the duration of a claimBySig operation.
func (m *Metrics) ObserveClaim(start time.Time) {
	m.ClaimDuration.Observe(time.Since(start).Seconds())
}

// IncrementRejected records a rejected signed operation by error code.
func (m *Metrics) IncrementRejected(code string) {
	m.RejectedOps.WithLabelValues(code).Inc()
}
