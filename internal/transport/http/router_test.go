package httptransport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"kudos/internal/admin"
	"kudos/internal/community"
	"kudos/internal/kudos/handler"
	"kudos/internal/kudos/service"
	"kudos/internal/kudos/store/allowlist"
	"kudos/internal/kudos/store/registry"
	"kudos/internal/ledger"
	"kudos/internal/platform/middleware"
	"kudos/internal/typeddata"
	id "kudos/pkg/domain"
)

type stubHealth struct {
	err error
}

func (s stubHealth) Health(context.Context) error { return s.err }

func newRouter(t *testing.T, health map[string]HealthChecker) http.Handler {
	t.Helper()

	gate := admin.NewGate()
	require.NoError(t, gate.Activate(admin.Config{
		Owner: id.MustParseAddress("0x0000000000000000000000000000000000000001"),
	}))

	svc := service.New(
		typeddata.NewHasher(1, id.MustParseAddress("0x00112233445566778899aabbccddeeff00112233")),
		registry.NewInMemory(1),
		allowlist.NewInMemory(),
		ledger.New(ledger.NewInMemoryStore()),
		&community.MockClient{},
		gate,
	)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	auth := middleware.RequireCaller("router-test-key", logger)

	return NewRouter(Deps{
		Kudos:  handler.New(svc, gate, auth, logger),
		Logger: logger,
		Health: health,
	})
}

func TestHealthEndpoints(t *testing.T) {
	router := newRouter(t, map[string]HealthChecker{
		"postgres": stubHealth{},
		"redis":    stubHealth{},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessReportsFailingDependency(t *testing.T) {
	router := newRouter(t, map[string]HealthChecker{
		"postgres": stubHealth{},
		"redis":    stubHealth{err: errors.New("connection refused")},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "connection refused")
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRouteIs404(t *testing.T) {
	router := newRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDPropagatesToResponse(t *testing.T) {
	router := newRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}
