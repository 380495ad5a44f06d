package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	t.Parallel()

	m := New()
	m.Invite(InviteCreated)
	m.Invite(InviteCreated)
	m.Invite(InviteDeduplicated)
	m.PartialFailure("owner_membership")
	m.Reconciliation()
	m.HousekeepingDeleted("expired_invites", 3)
	m.HousekeepingDeleted("expired_invites", 0)

	require.Equal(t, 2.0, testutil.ToFloat64(m.invites.WithLabelValues(InviteCreated)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.invites.WithLabelValues(InviteDeduplicated)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.partialFailures.WithLabelValues("owner_membership")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.reconciliations))
	require.Equal(t, 3.0, testutil.ToFloat64(m.housekeeping.WithLabelValues("expired_invites")))
}

func TestNilMetrics(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.Invite(InviteCreated)
	m.PartialFailure("x")
	m.Reconciliation()
	m.HousekeepingDeleted("x", 1)

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}

func TestMiddlewareAndHandler(t *testing.T) {
	t.Parallel()

	m := New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/invite/{token}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	h := m.Middleware(mux)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/invite/abc", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.True(t, strings.Contains(body, "tenantry_http_request_duration_seconds_count"))
	require.True(t, strings.Contains(body, `code="404"`))
}
