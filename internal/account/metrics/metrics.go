// Package metrics holds the Prometheus collectors of the account service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tenantry"

// Invite outcomes.
const (
	InviteCreated        = "created"
	InviteDeduplicated   = "deduplicated"
	InviteDelivered      = "delivered"
	InviteDeliveryFailed = "delivery_failed"
	InviteAccepted       = "accepted"
	InviteAcceptConflict = "accept_conflict"
	InviteRevoked        = "revoked"
)

type Metrics struct {
	reg prometheus.Gatherer

	invites         *prometheus.CounterVec
	partialFailures *prometheus.CounterVec
	reconciliations prometheus.Counter
	housekeeping    *prometheus.CounterVec
	requests        *prometheus.HistogramVec
}

// New registers every collector on a fresh registry that also carries the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		reg: reg,
		invites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invites_total",
			Help:      "Invite ledger outcomes.",
		}, []string{"outcome"}),
		partialFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partial_failures_total",
			Help:      "Multi-step writes that committed only partially, by failed step.",
		}, []string{"step"}),
		reconciliations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "account_reconciliations_total",
			Help:      "Duplicate OAuth accounts folded into an existing account.",
		}),
		housekeeping: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "housekeeping_deleted_total",
			Help:      "Rows removed by housekeeping.",
		}, []string{"kind"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
	reg.MustRegister(m.invites, m.partialFailures, m.reconciliations, m.housekeeping, m.requests)
	return m
}

func (m *Metrics) Invite(outcome string) {
	if m == nil {
		return
	}
	m.invites.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PartialFailure(step string) {
	if m == nil {
		return
	}
	m.partialFailures.WithLabelValues(step).Inc()
}

func (m *Metrics) Reconciliation() {
	if m == nil {
		return
	}
	m.reconciliations.Inc()
}

func (m *Metrics) HousekeepingDeleted(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.housekeeping.WithLabelValues(kind).Add(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Middleware observes request latency labelled with the matched route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, strconv.Itoa(sw.status)).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
