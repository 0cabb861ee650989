// Package metrics holds the application's Prometheus instruments.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hublocal"

// Metrics is a set of instruments registered against one registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	authAttempts     *prometheus.CounterVec
	tokenRejections  *prometheus.CounterVec
	ownershipDenials *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		authAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Registration and login attempts by outcome.",
		}, []string{"operation", "outcome"}),
		tokenRejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_rejections_total",
			Help:      "Bearer tokens rejected by reason.",
		}, []string{"reason"}),
		ownershipDenials: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ownership_denials_total",
			Help:      "Requests denied because the caller does not own the resource.",
		}, []string{"resource"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) AuthAttempt(operation, outcome string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) TokenRejected(reason string) {
	if m == nil {
		return
	}
	m.tokenRejections.WithLabelValues(reason).Inc()
}

// OwnershipDenied satisfies service.DenyRecorder.
func (m *Metrics) OwnershipDenied(resource string) {
	if m == nil {
		return
	}
	m.ownershipDenials.WithLabelValues(resource).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
