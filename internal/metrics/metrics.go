// Package metrics records outcomes of calls made to the remote product and order stores.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"admin_console/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	MetricGatewayRequestsTotal   = "admin_console_gateway_requests_total"
	MetricGatewayRequestDuration = "admin_console_gateway_request_duration_seconds"
)

// GatewayMetrics is safe for concurrent use.
type GatewayMetrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewGatewayMetrics() *GatewayMetrics {
	registry := prometheus.NewRegistry()
	m := &GatewayMetrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricGatewayRequestsTotal,
			Help: "Remote store calls by service, operation and outcome.",
		}, []string{"service", "operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricGatewayRequestDuration,
			Help:    "Remote store call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "operation"}),
	}
	registry.MustRegister(m.requests, m.duration)
	return m
}

// ObserveCall implements clients.Observer.
func (m *GatewayMetrics) ObserveCall(service, operation string, d time.Duration, err error) {
	m.requests.WithLabelValues(service, operation, Outcome(err)).Inc()
	m.duration.WithLabelValues(service, operation).Observe(d.Seconds())
}

func (m *GatewayMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Outcome classifies err into a low-cardinality label value.
func Outcome(err error) string {
	var (
		ve *domain.ValidationError
		te *domain.TransportError
		ue *domain.UploadError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &ve):
		return "rejected"
	case errors.As(err, &ue):
		return "upload_failed"
	case errors.As(err, &te):
		if te.Unavailable() {
			return "unavailable"
		}
		return "failed"
	}
	return "error"
}
