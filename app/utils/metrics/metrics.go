// Package metrics provides Prometheus metrics for the identity facade.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "facade"

var (
	// RequestsTotal counts handled API operations by outcome kind.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of facade operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// IdPRequestDuration measures calls to the identity provider.
	IdPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "idp_request_duration_seconds",
			Help:      "Duration of identity provider calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"driver", "operation"},
	)

	// InvitationChecksTotal counts invite code validations by result.
	InvitationChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitation_checks_total",
			Help:      "Total number of invitation validations by result",
		},
		[]string{"result"},
	)
)

// RecordRequest records one API operation.
func RecordRequest(operation, outcome string) {
	RequestsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveIdPCall records the duration of an identity provider call started at start.
func ObserveIdPCall(driver, operation string, start time.Time) {
	IdPRequestDuration.WithLabelValues(driver, operation).Observe(time.Since(start).Seconds())
}

// RecordInvitationCheck records the result of an invitation validation.
func RecordInvitationCheck(result string) {
	InvitationChecksTotal.WithLabelValues(result).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
