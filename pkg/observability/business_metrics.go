package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagoPA proxy call metrics
	proxyRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagopa_proxy_requests_total",
		Help: "Total calls to the PagoPA proxy",
	}, []string{
		"operation",   // activate_payment, get_activation_status, get_payment_info
		"status_code", // upstream HTTP status, or "transport_error"
	})

	proxyRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "pagopa_proxy_request_duration_seconds",
		Help: "Latency of PagoPA proxy calls",
		// The nodo can take tens of seconds on activation
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{
		"operation",
	})

	// Normalized error responses returned to callers
	errorResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_error_responses_total",
		Help: "Error responses returned by the payment operations",
	}, []string{
		"operation",
		"kind", // UNAUTHORIZED, VALIDATION_ERROR, INTERNAL_ERROR, ...
	})

	// Upstream fault codes seen on 500 responses
	proxyFaultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagopa_proxy_faults_total",
		Help: "Fault details decoded from PagoPA proxy 500 responses",
	}, []string{
		"detail", // detail_v2 code, or "legacy"
	})

	recaptchaVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recaptcha_verifications_total",
		Help: "Recaptcha verification outcomes",
	}, []string{
		"result", // success, rejected, error
	})

	probeRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "probe_requests_total",
		Help: "Requests short-circuited because they carry the probe RPT-ID",
	}, []string{
		"operation",
	})
)

// RecordProxyRequest records one upstream call
func RecordProxyRequest(operation, statusCode string, duration float64) {
	proxyRequestsTotal.WithLabelValues(operation, statusCode).Inc()
	proxyRequestDuration.WithLabelValues(operation).Observe(duration)
}

// RecordErrorResponse records a normalized error returned to a caller
func RecordErrorResponse(operation, kind string) {
	errorResponsesTotal.WithLabelValues(operation, kind).Inc()
}

// RecordProxyFault records a decoded 500 fault. label must come from a bounded set.
func RecordProxyFault(label string) {
	proxyFaultsTotal.WithLabelValues(label).Inc()
}

// RecordRecaptchaVerification records a recaptcha outcome
func RecordRecaptchaVerification(result string) {
	recaptchaVerificationsTotal.WithLabelValues(result).Inc()
}

// RecordProbeRequest records a probe short-circuit
func RecordProbeRequest(operation string) {
	probeRequestsTotal.WithLabelValues(operation).Inc()
}
