package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/pagopa/pay-portal-service/pkg/encoding"
)

// Check is a named dependency probe
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// HealthStatus represents the health status of the service
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// HealthChecker manages health checks for the service
type HealthChecker struct {
	checks  []Check
	timeout time.Duration
}

// NewHealthChecker creates a new HealthChecker
func NewHealthChecker(timeout time.Duration, checks ...Check) *HealthChecker {
	return &HealthChecker{
		checks:  checks,
		timeout: timeout,
	}
}

// Check performs health checks and returns the status
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	checks := make(map[string]string, len(h.checks))
	overallStatus := "healthy"

	for _, c := range h.checks {
		checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
		err := c.Probe(checkCtx)
		cancel()

		if err != nil {
			checks[c.Name] = "unhealthy: " + err.Error()
			overallStatus = "unhealthy"
		} else {
			checks[c.Name] = "healthy"
		}
	}

	return HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    checks,
	}
}

// Problems runs every check and returns one "Name|message" line per failure,
// in check order. Joined errors are reported one line each.
func (h *HealthChecker) Problems(ctx context.Context) []string {
	var problems []string

	for _, c := range h.checks {
		checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
		err := c.Probe(checkCtx)
		cancel()

		if err == nil {
			continue
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				problems = append(problems, c.Name+"|"+e.Error())
			}
			continue
		}
		problems = append(problems, c.Name+"|"+err.Error())
	}

	return problems
}

// HealthHandler returns an HTTP handler for health checks
func (h *HealthChecker) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := h.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if status.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = encoding.WriteJSON(w, status)
	}
}
