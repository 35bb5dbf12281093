package resilience

import (
	"context"
	"fmt"
	"time"
)

// TimeoutConfig defines timeout values for the request timeout hierarchy
//
// Timeout Hierarchy (from outermost to innermost):
//
//	HTTP Handler (55s)
//	  ↓
//	PagoPA proxy call (30s) / recaptcha siteverify (10s)
//
// Every upstream call must finish before the handler deadline so that a slow
// proxy surfaces as a problem response instead of a dropped connection.
type TimeoutConfig struct {
	HTTPHandler time.Duration // Overall request timeout (default: 55s)
	PagoPAProxy time.Duration // Single call to the PagoPA proxy (default: 30s)
	Recaptcha   time.Duration // Single siteverify call (default: 10s)
	HealthProbe time.Duration // Upstream ping from the info endpoint (default: 5s)
}

// DefaultTimeoutConfig returns production timeout values
func DefaultTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		HTTPHandler: 55 * time.Second,
		PagoPAProxy: 30 * time.Second,
		Recaptcha:   10 * time.Second,
		HealthProbe: 5 * time.Second,
	}
}

// TestTimeoutConfig returns shorter timeouts for testing
func TestTimeoutConfig() *TimeoutConfig {
	return &TimeoutConfig{
		HTTPHandler: 5 * time.Second,
		PagoPAProxy: 2 * time.Second,
		Recaptcha:   1 * time.Second,
		HealthProbe: 500 * time.Millisecond,
	}
}

// Validate checks that every upstream timeout fits inside the handler timeout
func (tc *TimeoutConfig) Validate() error {
	for name, d := range map[string]time.Duration{
		"pagoPA proxy": tc.PagoPAProxy,
		"recaptcha":    tc.Recaptcha,
		"health probe": tc.HealthProbe,
	} {
		if d <= 0 {
			return fmt.Errorf("%s timeout must be positive", name)
		}
		if d >= tc.HTTPHandler {
			return fmt.Errorf("%s timeout (%v) must be shorter than the handler timeout (%v)", name, d, tc.HTTPHandler)
		}
	}
	return nil
}

// HandlerContext creates a context with timeout for HTTP handlers
func (tc *TimeoutConfig) HandlerContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.HTTPHandler)
}

// ProxyContext creates a context for one PagoPA proxy call
func (tc *TimeoutConfig) ProxyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.PagoPAProxy)
}

// RecaptchaContext creates a context for one siteverify call
func (tc *TimeoutConfig) RecaptchaContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.Recaptcha)
}

// HealthProbeContext creates a context for the upstream ping
func (tc *TimeoutConfig) HealthProbeContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, tc.HealthProbe)
}
