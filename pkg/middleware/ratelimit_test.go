package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerClientIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	defer rl.Shutdown()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/info", nil)
		req.RemoteAddr = remoteAddr + ":40000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("203.0.113.1"))
	assert.Equal(t, http.StatusOK, call("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("203.0.113.1"))

	// another client keeps its own budget
	assert.Equal(t, http.StatusOK, call("203.0.113.2"))
}

func TestRateLimiter_IgnoresForwardedForFromClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	defer rl.Shutdown()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/info", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			allowed++
		}
	}

	assert.Equal(t, 1, allowed)
	assert.Len(t, rl.limiters, 1)
}

func TestRateLimiter_TrustedProxyHop(t *testing.T) {
	rl := NewRateLimiter(0.001, 1).TrustProxyHops(1)
	defer rl.Shutdown()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// the load balancer appends the real peer after whatever the client sent
	call := func(spoofed, peer string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/info", nil)
		req.RemoteAddr = "10.1.0.5:40000"
		req.Header.Set("X-Forwarded-For", spoofed+", "+peer)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("1.1.1.1", "203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, call("2.2.2.2", "203.0.113.7"))
	assert.Equal(t, http.StatusOK, call("1.1.1.1", "203.0.113.8"))
}

func TestRateLimiter_RejectionIsProblemJSON(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	defer rl.Shutdown()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"status":429`)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Shutdown()

	rl.getLimiter("198.51.100.7")
	assert.Equal(t, 0, rl.cleanup(time.Now()))
	assert.Equal(t, 1, rl.cleanup(time.Now().Add(rl.cleanupInterval+time.Second)))
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		want       string
	}{
		{name: "first forwarded address", xff: "203.0.113.9, 10.0.0.1", remoteAddr: "10.0.0.2:1234", want: "203.0.113.9"},
		{name: "real ip header", realIP: "203.0.113.10", remoteAddr: "10.0.0.2:1234", want: "203.0.113.10"},
		{name: "remote addr with port", remoteAddr: "192.0.2.1:5555", want: "192.0.2.1"},
		{name: "remote addr without port", remoteAddr: "192.0.2.1", want: "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}

func TestTrustedClientIP(t *testing.T) {
	tests := []struct {
		name        string
		xff         []string
		trustedHops int
		want        string
	}{
		{name: "no trusted hops uses peer", xff: []string{"203.0.113.9"}, trustedHops: 0, want: "10.0.0.2"},
		{name: "rightmost hop", xff: []string{"1.1.1.1, 203.0.113.9"}, trustedHops: 1, want: "203.0.113.9"},
		{name: "two hops", xff: []string{"1.1.1.1, 203.0.113.9, 10.0.0.3"}, trustedHops: 2, want: "203.0.113.9"},
		{name: "repeated headers", xff: []string{"1.1.1.1", "203.0.113.9"}, trustedHops: 1, want: "203.0.113.9"},
		{name: "header shorter than hops", xff: []string{"203.0.113.9"}, trustedHops: 2, want: "10.0.0.2"},
		{name: "missing header", trustedHops: 1, want: "10.0.0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "10.0.0.2:1234"
			for _, v := range tt.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			assert.Equal(t, tt.want, TrustedClientIP(req, tt.trustedHops))
		})
	}
}
