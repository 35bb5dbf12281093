package recaptcha

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pagopa/pay-portal-service/internal/adapters/ports"
	"github.com/pagopa/pay-portal-service/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/recaptcha/api/siteverify", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "s3cret", r.PostForm.Get("secret"))
		assert.Equal(t, "token+with&chars", r.PostForm.Get("response"))

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestVerifier_Verify(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     bool
		wantErrIs   error
		wantSuccess bool
	}{
		{
			name:        "success",
			status:      200,
			body:        `{"success":true,"challenge_ts":"2024-01-01T00:00:00Z","hostname":"checkout.pagopa.it"}`,
			wantSuccess: true,
		},
		{
			name:      "explicit failure",
			status:    200,
			body:      `{"success":false,"challenge_ts":"2024-01-01T00:00:00Z","hostname":"checkout.pagopa.it","error-codes":["invalid-input-response"]}`,
			wantErr:   true,
			wantErrIs: ports.ErrRecaptchaRejected,
		},
		{
			name:    "non 2xx",
			status:  503,
			body:    `unavailable`,
			wantErr: true,
		},
		{
			name:    "not json",
			status:  200,
			body:    `<html>`,
			wantErr: true,
		},
		{
			name:      "missing hostname",
			status:    200,
			body:      `{"success":true,"challenge_ts":"2024-01-01T00:00:00Z"}`,
			wantErr:   true,
			wantErrIs: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, tt.status, tt.body)
			v := NewVerifier(&VerifierConfig{Host: server.URL}, server.Client(), mocks.NewMockLogger())

			result, err := v.Verify(context.Background(), "s3cret", "token+with&chars")
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, "checkout.pagopa.it", result.Hostname)
		})
	}
}

func TestVerifier_TransportError(t *testing.T) {
	logger := mocks.NewMockLogger()
	httpClient := mocks.NewMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: timeout")
	})
	v := NewVerifier(DefaultVerifierConfig(), httpClient, logger)

	_, err := v.Verify(context.Background(), "s3cret", "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error posting recaptcha API")
	assert.Len(t, logger.WarnCalls, 1)
	require.Len(t, httpClient.Calls, 1)
	assert.Equal(t, "https://www.google.com/recaptcha/api/siteverify", httpClient.Calls[0].URL.String())
}
