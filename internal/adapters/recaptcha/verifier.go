package recaptcha

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pagopa/pay-portal-service/internal/adapters/ports"
	"github.com/pagopa/pay-portal-service/pkg/encoding"
	"github.com/pagopa/pay-portal-service/pkg/observability"
)

const siteVerifyPath = "/recaptcha/api/siteverify"

// ErrMalformedResponse is returned when siteverify answers with an unexpected payload
var ErrMalformedResponse = errors.New("malformed recaptcha response")

// VerifierConfig contains configuration for the recaptcha verifier
type VerifierConfig struct {
	Host    string // e.g., "https://www.google.com"
	Timeout time.Duration
}

// DefaultVerifierConfig returns default configuration
func DefaultVerifierConfig() *VerifierConfig {
	return &VerifierConfig{
		Host:    "https://www.google.com",
		Timeout: 10 * time.Second,
	}
}

type verifier struct {
	config     *VerifierConfig
	httpClient ports.HTTPClient
	logger     ports.Logger
}

// NewVerifier creates a recaptcha verifier posting to the siteverify endpoint
func NewVerifier(config *VerifierConfig, httpClient ports.HTTPClient, logger ports.Logger) ports.RecaptchaVerifier {
	return &verifier{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

// siteVerifyPayload mirrors the siteverify answer with presence tracking
type siteVerifyPayload struct {
	ChallengeTS *string  `json:"challenge_ts"`
	Hostname    *string  `json:"hostname"`
	Success     *bool    `json:"success"`
	ErrorCodes  []string `json:"error-codes"`
}

// Verify posts the token and succeeds only on an explicit success=true
func (v *verifier) Verify(ctx context.Context, secret, response string) (*ports.RecaptchaResponse, error) {
	result, err := v.verify(ctx, secret, response)
	switch {
	case err == nil:
		observability.RecordRecaptchaVerification("success")
	case errors.Is(err, ports.ErrRecaptchaRejected):
		observability.RecordRecaptchaVerification("rejected")
	default:
		observability.RecordRecaptchaVerification("error")
	}
	if err != nil {
		v.logger.Warn("Recaptcha verification failed", ports.Err(err))
	}
	return result, err
}

func (v *verifier) verify(ctx context.Context, secret, response string) (*ports.RecaptchaResponse, error) {
	if v.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.config.Timeout)
		defer cancel()
	}

	form := url.Values{}
	form.Set("secret", secret)
	form.Set("response", response)

	endpoint := strings.TrimRight(v.config.Host, "/") + siteVerifyPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error posting recaptcha API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("error returned from recaptcha API: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error getting recaptcha API payload: %w", err)
	}

	var payload siteVerifyPayload
	if err := encoding.DecodeJSON(body, &payload); err != nil {
		return nil, fmt.Errorf("error getting recaptcha API payload: %w", err)
	}
	if payload.ChallengeTS == nil || payload.Hostname == nil || payload.Success == nil {
		return nil, fmt.Errorf("%w: challenge_ts, hostname and success are required", ErrMalformedResponse)
	}

	result := &ports.RecaptchaResponse{
		ChallengeTS: *payload.ChallengeTS,
		Hostname:    *payload.Hostname,
		Success:     *payload.Success,
		ErrorCodes:  payload.ErrorCodes,
	}
	if !result.Success {
		return result, fmt.Errorf("%w: %v", ports.ErrRecaptchaRejected, result.ErrorCodes)
	}
	return result, nil
}
