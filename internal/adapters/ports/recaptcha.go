package ports

import (
	"context"
	"errors"
)

// ErrRecaptchaRejected is returned when the oracle answers success=false
var ErrRecaptchaRejected = errors.New("recaptcha check failed")

// RecaptchaResponse is the siteverify payload
type RecaptchaResponse struct {
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes,omitempty"`
	Success     bool     `json:"success"`
}

// RecaptchaVerifier checks a client recaptcha token.
// Any error means the token must not be trusted.
type RecaptchaVerifier interface {
	Verify(ctx context.Context, secret, response string) (*RecaptchaResponse, error)
}
