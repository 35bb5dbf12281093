package ports

import "net/http"

// HTTPClient is a minimal HTTP client interface for making requests
// Both the PagoPA proxy client and the recaptcha verifier take one so tests
// can swap the transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
