package transaction

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewHandler(RedirectConfig{
		XPayRedirect:       "https://checkout.example.org/xpay",
		ChallengeResumeURL: "https://checkout.example.org/resume/idTransaction/challenge",
	}, zaptest.NewLogger(t)).RegisterRoutes(mux)
	return mux
}

func TestXPayVerification(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantLoc string
	}{
		{
			name:    "placeholders replaced",
			target:  "/api/v1/transactions/xpay/verification/42?id=_id_&type=_resumeType_&esito=OK",
			wantLoc: "https://checkout.example.org/xpay?id=42&type=xpayVerification&esito=OK",
		},
		{
			name:    "query params placeholder carries the original query",
			target:  "/api/v1/transactions/xpay/verification/42?q=_queryParams_&a=1",
			wantLoc: "https://checkout.example.org/xpay?q=q=_queryParams_&a=1&a=1",
		},
		{
			name:    "only the first occurrence is replaced",
			target:  "/api/v1/transactions/xpay/verification/7?a=_id_&b=_id_",
			wantLoc: "https://checkout.example.org/xpay?a=7&b=_id_",
		},
		{
			name:    "no query",
			target:  "/api/v1/transactions/xpay/verification/7",
			wantLoc: "https://checkout.example.org/xpay?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
		})
	}
}

func TestChallenge(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/transactions/abc123/challenge", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://checkout.example.org/resume/abc123/challenge", rec.Header().Get("Location"))
}

func TestChallenge_GetNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/transactions/abc123/challenge", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
