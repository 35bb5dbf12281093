package transaction

import (
	"net/http"
	"strings"

	"github.com/pagopa/pay-portal-service/pkg/observability"
	"go.uber.org/zap"
)

// Placeholders substituted into the xpay redirect query, first occurrence each
const (
	placeholderID          = "_id_"
	placeholderResumeType  = "_resumeType_"
	placeholderQueryParams = "_queryParams_"

	resumeTypeXPay = "xpayVerification"

	// placeholderTransaction is substituted into the challenge resume URL
	placeholderTransaction = "idTransaction"
)

// RedirectConfig holds the redirect targets of the payment gateways
type RedirectConfig struct {
	// XPayRedirect is the page the xpay verification flow resumes on
	XPayRedirect string
	// ChallengeResumeURL is the 3DS2 challenge resume URL template
	ChallengeResumeURL string
}

// Handler serves the browser redirects used by the card payment flows
type Handler struct {
	config RedirectConfig
	logger *zap.Logger
}

// NewHandler creates a new transaction redirect handler
func NewHandler(config RedirectConfig, logger *zap.Logger) *Handler {
	return &Handler{
		config: config,
		logger: logger,
	}
}

// RegisterRoutes mounts the redirect routes on mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/transactions/xpay/verification/{id}", h.XPayVerification)
	mux.HandleFunc("POST /api/v1/transactions/{id}/challenge", h.Challenge)
}

// XPayVerification handles GET /api/v1/transactions/xpay/verification/{id}.
// The query string is forwarded after the placeholders are filled in.
func (h *Handler) XPayVerification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	query := r.URL.RawQuery

	resumed := strings.Replace(query, placeholderID, id, 1)
	resumed = strings.Replace(resumed, placeholderResumeType, resumeTypeXPay, 1)
	resumed = strings.Replace(resumed, placeholderQueryParams, query, 1)

	observability.LoggerFromContext(r.Context(), h.logger).Debug("Redirecting xpay verification", zap.String("transaction_id", id))
	redirect(w, r, h.config.XPayRedirect+"?"+resumed)
}

// Challenge handles POST /api/v1/transactions/{id}/challenge
func (h *Handler) Challenge(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	observability.LoggerFromContext(r.Context(), h.logger).Debug("Redirecting 3DS2 challenge", zap.String("transaction_id", id))
	redirect(w, r, strings.Replace(h.config.ChallengeResumeURL, placeholderTransaction, id, 1))
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	w.Header().Set("Content-Type", "text/html")
	http.Redirect(w, r, target, http.StatusFound)
}
