package payment

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/pagopa/pay-portal-service/internal/domain"
	"github.com/pagopa/pay-portal-service/internal/domain/models"
	"github.com/pagopa/pay-portal-service/internal/handlers/response"
	"github.com/pagopa/pay-portal-service/pkg/encoding"
	pkgerrors "github.com/pagopa/pay-portal-service/pkg/errors"
	"github.com/pagopa/pay-portal-service/pkg/observability"
	"go.uber.org/zap"
)

// maxBodyBytes bounds the activation request body
const maxBodyBytes = 64 << 10

// Service is the orchestration layer behind the payment routes
type Service interface {
	ActivatePayment(ctx context.Context, req *models.PaymentActivationsPostRequest) (*models.PaymentActivationsPostResponse, error)
	GetActivationStatus(ctx context.Context, codiceContestoPagamento string) (*models.PaymentActivationsGetResponse, error)
	GetPaymentInfo(ctx context.Context, rptID domain.RptID, recaptchaResponse string) (*models.PaymentRequestsGetResponse, error)
}

// Handler serves the payment activation and payment request routes
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new payment handler
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts the payment routes on mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/payment-activations", h.ActivatePayment)
	mux.HandleFunc("GET /api/v1/payment-activations/{codiceContestoPagamento}", h.GetActivationStatus)
	mux.HandleFunc("GET /api/v1/payment-requests/{rptId}", h.GetPaymentInfo)
}

// ActivatePayment handles POST /api/v1/payment-activations
func (h *Handler) ActivatePayment(w http.ResponseWriter, r *http.Request) {
	logger := observability.LoggerFromContext(r.Context(), h.logger)

	var req models.PaymentActivationsPostRequest
	if errResp := decodeActivationRequest(r, &req); errResp != nil {
		logger.Info("invalid activation request", zap.String("detail", errResp.Detail))
		response.Problem(w, logger, errResp)
		return
	}

	result, err := h.service.ActivatePayment(r.Context(), &req)
	respond(w, logger, result, err)
}

// GetActivationStatus handles GET /api/v1/payment-activations/{codiceContestoPagamento}
func (h *Handler) GetActivationStatus(w http.ResponseWriter, r *http.Request) {
	logger := observability.LoggerFromContext(r.Context(), h.logger)

	ccp := r.PathValue("codiceContestoPagamento")
	if verr := models.ValidateCodiceContestoPagamento(ccp); verr != nil {
		response.Problem(w, logger, domain.NewValidationError("Invalid codiceContestoPagamento", verr.Error()))
		return
	}

	result, err := h.service.GetActivationStatus(r.Context(), ccp)
	respond(w, logger, result, err)
}

// GetPaymentInfo handles GET /api/v1/payment-requests/{rptId}?recaptchaResponse=...
func (h *Handler) GetPaymentInfo(w http.ResponseWriter, r *http.Request) {
	logger := observability.LoggerFromContext(r.Context(), h.logger)

	rptID, err := domain.DecodeRptID(r.PathValue("rptId"))
	if err != nil {
		response.Problem(w, logger, domain.NewValidationError("Invalid rptId", err.Error()))
		return
	}

	query := r.URL.Query()
	if !query.Has("recaptchaResponse") {
		response.Problem(w, logger, domain.NewValidationError("Invalid recaptchaResponse", "recaptchaResponse is required"))
		return
	}

	result, err := h.service.GetPaymentInfo(r.Context(), rptID, query.Get("recaptchaResponse"))
	respond(w, logger, result, err)
}

func respond(w http.ResponseWriter, logger *zap.Logger, result interface{}, err error) {
	if err != nil {
		var errResp *domain.ErrorResponse
		if !errors.As(err, &errResp) {
			logger.Error("unexpected service error", zap.Error(err))
			errResp = domain.NewInternalError(domain.GenericErrorReason)
		}
		response.Problem(w, logger, errResp)
		return
	}
	response.JSON(w, logger, http.StatusOK, result)
}

// decodeActivationRequest reads and validates the body; a nil return means req is usable
func decodeActivationRequest(r *http.Request, req *models.PaymentActivationsPostRequest) *domain.ErrorResponse {
	const title = "Invalid PaymentActivationsPostRequest"

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return domain.NewValidationError(title, "request body could not be read")
	}
	if len(body) == 0 {
		return domain.NewValidationError(title, "request body is required")
	}
	if len(body) > maxBodyBytes {
		return domain.NewValidationError(title, "request body is too large")
	}

	// rptId is decoded separately so codec failures keep their field and constraint
	var raw struct {
		RptID                    string `json:"rptId"`
		CodiceContestoPagamento  string `json:"codiceContestoPagamento"`
		ImportoSingoloVersamento int64  `json:"importoSingoloVersamento"`
	}
	if err := encoding.DecodeJSON(body, &raw); err != nil {
		return domain.NewValidationError(title, "request body does not match PaymentActivationsPostRequest")
	}
	if raw.RptID != "" {
		rptID, err := domain.DecodeRptID(raw.RptID)
		if err != nil {
			return domain.NewValidationError(title, err.Error())
		}
		req.RptID = rptID
	}
	req.CodiceContestoPagamento = raw.CodiceContestoPagamento
	req.ImportoSingoloVersamento = raw.ImportoSingoloVersamento

	if err := req.Validate(); err != nil {
		var verrs pkgerrors.ValidationErrors
		if errors.As(err, &verrs) {
			return domain.NewValidationError(title, verrs.Error())
		}
		return domain.NewValidationError(title, err.Error())
	}
	return nil
}
