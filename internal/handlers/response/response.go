package response

import (
	"net/http"

	"github.com/pagopa/pay-portal-service/internal/domain"
	"github.com/pagopa/pay-portal-service/pkg/encoding"
	"go.uber.org/zap"
)

// ContentTypeProblemJSON is the media type of every error body
const ContentTypeProblemJSON = "application/problem+json"

// JSON writes v with the given status
func JSON(w http.ResponseWriter, logger *zap.Logger, status int, v interface{}) {
	body, err := encoding.EncodeJSON(v)
	if err != nil {
		logger.Error("failed to encode response", zap.Error(err))
		Problem(w, logger, domain.NewInternalError("Error encoding response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Problem writes errResp as application/problem+json
func Problem(w http.ResponseWriter, logger *zap.Logger, errResp *domain.ErrorResponse) {
	body, err := encoding.EncodeJSON(errResp.Problem())
	if err != nil {
		// ProblemJSON holds strings and an int only
		logger.Error("failed to encode problem", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ContentTypeProblemJSON)
	w.WriteHeader(errResp.StatusCode())
	_, _ = w.Write(body)
}
