package pagopa

import (
	"fmt"
	"net/http"

	"github.com/pagopa/pay-portal-service/internal/adapters/ports"
	"github.com/pagopa/pay-portal-service/internal/domain"
	"github.com/pagopa/pay-portal-service/internal/domain/models"
	"github.com/pagopa/pay-portal-service/pkg/encoding"
	"github.com/pagopa/pay-portal-service/pkg/observability"
)

// MapProxyError converts a non-200 proxy answer into the response returned to
// the caller. Only 500 answers carry a fault body worth reading, and only they
// are logged here: a warning when the body does not decode, otherwise one info
// line with the rpt id and the resolved detail.
func MapProxyError(status int, faultBody []byte, rptID string, logger ports.Logger) *domain.ErrorResponse {
	switch status {
	case http.StatusUnauthorized:
		return domain.NewUnauthorized("Unauthorized", "Unauthorized")
	case http.StatusForbidden:
		return domain.NewForbiddenNotAuthorized()
	case http.StatusNotFound:
		return domain.NewNotFound("Not found", "Resource not found")
	case http.StatusTooManyRequests:
		return domain.NewTooManyRequests("Too many requests")
	case http.StatusInternalServerError:
		problem, err := decodePaymentProblem(faultBody)
		if err != nil {
			logger.Warn("pagoPA proxy fault body not decodable",
				ports.String("rpt_id", rptID),
				ports.Err(err),
			)
			return domain.NewInternalError(domain.GenericErrorReason)
		}

		detail := problem.ResolvedDetail()
		observability.RecordProxyFault(problem.FaultLabel())
		logger.Info(fmt.Sprintf("pagoPA proxy [rptId: %s, detail: %s]", rptID, detail),
			ports.String("rpt_id", rptID),
			ports.String("detail", detail),
		)
		if detail == string(models.FaultGenericError) {
			return domain.NewInternalError(domain.GenericErrorReason)
		}
		return domain.NewValidationError("Validation Error", detail)
	default:
		return domain.NewUnhandledStatus(status)
	}
}

func decodePaymentProblem(body []byte) (*models.PaymentProblemJSON, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", models.ErrInvalidPaymentProblem)
	}
	var problem models.PaymentProblemJSON
	if err := encoding.DecodeJSON(body, &problem); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidPaymentProblem, err)
	}
	if err := problem.Validate(); err != nil {
		return nil, err
	}
	return &problem, nil
}
