package payment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pagopa/pay-portal-service/internal/adapters/pagopa"
	"github.com/pagopa/pay-portal-service/internal/adapters/ports"
	"github.com/pagopa/pay-portal-service/internal/domain"
	"github.com/pagopa/pay-portal-service/internal/domain/models"
	"github.com/pagopa/pay-portal-service/pkg/observability"
)

// Log prefixes, one per public endpoint
const (
	activatePaymentPrefix     = "PostActivatePaymentHandler"
	getActivationStatusPrefix = "GetActivationStatusHandler"
	getPaymentInfoPrefix      = "GetPaymentInfoHandler"
)

// Fixed reasons returned when the proxy call itself fails
const (
	reasonProxyUnreachable = "Error while calling pagoPA proxy"
	reasonProxyBadResponse = "Invalid response from pagoPA proxy"
)

// Recaptcha failure details returned with the Unauthorized response
const (
	detailRecaptchaRejected = "Error checking recaptcha"
	detailRecaptchaFailed   = "Error verifying recaptcha"
)

// Config holds the read-only values the orchestrators need
type Config struct {
	// ProbeRptID is the synthetic identifier used by liveness probes.
	// Requests carrying it never reach the proxy.
	ProbeRptID      domain.RptID
	RecaptchaSecret string
}

// Service orchestrates the pay-portal calls to the PagoPA proxy
type Service struct {
	proxy     ports.PagoPAProxyClient
	recaptcha ports.RecaptchaVerifier
	config    Config
	logger    ports.Logger
}

// NewService creates a new payment service
func NewService(
	proxy ports.PagoPAProxyClient,
	recaptcha ports.RecaptchaVerifier,
	config Config,
	logger ports.Logger,
) *Service {
	return &Service{
		proxy:     proxy,
		recaptcha: recaptcha,
		config:    config,
		logger:    logger,
	}
}

// ActivatePayment activates a payment on the proxy.
// The probe RptId gets an empty activation back without any upstream call.
func (s *Service) ActivatePayment(ctx context.Context, req *models.PaymentActivationsPostRequest) (*models.PaymentActivationsPostResponse, error) {
	if s.isProbe(req.RptID) {
		observability.RecordProbeRequest(pagopa.OperationActivatePayment)
		return &models.PaymentActivationsPostResponse{}, nil
	}

	logger := s.operationLogger(ctx, activatePaymentPrefix, "ActivatePayment")
	rptID := req.RptID.String()

	return callProxy(logger, pagopa.OperationActivatePayment, rptID,
		func() (*ports.ProxyResponse[models.PaymentActivationsPostResponse], error) {
			return s.proxy.ActivatePayment(ctx, req)
		})
}

// GetActivationStatus reads the payment id bound to a codiceContestoPagamento
func (s *Service) GetActivationStatus(ctx context.Context, codiceContestoPagamento string) (*models.PaymentActivationsGetResponse, error) {
	logger := s.operationLogger(ctx, getActivationStatusPrefix, "GetActivationStatus")

	// no rpt id is known in this flow
	return callProxy(logger, pagopa.OperationGetActivationStatus, "",
		func() (*ports.ProxyResponse[models.PaymentActivationsGetResponse], error) {
			return s.proxy.GetActivationStatus(ctx, codiceContestoPagamento)
		})
}

// GetPaymentInfo verifies the recaptcha token and then reads the payment request.
// The probe RptId skips both and gets an empty payment request.
func (s *Service) GetPaymentInfo(ctx context.Context, rptID domain.RptID, recaptchaResponse string) (*models.PaymentRequestsGetResponse, error) {
	if s.isProbe(rptID) {
		observability.RecordProbeRequest(pagopa.OperationGetPaymentInfo)
		return &models.PaymentRequestsGetResponse{
			CodiceContestoPagamento:  "",
			ImportoSingoloVersamento: 0,
		}, nil
	}

	logger := s.operationLogger(ctx, getPaymentInfoPrefix, "GetPaymentInfo")

	if _, err := s.recaptcha.Verify(ctx, s.config.RecaptchaSecret, recaptchaResponse); err != nil {
		detail := detailRecaptchaFailed
		if errors.Is(err, ports.ErrRecaptchaRejected) {
			detail = detailRecaptchaRejected
		}
		observability.RecordErrorResponse(pagopa.OperationGetPaymentInfo, string(domain.ErrorKindUnauthorized))
		return nil, domain.NewUnauthorized("Unauthorized", detail)
	}

	encoded := rptID.String()
	return callProxy(logger, pagopa.OperationGetPaymentInfo, encoded,
		func() (*ports.ProxyResponse[models.PaymentRequestsGetResponse], error) {
			return s.proxy.GetPaymentInfo(ctx, encoded)
		})
}

func (s *Service) isProbe(rptID domain.RptID) bool {
	return s.config.ProbeRptID.PaymentNoticeNumber != nil && rptID.Equal(s.config.ProbeRptID)
}

func (s *Service) operationLogger(ctx context.Context, prefix, operation string) ports.Logger {
	fields := []ports.Field{
		ports.String("prefix", prefix),
		ports.String("operation", operation),
	}
	if id := observability.RequestIDFromContext(ctx); id != "" {
		fields = append(fields, ports.String(observability.RequestIDField, id))
	}
	return ports.WithFields(s.logger, fields...)
}

// callProxy runs one proxy call and is the only place where its outcome is
// turned into either a value or a *domain.ErrorResponse.
func callProxy[T any](
	logger ports.Logger,
	operation string,
	rptID string,
	call func() (*ports.ProxyResponse[T], error),
) (*T, error) {
	start := time.Now()
	resp, err := call()

	if err != nil {
		reason := reasonProxyUnreachable
		if errors.Is(err, ports.ErrProxyDecode) {
			logger.Error("pagoPA proxy response not decodable", ports.Err(err))
			reason = reasonProxyBadResponse
		} else {
			logger.Error("pagoPA proxy call failed", ports.Err(err))
		}
		return nil, fail(operation, domain.NewInternalError(reason))
	}
	if resp == nil {
		logger.Error("pagoPA proxy client returned no response")
		return nil, fail(operation, domain.NewInternalError(reasonProxyBadResponse))
	}

	logger.Debug("pagoPA proxy answered",
		ports.Int("status", resp.StatusCode),
		ports.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, fail(operation, pagopa.MapProxyError(resp.StatusCode, resp.Fault, rptID, logger))
	}
	if resp.Value == nil {
		logger.Error("pagoPA proxy answered 200 without a body", ports.Int("status", resp.StatusCode))
		return nil, fail(operation, domain.NewInternalError(reasonProxyBadResponse))
	}

	return resp.Value, nil
}

func fail(operation string, errResp *domain.ErrorResponse) error {
	observability.RecordErrorResponse(operation, string(errResp.Kind))
	return errResp
}
