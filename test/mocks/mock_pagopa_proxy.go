package mocks

import (
	"context"

	"github.com/pagopa/pay-portal-service/internal/adapters/ports"
	"github.com/pagopa/pay-portal-service/internal/domain/models"
	"github.com/stretchr/testify/mock"
)

// MockPagoPAProxyClient is a testify mock of the PagoPA proxy port
type MockPagoPAProxyClient struct {
	mock.Mock
}

func (m *MockPagoPAProxyClient) ActivatePayment(ctx context.Context, req *models.PaymentActivationsPostRequest) (*ports.ProxyResponse[models.PaymentActivationsPostResponse], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ProxyResponse[models.PaymentActivationsPostResponse]), args.Error(1)
}

func (m *MockPagoPAProxyClient) GetActivationStatus(ctx context.Context, codiceContestoPagamento string) (*ports.ProxyResponse[models.PaymentActivationsGetResponse], error) {
	args := m.Called(ctx, codiceContestoPagamento)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ProxyResponse[models.PaymentActivationsGetResponse]), args.Error(1)
}

func (m *MockPagoPAProxyClient) GetPaymentInfo(ctx context.Context, rptID string) (*ports.ProxyResponse[models.PaymentRequestsGetResponse], error) {
	args := m.Called(ctx, rptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ProxyResponse[models.PaymentRequestsGetResponse]), args.Error(1)
}

func (m *MockPagoPAProxyClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockRecaptchaVerifier is a testify mock of the recaptcha port
type MockRecaptchaVerifier struct {
	mock.Mock
}

func (m *MockRecaptchaVerifier) Verify(ctx context.Context, secret, response string) (*ports.RecaptchaResponse, error) {
	args := m.Called(ctx, secret, response)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.RecaptchaResponse), args.Error(1)
}
