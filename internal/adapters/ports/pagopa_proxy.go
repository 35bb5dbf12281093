package ports

import (
	"context"
	"errors"

	"github.com/pagopa/pay-portal-service/internal/domain/models"
)

var (
	// ErrProxyTransport wraps failures to reach the proxy or read its response
	ErrProxyTransport = errors.New("pagopa proxy transport error")
	// ErrProxyDecode wraps success bodies that do not match the expected schema
	ErrProxyDecode = errors.New("pagopa proxy decode error")
)

// ProxyResponse is the status-tagged outcome of a proxy call.
// Value is set only when StatusCode is 200; otherwise Fault holds the raw body.
type ProxyResponse[T any] struct {
	Value      *T
	Fault      []byte
	StatusCode int
}

// PagoPAProxyClient is the upstream payment proxy
type PagoPAProxyClient interface {
	ActivatePayment(ctx context.Context, req *models.PaymentActivationsPostRequest) (*ProxyResponse[models.PaymentActivationsPostResponse], error)
	GetActivationStatus(ctx context.Context, codiceContestoPagamento string) (*ProxyResponse[models.PaymentActivationsGetResponse], error)
	GetPaymentInfo(ctx context.Context, rptID string) (*ProxyResponse[models.PaymentRequestsGetResponse], error)
	// Ping checks the proxy base URL answers at all
	Ping(ctx context.Context) error
}
