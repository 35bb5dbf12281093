package pagopa

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pagopa/pay-portal-service/internal/adapters/ports"
	"github.com/pagopa/pay-portal-service/internal/domain/models"
	"github.com/pagopa/pay-portal-service/pkg/encoding"
	"github.com/pagopa/pay-portal-service/pkg/observability"
)

// Operation names used in logs and metrics
const (
	OperationActivatePayment     = "activate_payment"
	OperationGetActivationStatus = "get_activation_status"
	OperationGetPaymentInfo      = "get_payment_info"
)

// ProxyClientConfig contains configuration for the PagoPA proxy client
type ProxyClientConfig struct {
	BaseURL string // e.g., "http://localhost:1234/api/v1"
	Timeout time.Duration
}

// DefaultProxyClientConfig returns default configuration
func DefaultProxyClientConfig(baseURL string) *ProxyClientConfig {
	return &ProxyClientConfig{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: 30 * time.Second,
	}
}

// proxyClient implements the PagoPAProxyClient port over HTTP/JSON
type proxyClient struct {
	config     *ProxyClientConfig
	httpClient ports.HTTPClient
	logger     ports.Logger
}

// NewProxyClient creates a new PagoPA proxy client
func NewProxyClient(
	config *ProxyClientConfig,
	httpClient ports.HTTPClient,
	logger ports.Logger,
) ports.PagoPAProxyClient {
	return &proxyClient{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

// ActivatePayment locks the payment for the given context code
func (c *proxyClient) ActivatePayment(ctx context.Context, req *models.PaymentActivationsPostRequest) (*ports.ProxyResponse[models.PaymentActivationsPostResponse], error) {
	return doRequest[models.PaymentActivationsPostResponse](ctx, c, OperationActivatePayment,
		http.MethodPost, "/payment-activations", req)
}

// GetActivationStatus polls the activation started with codiceContestoPagamento
func (c *proxyClient) GetActivationStatus(ctx context.Context, codiceContestoPagamento string) (*ports.ProxyResponse[models.PaymentActivationsGetResponse], error) {
	return doRequest[models.PaymentActivationsGetResponse](ctx, c, OperationGetActivationStatus,
		http.MethodGet, "/payment-activations/"+url.PathEscape(codiceContestoPagamento), nil)
}

// GetPaymentInfo fetches the notice identified by the encoded RPT-ID
func (c *proxyClient) GetPaymentInfo(ctx context.Context, rptID string) (*ports.ProxyResponse[models.PaymentRequestsGetResponse], error) {
	return doRequest[models.PaymentRequestsGetResponse](ctx, c, OperationGetPaymentInfo,
		http.MethodGet, "/payment-requests/"+url.PathEscape(rptID), nil)
}

// Ping sends a HEAD to the base URL. Any HTTP answer counts as reachable.
func (c *proxyClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.config.BaseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrProxyTransport, err)
	}
	resp.Body.Close()
	return nil
}

// validatable success bodies get their required fields checked after decoding
type validatable interface {
	Validate() error
}

func doRequest[T any](ctx context.Context, c *proxyClient, operation, method, path string, body interface{}) (*ports.ProxyResponse[T], error) {
	var reqBody io.Reader
	if body != nil {
		payload, err := encoding.EncodeJSON(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	endpoint := c.config.BaseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.RecordProxyRequest(operation, "transport_error", time.Since(startTime).Seconds())
		c.logger.Error("PagoPA proxy request failed",
			ports.String("operation", operation),
			ports.Err(err),
			ports.Duration("elapsed", time.Since(startTime)),
		)
		return nil, fmt.Errorf("%w: %w", ports.ErrProxyTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.RecordProxyRequest(operation, "transport_error", time.Since(startTime).Seconds())
		return nil, fmt.Errorf("%w: failed to read response body: %w", ports.ErrProxyTransport, err)
	}

	observability.RecordProxyRequest(operation, strconv.Itoa(resp.StatusCode), time.Since(startTime).Seconds())
	c.logger.Debug("PagoPA proxy response",
		ports.String("operation", operation),
		ports.Int("status_code", resp.StatusCode),
		ports.Duration("elapsed", time.Since(startTime)),
	)

	if resp.StatusCode != http.StatusOK {
		return &ports.ProxyResponse[T]{StatusCode: resp.StatusCode, Fault: respBody}, nil
	}

	var value T
	if err := encoding.DecodeJSON(respBody, &value); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ports.ErrProxyDecode, operation, err)
	}
	if v, ok := any(&value).(validatable); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ports.ErrProxyDecode, operation, err)
		}
	}
	return &ports.ProxyResponse[T]{StatusCode: resp.StatusCode, Value: &value}, nil
}
