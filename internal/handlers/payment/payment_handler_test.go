package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pagopa/pay-portal-service/internal/domain"
	"github.com/pagopa/pay-portal-service/internal/domain/models"
	"github.com/pagopa/pay-portal-service/internal/handlers/response"
	"github.com/pagopa/pay-portal-service/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

const testRptID = "01199250158244012345678901200"

// MockService mocks the payment orchestrators
type MockService struct {
	mock.Mock
}

func (m *MockService) ActivatePayment(ctx context.Context, req *models.PaymentActivationsPostRequest) (*models.PaymentActivationsPostResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentActivationsPostResponse), args.Error(1)
}

func (m *MockService) GetActivationStatus(ctx context.Context, ccp string) (*models.PaymentActivationsGetResponse, error) {
	args := m.Called(ctx, ccp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentActivationsGetResponse), args.Error(1)
}

func (m *MockService) GetPaymentInfo(ctx context.Context, rptID domain.RptID, recaptchaResponse string) (*models.PaymentRequestsGetResponse, error) {
	args := m.Called(ctx, rptID, recaptchaResponse)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentRequestsGetResponse), args.Error(1)
}

func newTestMux(t *testing.T, svc Service) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewHandler(svc, zaptest.NewLogger(t)).RegisterRoutes(mux)
	return mux
}

func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestActivatePayment_Success(t *testing.T) {
	svc := new(MockService)
	svc.On("ActivatePayment", mock.Anything, mock.MatchedBy(func(req *models.PaymentActivationsPostRequest) bool {
		return req.RptID.String() == testRptID && req.ImportoSingoloVersamento == 1100
	})).Return(&models.PaymentActivationsPostResponse{
		CodiceContestoPagamento:  "6f69d150541e11ebb70c7b05c53756dd",
		ImportoSingoloVersamento: 1100,
	}, nil)

	rec := serve(newTestMux(t, svc), http.MethodPost, "/api/v1/payment-activations", `{
		"rptId": "`+testRptID+`",
		"importoSingoloVersamento": 1100,
		"codiceContestoPagamento": "6f69d150541e11ebb70c7b05c53756dd"
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"codiceContestoPagamento":"6f69d150541e11ebb70c7b05c53756dd","importoSingoloVersamento":1100}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestActivatePayment_InvalidBody(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantDetail string
	}{
		{name: "empty body", body: "", wantDetail: "request body is required"},
		{name: "not json", body: "rptId=1", wantDetail: "does not match"},
		{name: "short rpt id", body: `{"rptId":"0119925015824","importoSingoloVersamento":1,"codiceContestoPagamento":"x"}`, wantDetail: "must be exactly 29 characters"},
		{name: "unknown aux digit", body: `{"rptId":"01199250158944012345678901200","importoSingoloVersamento":1,"codiceContestoPagamento":"x"}`, wantDetail: "auxDigit"},
		{name: "missing rpt id", body: `{"importoSingoloVersamento":1,"codiceContestoPagamento":"x"}`, wantDetail: "rptId"},
		{name: "zero amount", body: `{"rptId":"` + testRptID + `","importoSingoloVersamento":0,"codiceContestoPagamento":"x"}`, wantDetail: "importoSingoloVersamento"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)

			rec := serve(newTestMux(t, svc), http.MethodPost, "/api/v1/payment-activations", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, response.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.wantDetail)
			svc.AssertNumberOfCalls(t, "ActivatePayment", 0)
		})
	}
}

func TestActivatePayment_ServiceErrorIsProblem(t *testing.T) {
	svc := new(MockService)
	svc.On("ActivatePayment", mock.Anything, mock.Anything).
		Return(nil, domain.NewValidationError("Validation Error", "PAA_PAGAMENTO_DUPLICATO"))

	rec := serve(newTestMux(t, svc), http.MethodPost, "/api/v1/payment-activations",
		`{"rptId":"`+testRptID+`","importoSingoloVersamento":1100,"codiceContestoPagamento":"ccp"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"title":"Validation Error","detail":"PAA_PAGAMENTO_DUPLICATO","status":400}`, rec.Body.String())
}

func TestGetActivationStatus(t *testing.T) {
	svc := new(MockService)
	svc.On("GetActivationStatus", mock.Anything, "6f69d150541e11ebb70c7b05c53756dd").
		Return(&models.PaymentActivationsGetResponse{IDPagamento: "123455"}, nil)
	svc.On("GetActivationStatus", mock.Anything, "missing").
		Return(nil, domain.NewNotFound("Not found", "Resource not found"))
	mux := newTestMux(t, svc)

	rec := serve(mux, http.MethodGet, "/api/v1/payment-activations/6f69d150541e11ebb70c7b05c53756dd", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"idPagamento":"123455"}`, rec.Body.String())

	rec = serve(mux, http.MethodGet, "/api/v1/payment-activations/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(mux, http.MethodGet, "/api/v1/payment-activations/"+strings.Repeat("a", 36), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPaymentInfo(t *testing.T) {
	expectedID, err := domain.DecodeRptID(testRptID)
	require.NoError(t, err)

	svc := new(MockService)
	svc.On("GetPaymentInfo", mock.Anything, expectedID, "token").
		Return(&models.PaymentRequestsGetResponse{CodiceContestoPagamento: "ccp", ImportoSingoloVersamento: 1100}, nil)
	mux := newTestMux(t, svc)

	rec := serve(mux, http.MethodGet, "/api/v1/payment-requests/"+testRptID+"?recaptchaResponse=token", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"codiceContestoPagamento":"ccp","importoSingoloVersamento":1100}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestGetPaymentInfo_BadRequests(t *testing.T) {
	svc := new(MockService)
	mux := newTestMux(t, svc)

	rec := serve(mux, http.MethodGet, "/api/v1/payment-requests/0119925015824401234567890120X?recaptchaResponse=t", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "digits only")

	rec = serve(mux, http.MethodGet, "/api/v1/payment-requests/"+testRptID, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "recaptchaResponse is required")

	svc.AssertNumberOfCalls(t, "GetPaymentInfo", 0)
}

func TestGetPaymentInfo_UnexpectedErrorIsInternal(t *testing.T) {
	svc := new(MockService)
	svc.On("GetPaymentInfo", mock.Anything, mock.Anything, "token").Return(nil, errors.New("boom"))

	rec := serve(newTestMux(t, svc), http.MethodGet, "/api/v1/payment-requests/"+testRptID+"?recaptchaResponse=token", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestHandlerLogsCarryRequestID(t *testing.T) {
	svc := new(MockService)
	svc.On("GetPaymentInfo", mock.Anything, mock.Anything, "token").Return(nil, errors.New("boom"))

	core, logs := observer.New(zap.InfoLevel)
	mux := http.NewServeMux()
	NewHandler(svc, zap.New(core)).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-requests/"+testRptID+"?recaptchaResponse=token", nil)
	req = req.WithContext(observability.WithRequestID(req.Context(), "req-1"))
	mux.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("unexpected service error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
}
