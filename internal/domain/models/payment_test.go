package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/pagopa/pay-portal-service/internal/domain"
	pkgerrors "github.com/pagopa/pay-portal-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRptID(t *testing.T) domain.RptID {
	t.Helper()
	id, err := domain.DecodeRptID("01199250158244012345678901200")
	require.NoError(t, err)
	return id
}

func TestPaymentActivationsPostRequest_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(r *PaymentActivationsPostRequest)
		wantFields []string
	}{
		{name: "valid", mutate: func(r *PaymentActivationsPostRequest) {}},
		{
			name:       "missing rpt id",
			mutate:     func(r *PaymentActivationsPostRequest) { r.RptID = domain.RptID{} },
			wantFields: []string{"rptId"},
		},
		{
			name:       "zero amount",
			mutate:     func(r *PaymentActivationsPostRequest) { r.ImportoSingoloVersamento = 0 },
			wantFields: []string{"importoSingoloVersamento"},
		},
		{
			name:       "amount too large",
			mutate:     func(r *PaymentActivationsPostRequest) { r.ImportoSingoloVersamento = 100000000 },
			wantFields: []string{"importoSingoloVersamento"},
		},
		{
			name: "empty context code and amount",
			mutate: func(r *PaymentActivationsPostRequest) {
				r.CodiceContestoPagamento = ""
				r.ImportoSingoloVersamento = -1
			},
			wantFields: []string{"importoSingoloVersamento", "codiceContestoPagamento"},
		},
		{
			name:       "context code too long",
			mutate:     func(r *PaymentActivationsPostRequest) { r.CodiceContestoPagamento = strings.Repeat("a", 36) },
			wantFields: []string{"codiceContestoPagamento"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := PaymentActivationsPostRequest{
				RptID:                    validRptID(t),
				CodiceContestoPagamento:  "6f69d150541e11ebb70c7b05c53756dd",
				ImportoSingoloVersamento: 1100,
			}
			tt.mutate(&req)

			err := req.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verrs pkgerrors.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			fields := make([]string, len(verrs))
			for i, v := range verrs {
				fields[i] = v.Field
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestPaymentActivationsPostRequest_DecodeJSON(t *testing.T) {
	var req PaymentActivationsPostRequest
	err := json.Unmarshal([]byte(`{
		"rptId": "01199250158244012345678901200",
		"importoSingoloVersamento": 1100,
		"codiceContestoPagamento": "6f69d150541e11ebb70c7b05c53756dd"
	}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "01199250158244012345678901200", req.RptID.String())
	assert.Equal(t, int64(1100), req.ImportoSingoloVersamento)
}

func TestPaymentActivationsPostResponse_ZeroValueIsEmptyObject(t *testing.T) {
	out, err := json.Marshal(PaymentActivationsPostResponse{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))
}

func TestPaymentRequestsGetResponse_ZeroValue(t *testing.T) {
	out, err := json.Marshal(PaymentRequestsGetResponse{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"codiceContestoPagamento":"","importoSingoloVersamento":0}`, string(out))
}

func TestPaymentProblemJSON(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantErr      bool
		wantResolved string
		wantLabel    string
	}{
		{name: "detail_v2 wins", body: `{"detail":"PAYMENT_DUPLICATED","detail_v2":"PAA_PAGAMENTO_DUPLICATO"}`, wantResolved: "PAA_PAGAMENTO_DUPLICATO", wantLabel: "PAA_PAGAMENTO_DUPLICATO"},
		{name: "legacy detail only", body: `{"detail":"PAYMENT_UNKNOWN"}`, wantResolved: "PAYMENT_UNKNOWN", wantLabel: FaultLabelLegacy},
		{name: "legacy free text", body: `{"detail":"free text 42"}`, wantResolved: "free text 42", wantLabel: FaultLabelLegacy},
		{name: "legacy detail with a v2 code", body: `{"detail":"GENERIC_ERROR"}`, wantResolved: "GENERIC_ERROR", wantLabel: "GENERIC_ERROR"},
		{name: "generic error", body: `{"detail":"PAYMENT_UNKNOWN","detail_v2":"GENERIC_ERROR"}`, wantResolved: "GENERIC_ERROR", wantLabel: "GENERIC_ERROR"},
		{name: "empty object", body: `{}`, wantErr: true},
		{name: "unknown detail_v2", body: `{"detail":"x","detail_v2":"NOT_A_FAULT"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PaymentProblemJSON
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))

			err := p.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPaymentProblem)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantResolved, p.ResolvedDetail())
			assert.Equal(t, tt.wantLabel, p.FaultLabel())
		})
	}
}
