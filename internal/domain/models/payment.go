package models

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/pagopa/pay-portal-service/internal/domain"
	pkgerrors "github.com/pagopa/pay-portal-service/pkg/errors"
)

const (
	// MinImportoSingoloVersamento and MaxImportoSingoloVersamento bound an amount in euro cents
	MinImportoSingoloVersamento = 1
	MaxImportoSingoloVersamento = 99999999

	MaxCodiceContestoPagamentoLength = 35
)

// EnteBeneficiario describes the creditor institution of a payment
type EnteBeneficiario struct {
	IdentificativoUnivocoBeneficiario string `json:"identificativoUnivocoBeneficiario"`
	DenominazioneBeneficiario         string `json:"denominazioneBeneficiario"`
	CodiceUnitOperBeneficiario        string `json:"codiceUnitOperBeneficiario,omitempty"`
	DenomUnitOperBeneficiario         string `json:"denomUnitOperBeneficiario,omitempty"`
	IndirizzoBeneficiario             string `json:"indirizzoBeneficiario,omitempty"`
	CivicoBeneficiario                string `json:"civicoBeneficiario,omitempty"`
	CapBeneficiario                   string `json:"capBeneficiario,omitempty"`
	LocalitaBeneficiario              string `json:"localitaBeneficiario,omitempty"`
	ProvinciaBeneficiario             string `json:"provinciaBeneficiario,omitempty"`
	NazioneBeneficiario               string `json:"nazioneBeneficiario,omitempty"`
}

// SpezzoniCausaleVersamento is the structured form of the payment reason
type SpezzoniCausaleVersamento struct {
	SpezzoneStrutturatoCausaleVersamento *SpezzoneStrutturato `json:"spezzoneStrutturatoCausaleVersamento,omitempty"`
	SpezzoneCausaleVersamento            string               `json:"spezzoneCausaleVersamento,omitempty"`
}

// SpezzoneStrutturato is one amount-tagged part of the payment reason
type SpezzoneStrutturato struct {
	CausaleSpezzone string `json:"causaleSpezzone"`
	ImportoSpezzone int64  `json:"importoSpezzone"`
}

// PaymentActivationsPostRequest asks the proxy to lock a payment for this session
type PaymentActivationsPostRequest struct {
	RptID                    domain.RptID `json:"rptId"`
	CodiceContestoPagamento  string       `json:"codiceContestoPagamento"`
	ImportoSingoloVersamento int64        `json:"importoSingoloVersamento"`
}

// Validate checks the body fields beyond what JSON decoding enforces
func (r *PaymentActivationsPostRequest) Validate() error {
	var errs pkgerrors.ValidationErrors
	if r.RptID.PaymentNoticeNumber == nil {
		errs.Add("rptId", "is required")
	}
	if r.ImportoSingoloVersamento < MinImportoSingoloVersamento || r.ImportoSingoloVersamento > MaxImportoSingoloVersamento {
		errs.Add("importoSingoloVersamento",
			fmt.Sprintf("must be between %d and %d", MinImportoSingoloVersamento, MaxImportoSingoloVersamento))
	}
	if err := ValidateCodiceContestoPagamento(r.CodiceContestoPagamento); err != nil {
		errs = append(errs, err)
	}
	return errs.ErrOrNil()
}

// ValidateCodiceContestoPagamento checks the payment context code is 1 to 35 characters
func ValidateCodiceContestoPagamento(ccp string) *pkgerrors.ValidationError {
	if n := utf8.RuneCountInString(ccp); n < 1 || n > MaxCodiceContestoPagamentoLength {
		return pkgerrors.NewValidationError("codiceContestoPagamento",
			fmt.Sprintf("must be 1 to %d characters", MaxCodiceContestoPagamentoLength))
	}
	return nil
}

// PaymentActivationsPostResponse is the locked payment returned by the proxy.
// The zero value serializes to an empty object.
type PaymentActivationsPostResponse struct {
	EnteBeneficiario          *EnteBeneficiario          `json:"enteBeneficiario,omitempty"`
	SpezzoniCausaleVersamento *SpezzoniCausaleVersamento `json:"spezzoniCausaleVersamento,omitempty"`
	CodiceContestoPagamento   string                     `json:"codiceContestoPagamento,omitempty"`
	IbanAccredito             string                     `json:"ibanAccredito,omitempty"`
	CausaleVersamento         string                     `json:"causaleVersamento,omitempty"`
	ImportoSingoloVersamento  int64                      `json:"importoSingoloVersamento,omitempty"`
}

// Validate checks the fields the proxy always sends on success
func (r *PaymentActivationsPostResponse) Validate() error {
	if r.ImportoSingoloVersamento < MinImportoSingoloVersamento {
		return pkgerrors.NewValidationError("importoSingoloVersamento", "is required")
	}
	return nil
}

// PaymentActivationsGetResponse carries the payment id once the activation completed
type PaymentActivationsGetResponse struct {
	IDPagamento string `json:"idPagamento"`
}

// Validate requires the payment id
func (r *PaymentActivationsGetResponse) Validate() error {
	if r.IDPagamento == "" {
		return pkgerrors.NewValidationError("idPagamento", "is required")
	}
	return nil
}

// PaymentRequestsGetResponse is the payment notice information
type PaymentRequestsGetResponse struct {
	EnteBeneficiario          *EnteBeneficiario          `json:"enteBeneficiario,omitempty"`
	SpezzoniCausaleVersamento *SpezzoniCausaleVersamento `json:"spezzoniCausaleVersamento,omitempty"`
	DueDate                   string                     `json:"dueDate,omitempty"`
	IbanAccredito             string                     `json:"ibanAccredito,omitempty"`
	CausaleVersamento         string                     `json:"causaleVersamento,omitempty"`
	CodiceContestoPagamento   string                     `json:"codiceContestoPagamento"`
	ImportoSingoloVersamento  int64                      `json:"importoSingoloVersamento"`
}

// Validate checks the fields the proxy always sends on success
func (r *PaymentRequestsGetResponse) Validate() error {
	var errs pkgerrors.ValidationErrors
	if r.CodiceContestoPagamento == "" {
		errs.Add("codiceContestoPagamento", "is required")
	}
	if r.ImportoSingoloVersamento < MinImportoSingoloVersamento {
		errs.Add("importoSingoloVersamento", "is required")
	}
	return errs.ErrOrNil()
}

// PaymentFaultV2 enumerates the detailed fault codes of the proxy
type PaymentFaultV2 string

const (
	FaultGenericError                      PaymentFaultV2 = "GENERIC_ERROR"
	FaultPPTStazioneIntPAIrraggiungibile   PaymentFaultV2 = "PPT_STAZIONE_INT_PA_IRRAGGIUNGIBILE"
	FaultPPTStazioneIntPATimeout           PaymentFaultV2 = "PPT_STAZIONE_INT_PA_TIMEOUT"
	FaultPPTStazioneIntPAErroreResponse    PaymentFaultV2 = "PPT_STAZIONE_INT_PA_ERRORE_RESPONSE"
	FaultPPTIbanNonCensito                 PaymentFaultV2 = "PPT_IBAN_NON_CENSITO"
	FaultPAASintassiExtraXSD               PaymentFaultV2 = "PAA_SINTASSI_EXTRAXSD"
	FaultPAASintassiXSD                    PaymentFaultV2 = "PAA_SINTASSI_XSD"
	FaultPAAIDDominioErrato                PaymentFaultV2 = "PAA_ID_DOMINIO_ERRATO"
	FaultPAAIDIntermediarioErrato          PaymentFaultV2 = "PAA_ID_INTERMEDIARIO_ERRATO"
	FaultPAAStazioneIntErrata              PaymentFaultV2 = "PAA_STAZIONE_INT_ERRATA"
	FaultPAAAttivaRPTImportoNonValido      PaymentFaultV2 = "PAA_ATTIVA_RPT_IMPORTO_NON_VALIDO"
	FaultPPTErroreEmessoDaPAA              PaymentFaultV2 = "PPT_ERRORE_EMESSO_DA_PAA"
	FaultPAAPagamentoSconosciuto           PaymentFaultV2 = "PAA_PAGAMENTO_SCONOSCIUTO"
	FaultPPTDominioSconosciuto             PaymentFaultV2 = "PPT_DOMINIO_SCONOSCIUTO"
	FaultPPTStazioneIntPASconosciuta       PaymentFaultV2 = "PPT_STAZIONE_INT_PA_SCONOSCIUTA"
	FaultPAAPagamentoDuplicato             PaymentFaultV2 = "PAA_PAGAMENTO_DUPLICATO"
	FaultPAAPagamentoInCorso               PaymentFaultV2 = "PAA_PAGAMENTO_IN_CORSO"
	FaultPPTPagamentoInCorso               PaymentFaultV2 = "PPT_PAGAMENTO_IN_CORSO"
	FaultPPTPagamentoDuplicato             PaymentFaultV2 = "PPT_PAGAMENTO_DUPLICATO"
	FaultPAAPagamentoScaduto               PaymentFaultV2 = "PAA_PAGAMENTO_SCADUTO"
	FaultPAAPagamentoAnnullato             PaymentFaultV2 = "PAA_PAGAMENTO_ANNULLATO"
	FaultPPTSintassiExtraXSD               PaymentFaultV2 = "PPT_SINTASSI_EXTRAXSD"
	FaultPPTSemanticaErrata                PaymentFaultV2 = "PPT_SEMANTICA"
	FaultPPTDominioDisabilitato            PaymentFaultV2 = "PPT_DOMINIO_DISABILITATO"
	FaultPPTStazioneIntPADisabilitata      PaymentFaultV2 = "PPT_STAZIONE_INT_PA_DISABILITATA"
	FaultPPTIntermediarioPASconosciuto     PaymentFaultV2 = "PPT_INTERMEDIARIO_PA_SCONOSCIUTO"
	FaultPPTIntermediarioPADisabilitato    PaymentFaultV2 = "PPT_INTERMEDIARIO_PA_DISABILITATO"
	FaultPPTAutorizzazione                 PaymentFaultV2 = "PPT_AUTORIZZAZIONE"
	FaultPPTSystemError                    PaymentFaultV2 = "PPT_SYSTEM_ERROR"
	FaultPPTCanaleErroreResponse           PaymentFaultV2 = "PPT_CANALE_ERRORE_RESPONSE"
	FaultPPTStazioneIntPAServizioNonattivo PaymentFaultV2 = "PPT_STAZIONE_INT_PA_SERVIZIO_NONATTIVO"
)

var knownFaultsV2 = map[PaymentFaultV2]struct{}{
	FaultGenericError: {}, FaultPPTStazioneIntPAIrraggiungibile: {}, FaultPPTStazioneIntPATimeout: {},
	FaultPPTStazioneIntPAErroreResponse: {}, FaultPPTIbanNonCensito: {}, FaultPAASintassiExtraXSD: {},
	FaultPAASintassiXSD: {}, FaultPAAIDDominioErrato: {}, FaultPAAIDIntermediarioErrato: {},
	FaultPAAStazioneIntErrata: {}, FaultPAAAttivaRPTImportoNonValido: {}, FaultPPTErroreEmessoDaPAA: {},
	FaultPAAPagamentoSconosciuto: {}, FaultPPTDominioSconosciuto: {}, FaultPPTStazioneIntPASconosciuta: {},
	FaultPAAPagamentoDuplicato: {}, FaultPAAPagamentoInCorso: {}, FaultPPTPagamentoInCorso: {},
	FaultPPTPagamentoDuplicato: {}, FaultPAAPagamentoScaduto: {}, FaultPAAPagamentoAnnullato: {},
	FaultPPTSintassiExtraXSD: {}, FaultPPTSemanticaErrata: {}, FaultPPTDominioDisabilitato: {},
	FaultPPTStazioneIntPADisabilitata: {}, FaultPPTIntermediarioPASconosciuto: {},
	FaultPPTIntermediarioPADisabilitato: {}, FaultPPTAutorizzazione: {}, FaultPPTSystemError: {},
	FaultPPTCanaleErroreResponse: {}, FaultPPTStazioneIntPAServizioNonattivo: {},
}

// IsKnown reports whether f is one of the enumerated fault codes
func (f PaymentFaultV2) IsKnown() bool {
	_, ok := knownFaultsV2[f]
	return ok
}

// ErrInvalidPaymentProblem is returned when a fault body does not match PaymentProblemJSON
var ErrInvalidPaymentProblem = errors.New("invalid payment problem")

// PaymentProblemJSON is the fault body the proxy sends with a 500
type PaymentProblemJSON struct {
	Detail   *string         `json:"detail,omitempty"`
	DetailV2 *PaymentFaultV2 `json:"detail_v2,omitempty"`
	Title    string          `json:"title,omitempty"`
	Type     string          `json:"type,omitempty"`
	Instance string          `json:"instance,omitempty"`
	Status   int             `json:"status,omitempty"`
}

// Validate requires at least one detail and a known detail_v2 when present
func (p *PaymentProblemJSON) Validate() error {
	if p.DetailV2 != nil && !p.DetailV2.IsKnown() {
		return fmt.Errorf("%w: unknown detail_v2 %q", ErrInvalidPaymentProblem, *p.DetailV2)
	}
	hasDetail := p.Detail != nil && *p.Detail != ""
	hasDetailV2 := p.DetailV2 != nil && *p.DetailV2 != ""
	if !hasDetail && !hasDetailV2 {
		return fmt.Errorf("%w: detail is required", ErrInvalidPaymentProblem)
	}
	return nil
}

// ResolvedDetail prefers detail_v2 over the legacy detail
func (p *PaymentProblemJSON) ResolvedDetail() string {
	if p.DetailV2 != nil && *p.DetailV2 != "" {
		return string(*p.DetailV2)
	}
	if p.Detail != nil {
		return *p.Detail
	}
	return ""
}

// FaultLabelLegacy groups fault details outside the detail_v2 enumeration
const FaultLabelLegacy = "legacy"

// FaultLabel returns a bounded name for the fault: the detail_v2 code when it
// is enumerated, otherwise FaultLabelLegacy. Legacy details are free text.
func (p *PaymentProblemJSON) FaultLabel() string {
	if f := PaymentFaultV2(p.ResolvedDetail()); f.IsKnown() {
		return string(f)
	}
	return FaultLabelLegacy
}
