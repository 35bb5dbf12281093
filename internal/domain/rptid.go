package domain

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	// OrganizationFiscalCodeLength is the number of digits of a creditor fiscal code
	OrganizationFiscalCodeLength = 11
	// PaymentNoticeNumberLength is the aux digit plus 17 variant digits
	PaymentNoticeNumberLength = 18
	// RptIDLength is the canonical length of an encoded RPT-ID
	RptIDLength = OrganizationFiscalCodeLength + PaymentNoticeNumberLength
)

// ErrInvalidRptID is the sentinel every codec failure unwraps to
var ErrInvalidRptID = errors.New("invalid rpt id")

// Field patterns. Lengths are exact, not maximums.
var (
	organizationFiscalCodePattern = regexp.MustCompile(`^[0-9]{11}$`)
	twoDigitPattern               = regexp.MustCompile(`^[0-9]{2}$`)
	iuv13Pattern                  = regexp.MustCompile(`^[0-9]{13}$`)
	iuv15Pattern                  = regexp.MustCompile(`^[0-9]{15}$`)
	iuv17Pattern                  = regexp.MustCompile(`^[0-9]{17}$`)
	digitsPattern                 = regexp.MustCompile(`^[0-9]*$`)
)

// DecodeError reports which constraint an RPT-ID or one of its parts failed
type DecodeError struct {
	Field      string
	Value      string
	Constraint string
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Constraint)
}

// Unwrap lets callers match any codec failure with errors.Is(err, ErrInvalidRptID)
func (e *DecodeError) Unwrap() error {
	return ErrInvalidRptID
}

func newDecodeError(field, value, constraint string) *DecodeError {
	return &DecodeError{Field: field, Value: value, Constraint: constraint}
}

func checkField(field, value string, pattern *regexp.Regexp, constraint string) error {
	if !pattern.MatchString(value) {
		return newDecodeError(field, value, constraint)
	}
	return nil
}

// OrganizationFiscalCode identifies a public-sector creditor (11 digits)
type OrganizationFiscalCode string

// Validate checks the fiscal code is exactly 11 digits
func (c OrganizationFiscalCode) Validate() error {
	return checkField("organizationFiscalCode", string(c), organizationFiscalCodePattern, "must be exactly 11 digits")
}

// AuxDigit discriminates the four payment notice number layouts
type AuxDigit string

const (
	AuxDigit0 AuxDigit = "0"
	AuxDigit1 AuxDigit = "1"
	AuxDigit2 AuxDigit = "2"
	AuxDigit3 AuxDigit = "3"
)

// PaymentNoticeNumber (numero avviso) is a closed set of four layouts.
// Implementations live in this package only.
//
//	| aux | layout after the aux digit            |
//	|-----|---------------------------------------|
//	|  0  | applicationCode(2) iuv13 checkDigit(2) |
//	|  1  | iuv17                                 |
//	|  2  | checkDigit(2) iuv15                   |
//	|  3  | segregationCode(2) iuv13 checkDigit(2) |
type PaymentNoticeNumber interface {
	AuxDigit() AuxDigit
	Validate() error
	paymentNoticeNumber()
}

// PaymentNoticeNumber0 is the aux digit 0 layout
type PaymentNoticeNumber0 struct {
	ApplicationCode string `json:"applicationCode"`
	IUV13           string `json:"iuv13"`
	CheckDigit      string `json:"checkDigit"`
}

// PaymentNoticeNumber1 is the aux digit 1 layout
type PaymentNoticeNumber1 struct {
	IUV17 string `json:"iuv17"`
}

// PaymentNoticeNumber2 is the aux digit 2 layout
type PaymentNoticeNumber2 struct {
	CheckDigit string `json:"checkDigit"`
	IUV15      string `json:"iuv15"`
}

// PaymentNoticeNumber3 is the aux digit 3 layout
type PaymentNoticeNumber3 struct {
	SegregationCode string `json:"segregationCode"`
	IUV13           string `json:"iuv13"`
	CheckDigit      string `json:"checkDigit"`
}

func (PaymentNoticeNumber0) AuxDigit() AuxDigit { return AuxDigit0 }
func (PaymentNoticeNumber1) AuxDigit() AuxDigit { return AuxDigit1 }
func (PaymentNoticeNumber2) AuxDigit() AuxDigit { return AuxDigit2 }
func (PaymentNoticeNumber3) AuxDigit() AuxDigit { return AuxDigit3 }

func (PaymentNoticeNumber0) paymentNoticeNumber() {}
func (PaymentNoticeNumber1) paymentNoticeNumber() {}
func (PaymentNoticeNumber2) paymentNoticeNumber() {}
func (PaymentNoticeNumber3) paymentNoticeNumber() {}

// Validate checks every field of the aux 0 layout
func (n PaymentNoticeNumber0) Validate() error {
	if err := checkField("applicationCode", n.ApplicationCode, twoDigitPattern, "must be exactly 2 digits"); err != nil {
		return err
	}
	if err := checkField("iuv13", n.IUV13, iuv13Pattern, "must be exactly 13 digits"); err != nil {
		return err
	}
	return checkField("checkDigit", n.CheckDigit, twoDigitPattern, "must be exactly 2 digits")
}

// Validate checks the iuv17 field
func (n PaymentNoticeNumber1) Validate() error {
	return checkField("iuv17", n.IUV17, iuv17Pattern, "must be exactly 17 digits")
}

// Validate checks every field of the aux 2 layout
func (n PaymentNoticeNumber2) Validate() error {
	if err := checkField("checkDigit", n.CheckDigit, twoDigitPattern, "must be exactly 2 digits"); err != nil {
		return err
	}
	return checkField("iuv15", n.IUV15, iuv15Pattern, "must be exactly 15 digits")
}

// Validate checks every field of the aux 3 layout
func (n PaymentNoticeNumber3) Validate() error {
	if err := checkField("segregationCode", n.SegregationCode, twoDigitPattern, "must be exactly 2 digits"); err != nil {
		return err
	}
	if err := checkField("iuv13", n.IUV13, iuv13Pattern, "must be exactly 13 digits"); err != nil {
		return err
	}
	return checkField("checkDigit", n.CheckDigit, twoDigitPattern, "must be exactly 2 digits")
}

// DecodePaymentNoticeNumber parses an 18 digit notice number, selecting the
// layout from the leading aux digit.
func DecodePaymentNoticeNumber(s string) (PaymentNoticeNumber, error) {
	if len(s) != PaymentNoticeNumberLength {
		return nil, newDecodeError("paymentNoticeNumber", s, fmt.Sprintf("must be exactly %d characters", PaymentNoticeNumberLength))
	}
	if !digitsPattern.MatchString(s) {
		return nil, newDecodeError("paymentNoticeNumber", s, "must contain digits only")
	}

	rest := s[1:]
	var n PaymentNoticeNumber
	switch AuxDigit(s[:1]) {
	case AuxDigit0:
		n = PaymentNoticeNumber0{ApplicationCode: rest[0:2], IUV13: rest[2:15], CheckDigit: rest[15:17]}
	case AuxDigit1:
		n = PaymentNoticeNumber1{IUV17: rest}
	case AuxDigit2:
		n = PaymentNoticeNumber2{CheckDigit: rest[0:2], IUV15: rest[2:17]}
	case AuxDigit3:
		n = PaymentNoticeNumber3{SegregationCode: rest[0:2], IUV13: rest[2:15], CheckDigit: rest[15:17]}
	default:
		return nil, newDecodeError("auxDigit", s[:1], "must be one of 0, 1, 2, 3")
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NoticeParts carries the fields of every layout; only the ones the aux
// digit selects are read.
type NoticeParts struct {
	ApplicationCode string
	SegregationCode string
	CheckDigit      string
	IUV13           string
	IUV15           string
	IUV17           string
}

// BuildPaymentNoticeNumber assembles and validates the layout named by aux
func BuildPaymentNoticeNumber(aux AuxDigit, p NoticeParts) (PaymentNoticeNumber, error) {
	var n PaymentNoticeNumber
	switch aux {
	case AuxDigit0:
		n = PaymentNoticeNumber0{ApplicationCode: p.ApplicationCode, IUV13: p.IUV13, CheckDigit: p.CheckDigit}
	case AuxDigit1:
		n = PaymentNoticeNumber1{IUV17: p.IUV17}
	case AuxDigit2:
		n = PaymentNoticeNumber2{CheckDigit: p.CheckDigit, IUV15: p.IUV15}
	case AuxDigit3:
		n = PaymentNoticeNumber3{SegregationCode: p.SegregationCode, IUV13: p.IUV13, CheckDigit: p.CheckDigit}
	default:
		return nil, newDecodeError("auxDigit", string(aux), "must be one of 0, 1, 2, 3")
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// EncodePaymentNoticeNumber renders the aux digit followed by the layout fields.
// n must have passed Validate.
func EncodePaymentNoticeNumber(n PaymentNoticeNumber) string {
	switch v := n.(type) {
	case PaymentNoticeNumber0:
		return string(AuxDigit0) + v.ApplicationCode + v.IUV13 + v.CheckDigit
	case PaymentNoticeNumber1:
		return string(AuxDigit1) + v.IUV17
	case PaymentNoticeNumber2:
		return string(AuxDigit2) + v.CheckDigit + v.IUV15
	case PaymentNoticeNumber3:
		return string(AuxDigit3) + v.SegregationCode + v.IUV13 + v.CheckDigit
	default:
		panic(fmt.Sprintf("domain: unknown payment notice number %T", n))
	}
}

// RptID is the PagoPA payment request identifier: creditor fiscal code plus
// payment notice number, 29 digits when encoded.
type RptID struct {
	PaymentNoticeNumber    PaymentNoticeNumber
	OrganizationFiscalCode OrganizationFiscalCode
}

// NewRptID builds an RptID from its parts, validating both
func NewRptID(org OrganizationFiscalCode, notice PaymentNoticeNumber) (RptID, error) {
	if err := org.Validate(); err != nil {
		return RptID{}, err
	}
	if notice == nil {
		return RptID{}, newDecodeError("paymentNoticeNumber", "", "is required")
	}
	if err := notice.Validate(); err != nil {
		return RptID{}, err
	}
	return RptID{OrganizationFiscalCode: org, PaymentNoticeNumber: notice}, nil
}

// DecodeRptID parses the canonical 29 digit form
func DecodeRptID(s string) (RptID, error) {
	if len(s) != RptIDLength {
		return RptID{}, newDecodeError("rptId", s, fmt.Sprintf("must be exactly %d characters", RptIDLength))
	}
	if !digitsPattern.MatchString(s) {
		return RptID{}, newDecodeError("rptId", s, "must contain digits only")
	}

	org := OrganizationFiscalCode(s[:OrganizationFiscalCodeLength])
	if err := org.Validate(); err != nil {
		return RptID{}, err
	}
	notice, err := DecodePaymentNoticeNumber(s[OrganizationFiscalCodeLength:])
	if err != nil {
		return RptID{}, err
	}
	return RptID{OrganizationFiscalCode: org, PaymentNoticeNumber: notice}, nil
}

// EncodeRptID renders the canonical 29 digit form
func EncodeRptID(id RptID) string {
	return string(id.OrganizationFiscalCode) + EncodePaymentNoticeNumber(id.PaymentNoticeNumber)
}

// String returns the canonical encoding
func (id RptID) String() string {
	return EncodeRptID(id)
}

// Equal compares two identifiers by value
func (id RptID) Equal(other RptID) bool {
	return id.OrganizationFiscalCode == other.OrganizationFiscalCode &&
		id.PaymentNoticeNumber == other.PaymentNoticeNumber
}

// MarshalText encodes the identifier so it serializes as a JSON string
func (id RptID) MarshalText() ([]byte, error) {
	if id.PaymentNoticeNumber == nil {
		return nil, newDecodeError("paymentNoticeNumber", "", "is required")
	}
	return []byte(EncodeRptID(id)), nil
}

// UnmarshalText decodes and validates the canonical form
func (id *RptID) UnmarshalText(text []byte) error {
	decoded, err := DecodeRptID(string(text))
	if err != nil {
		return err
	}
	*id = decoded
	return nil
}
