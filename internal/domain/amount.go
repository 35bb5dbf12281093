package domain

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// Legacy QR codes carry single digit amounts, so the lower bound is 1 instead of 2.
const (
	MinAmountDigits = 1
	MaxAmountDigits = 10
	CentsInOneEuro  = 100
)

// ErrInvalidAmount is returned for amounts outside the notice pattern
var ErrInvalidAmount = errors.New("invalid amount in euro cents")

var amountInEuroCentsPattern = regexp.MustCompile(fmt.Sprintf(`^[0-9]{%d,%d}$`, MinAmountDigits, MaxAmountDigits))

// AmountInEuroCents is an amount string as printed on payment notices
type AmountInEuroCents string

// Validate checks the amount against the 1 to 10 digit pattern
func (a AmountInEuroCents) Validate() error {
	if !amountInEuroCentsPattern.MatchString(string(a)) {
		return fmt.Errorf("%w: %q must be %d to %d digits", ErrInvalidAmount, string(a), MinAmountDigits, MaxAmountDigits)
	}
	return nil
}

// ParseAmountInEuroCents validates s and returns it as an amount
func ParseAmountInEuroCents(s string) (AmountInEuroCents, error) {
	a := AmountInEuroCents(s)
	if err := a.Validate(); err != nil {
		return "", err
	}
	return a, nil
}

// Euros converts the cents amount into euros
func (a AmountInEuroCents) Euros() (decimal.Decimal, error) {
	if err := a.Validate(); err != nil {
		return decimal.Zero, err
	}
	cents, err := decimal.NewFromString(string(a))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount: %w", err)
	}
	return cents.Div(decimal.NewFromInt(CentsInOneEuro)), nil
}
