package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountInEuroCents_Validate(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{name: "single digit from legacy qr code", amount: "5"},
		{name: "two digits", amount: "50"},
		{name: "ten digits", amount: "1234567890"},
		{name: "empty", amount: "", wantErr: true},
		{name: "eleven digits", amount: "12345678901", wantErr: true},
		{name: "decimal separator", amount: "10.50", wantErr: true},
		{name: "negative", amount: "-100", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAmountInEuroCents(tt.amount)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAmountInEuroCents_Euros(t *testing.T) {
	euros, err := AmountInEuroCents("1100").Euros()
	require.NoError(t, err)
	assert.True(t, euros.Equal(decimal.RequireFromString("11")))

	euros, err = AmountInEuroCents("5").Euros()
	require.NoError(t, err)
	assert.Equal(t, "0.05", euros.StringFixed(2))

	_, err = AmountInEuroCents("abc").Euros()
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
