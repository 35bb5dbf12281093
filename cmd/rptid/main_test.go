package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_Decode(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"decode", "01199250158244012345678901200"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.JSONEq(t, `{
		"rptId": "01199250158244012345678901200",
		"organizationFiscalCode": "01199250158",
		"auxDigit": "2",
		"paymentNoticeNumber": {"checkDigit": "44", "iuv15": "012345678901200"}
	}`, stdout.String())
}

func TestRun_DecodeInvalid(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"decode", "0119925015824401234567890120X"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "digits only")
}

func TestRun_Encode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "aux 0",
			args: []string{"-org=77777777777", "-aux=0", "-app=01", "-iuv13=1234567890123", "-check=99"},
			want: "77777777777001123456789012399\n",
		},
		{
			name: "aux 1",
			args: []string{"-org=77777777777", "-aux=1", "-iuv17=12345678901234567"},
			want: "77777777777112345678901234567\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := run(append([]string{"encode"}, tt.args...), &stdout, &stderr)

			assert.Equal(t, 0, code, stderr.String())
			assert.Equal(t, tt.want, stdout.String())
		})
	}
}

func TestRun_EncodeRejectsBadParts(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"encode", "-org=123", "-aux=1", "-iuv17=12345678901234567"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "organizationFiscalCode")
}

func TestRun_Amount(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"amount", "1150"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.JSONEq(t, `{"amountInEuroCents":"1150","euros":"11.50"}`, stdout.String())
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 2, run(nil, &stdout, &stderr))
	assert.Equal(t, 2, run([]string{"bogus"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage: rptid")
}
