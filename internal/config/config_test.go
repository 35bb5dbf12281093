package config

import (
	"context"
	"testing"
	"time"

	"github.com/pagopa/pay-portal-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("IO_PAGOPA_PROXY", "http://localhost:1234/api/v1")
	t.Setenv("IO_PAY_CHALLENGE_RESUME_URL", "https://checkout.example.it/idTransaction/resume")
	t.Setenv("IO_PAY_ORIGIN", "https://checkout.example.it")
	t.Setenv("IO_PAY_XPAY_REDIRECT", "https://checkout.example.it/xpay")
	t.Setenv("PAY_PORTAL_RECAPTCHA_SECRET", "secret")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.PagoPA.Timeout)
	assert.Equal(t, "https://www.google.com", cfg.Recaptcha.Host)
	assert.Equal(t, "env", cfg.Secrets.Provider)
	assert.Equal(t, "77777777777", cfg.Probe.OrganizationFiscalCode)

	probe, err := cfg.ProbeRptID()
	require.NoError(t, err)
	assert.Equal(t, "77777777777000000000000000000", probe.String())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("IO_PAGOPA_PROXY_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_TRUSTED_PROXY_HOPS", "1")
	t.Setenv("LOG_DEVELOPMENT", "true")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.PagoPA.Timeout)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1, cfg.RateLimit.TrustedProxyHops)
	assert.True(t, cfg.Logger.Development)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadFromEnv_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IO_PAGOPA_PROXY", "")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IO_PAGOPA_PROXY is required")
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &Config{
		Secrets:   SecretsConfig{Provider: "env"},
		Probe:     ProbeConfig{OrganizationFiscalCode: "777", AuxDigit: "0"},
		RateLimit: RateLimitConfig{RequestsPerSecond: 1, Burst: 1},
	}

	problems := cfg.Validate()
	assert.Len(t, problems, 6)
	assert.Contains(t, problems, "IO_PAGOPA_PROXY is required")

	err := cfg.Check(context.Background())
	require.Error(t, err)
	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, joined.Unwrap(), 6)
}

func TestValidate_SecretNotRequiredForRemoteProviders(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAY_PORTAL_RECAPTCHA_SECRET", "")
	t.Setenv("SECRETS_PROVIDER", "vault")

	_, err := LoadFromEnv()
	assert.NoError(t, err)
}

func TestProbeRptID_Variants(t *testing.T) {
	tests := []struct {
		name  string
		probe ProbeConfig
		want  string
		aux   domain.AuxDigit
	}{
		{
			name:  "aux 0",
			probe: ProbeConfig{OrganizationFiscalCode: "77777777777", AuxDigit: "0", ApplicationCode: "01", IUV13: "1234567890123", CheckDigit: "99"},
			want:  "77777777777" + "0" + "01" + "1234567890123" + "99",
			aux:   domain.AuxDigit0,
		},
		{
			name:  "aux 1",
			probe: ProbeConfig{OrganizationFiscalCode: "77777777777", AuxDigit: "1", IUV17: "12345678901234567"},
			want:  "77777777777" + "1" + "12345678901234567",
			aux:   domain.AuxDigit1,
		},
		{
			name:  "aux 2",
			probe: ProbeConfig{OrganizationFiscalCode: "77777777777", AuxDigit: "2", CheckDigit: "44", IUV15: "012345678901200"},
			want:  "77777777777" + "2" + "44" + "012345678901200",
			aux:   domain.AuxDigit2,
		},
		{
			name:  "aux 3",
			probe: ProbeConfig{OrganizationFiscalCode: "77777777777", AuxDigit: "3", SegregationCode: "02", IUV13: "1234567890123", CheckDigit: "11"},
			want:  "77777777777" + "3" + "02" + "1234567890123" + "11",
			aux:   domain.AuxDigit3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Probe: tt.probe}
			id, err := cfg.ProbeRptID()
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.String())
			assert.Equal(t, tt.aux, id.PaymentNoticeNumber.AuxDigit())
		})
	}

	_, err := (&Config{Probe: ProbeConfig{OrganizationFiscalCode: "77777777777", AuxDigit: "9"}}).ProbeRptID()
	assert.Error(t, err)
}
