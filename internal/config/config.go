package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pagopa/pay-portal-service/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	PagoPA    PagoPAConfig
	Recaptcha RecaptchaConfig
	Secrets   SecretsConfig
	Redirects RedirectConfig
	Probe     ProbeConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	MetricsPort     int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// PagoPAConfig holds the upstream payment proxy configuration
type PagoPAConfig struct {
	ProxyBaseURL string        // e.g. https://io-pagopa-proxy.example.it/api/v1
	Timeout      time.Duration // per request, includes reading the body
}

// RecaptchaConfig holds the siteverify configuration.
// Secret is only populated from the environment; other providers resolve SecretName at startup.
type RecaptchaConfig struct {
	Host       string
	Secret     string
	SecretName string
	Timeout    time.Duration
}

// SecretsConfig selects where the recaptcha secret is read from
type SecretsConfig struct {
	Provider       string // env, local, aws, vault
	LocalPath      string
	AWSRegion      string
	AWSProfile     string
	AWSEndpoint    string
	VaultAddress   string
	VaultAuth      string
	VaultToken     string
	VaultRoleID    string
	VaultSecretID  string
	VaultNamespace string
	VaultMountPath string
	CacheTTL       time.Duration
}

// RedirectConfig holds the browser redirect targets
type RedirectConfig struct {
	XPayRedirect       string // contains _id_, _resumeType_ and _queryParams_ placeholders
	ChallengeResumeURL string // contains the idTransaction placeholder
	Origin             string
}

// ProbeConfig holds the parts of the synthetic RptId used by liveness probes
type ProbeConfig struct {
	OrganizationFiscalCode string
	AuxDigit               string
	ApplicationCode        string
	SegregationCode        string
	CheckDigit             string
	IUV13                  string
	IUV15                  string
	IUV17                  string
}

// RateLimitConfig holds the per client IP limits of the public API
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	// TrustedProxyHops is the number of proxies appending to X-Forwarded-For
	TrustedProxyHops int
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func LoadFromEnv() (*Config, error) {
	// Missing .env is expected outside local development
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("PORT", 8080),
			Host:            getEnv("HOST", "0.0.0.0"),
			MetricsPort:     getEnvAsInt("METRICS_PORT", 9090),
			ReadTimeout:     getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		PagoPA: PagoPAConfig{
			ProxyBaseURL: getEnv("IO_PAGOPA_PROXY", ""),
			Timeout:      getEnvAsDuration("IO_PAGOPA_PROXY_TIMEOUT", 30*time.Second),
		},
		Recaptcha: RecaptchaConfig{
			Host:       getEnv("RECAPTCHA_HOST", "https://www.google.com"),
			Secret:     getEnv("PAY_PORTAL_RECAPTCHA_SECRET", ""),
			SecretName: getEnv("RECAPTCHA_SECRET_NAME", "PAY_PORTAL_RECAPTCHA_SECRET"),
			Timeout:    getEnvAsDuration("RECAPTCHA_TIMEOUT", 10*time.Second),
		},
		Secrets: SecretsConfig{
			Provider:       getEnv("SECRETS_PROVIDER", "env"),
			LocalPath:      getEnv("SECRETS_LOCAL_PATH", "./secrets"),
			AWSRegion:      getEnv("AWS_REGION", "eu-south-1"),
			AWSProfile:     getEnv("AWS_PROFILE", ""),
			AWSEndpoint:    getEnv("AWS_SECRETS_ENDPOINT", ""),
			VaultAddress:   getEnv("VAULT_ADDR", ""),
			VaultAuth:      getEnv("VAULT_AUTH_METHOD", "token"),
			VaultToken:     getEnv("VAULT_TOKEN", ""),
			VaultRoleID:    getEnv("VAULT_ROLE_ID", ""),
			VaultSecretID:  getEnv("VAULT_SECRET_ID", ""),
			VaultNamespace: getEnv("VAULT_NAMESPACE", ""),
			VaultMountPath: getEnv("VAULT_MOUNT_PATH", "secret"),
			CacheTTL:       getEnvAsDuration("SECRETS_CACHE_TTL", 5*time.Minute),
		},
		Redirects: RedirectConfig{
			XPayRedirect:       getEnv("IO_PAY_XPAY_REDIRECT", ""),
			ChallengeResumeURL: getEnv("IO_PAY_CHALLENGE_RESUME_URL", ""),
			Origin:             getEnv("IO_PAY_ORIGIN", ""),
		},
		Probe: ProbeConfig{
			OrganizationFiscalCode: getEnv("TEST_ORGANIZATION_FISCAL_CODE", "77777777777"),
			AuxDigit:               getEnv("TEST_AUX_DIGIT", "0"),
			ApplicationCode:        getEnv("TEST_APPLICATION_CODE", "00"),
			SegregationCode:        getEnv("TEST_SEGREGATION_CODE", "00"),
			CheckDigit:             getEnv("TEST_CHECK_DIGIT", "00"),
			IUV13:                  getEnv("TEST_IUV13", "0000000000000"),
			IUV15:                  getEnv("TEST_IUV15", "000000000000000"),
			IUV17:                  getEnv("TEST_IUV17", "00000000000000000"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 20),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 40),
			TrustedProxyHops:  getEnvAsInt("RATE_LIMIT_TRUSTED_PROXY_HOPS", 0),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
}

// Validate reports every configuration problem, one message per problem
func (c *Config) Validate() []string {
	var problems []string

	required := []struct {
		key   string
		value string
	}{
		{"IO_PAGOPA_PROXY", c.PagoPA.ProxyBaseURL},
		{"IO_PAY_CHALLENGE_RESUME_URL", c.Redirects.ChallengeResumeURL},
		{"IO_PAY_ORIGIN", c.Redirects.Origin},
		{"IO_PAY_XPAY_REDIRECT", c.Redirects.XPayRedirect},
	}
	for _, r := range required {
		if r.value == "" {
			problems = append(problems, fmt.Sprintf("%s is required", r.key))
		}
	}

	if c.Secrets.Provider == "env" && c.Recaptcha.Secret == "" {
		problems = append(problems, "PAY_PORTAL_RECAPTCHA_SECRET is required")
	}

	if _, err := c.ProbeRptID(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid probe RptId: %v", err))
	}

	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		problems = append(problems, "rate limit must be positive")
	}
	if c.RateLimit.TrustedProxyHops < 0 {
		problems = append(problems, "trusted proxy hops must not be negative")
	}

	return problems
}

// Check returns the Validate problems as one joined error, nil when valid
func (c *Config) Check(_ context.Context) error {
	problems := c.Validate()
	if len(problems) == 0 {
		return nil
	}
	errs := make([]error, len(problems))
	for i, p := range problems {
		errs[i] = errors.New(p)
	}
	return errors.Join(errs...)
}

// ProbeRptID builds the synthetic RptId from the TEST_* parts.
// The aux digit selects which parts are used.
func (c *Config) ProbeRptID() (domain.RptID, error) {
	p := c.Probe

	notice, err := domain.BuildPaymentNoticeNumber(domain.AuxDigit(p.AuxDigit), domain.NoticeParts{
		ApplicationCode: p.ApplicationCode,
		SegregationCode: p.SegregationCode,
		CheckDigit:      p.CheckDigit,
		IUV13:           p.IUV13,
		IUV15:           p.IUV15,
		IUV17:           p.IUV17,
	})
	if err != nil {
		return domain.RptID{}, err
	}

	return domain.NewRptID(domain.OrganizationFiscalCode(p.OrganizationFiscalCode), notice)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
