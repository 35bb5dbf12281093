package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pagopa/pay-portal-service/internal/adapters/pagopa"
	"github.com/pagopa/pay-portal-service/internal/adapters/ports"
	"github.com/pagopa/pay-portal-service/internal/adapters/recaptcha"
	"github.com/pagopa/pay-portal-service/internal/config"
	infoHandler "github.com/pagopa/pay-portal-service/internal/handlers/info"
	paymentHandler "github.com/pagopa/pay-portal-service/internal/handlers/payment"
	transactionHandler "github.com/pagopa/pay-portal-service/internal/handlers/transaction"
	internalmw "github.com/pagopa/pay-portal-service/internal/middleware"
	paymentService "github.com/pagopa/pay-portal-service/internal/services/payment"
	httpclient "github.com/pagopa/pay-portal-service/pkg/http"
	"github.com/pagopa/pay-portal-service/pkg/middleware"
	"github.com/pagopa/pay-portal-service/pkg/observability"
	"github.com/pagopa/pay-portal-service/pkg/resilience"
	"github.com/pagopa/pay-portal-service/pkg/security"
	"github.com/pagopa/pay-portal-service/pkg/shutdown"
)

const serviceName = "pay-portal-service"

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		// no logger config without a config, fall back to production defaults
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger := initLogger(cfg.Logger)
	defer logger.Sync()

	logger.Info("Starting pay portal service",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("pagopa_proxy", cfg.PagoPA.ProxyBaseURL),
		zap.String("secrets_provider", cfg.Secrets.Provider),
	)

	ctx := context.Background()

	timeouts := timeoutConfig(cfg)
	if err := timeouts.Validate(); err != nil {
		logger.Fatal("Invalid timeout configuration", zap.Error(err))
	}

	recaptchaSecret, err := loadRecaptchaSecret(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to resolve recaptcha secret", zap.Error(err))
	}

	probeRptID, err := cfg.ProbeRptID()
	if err != nil {
		logger.Fatal("Invalid probe RptId", zap.Error(err))
	}

	portsLogger := security.NewZapLogger(logger)

	proxyConfig := pagopa.DefaultProxyClientConfig(cfg.PagoPA.ProxyBaseURL)
	proxyConfig.Timeout = timeouts.PagoPAProxy
	proxy := pagopa.NewProxyClient(
		proxyConfig,
		httpclient.NewHTTPClient(httpclient.PagoPAProxyClientConfig(), timeouts.PagoPAProxy),
		portsLogger.WithPrefix("PagoPAProxyClient"),
	)

	verifierConfig := recaptcha.DefaultVerifierConfig()
	verifierConfig.Host = cfg.Recaptcha.Host
	verifierConfig.Timeout = timeouts.Recaptcha
	verifier := recaptcha.NewVerifier(
		verifierConfig,
		httpclient.NewHTTPClient(httpclient.RecaptchaClientConfig(), timeouts.Recaptcha),
		portsLogger.WithPrefix("RecaptchaVerifier"),
	)

	service := paymentService.NewService(proxy, verifier, paymentService.Config{
		ProbeRptID:      probeRptID,
		RecaptchaSecret: recaptchaSecret,
	}, portsLogger)

	healthChecker := observability.NewHealthChecker(timeouts.HealthProbe,
		observability.Check{Name: "Config", Probe: cfg.Check},
		observability.Check{Name: "PagoPAProxy", Probe: proxy.Ping},
	)

	mux := http.NewServeMux()
	paymentHandler.NewHandler(service, logger).RegisterRoutes(mux)
	infoHandler.NewHandler(healthChecker, infoHandler.ServerInfo{Name: serviceName, Version: version}, logger).RegisterRoutes(mux)
	transactionHandler.NewHandler(transactionHandler.RedirectConfig{
		XPayRedirect:       cfg.Redirects.XPayRedirect,
		ChallengeResumeURL: cfg.Redirects.ChallengeResumeURL,
	}, logger).RegisterRoutes(mux)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst).
		TrustProxyHops(cfg.RateLimit.TrustedProxyHops)
	tracker := shutdown.NewInFlightTracker("api", logger)

	// The metrics middleware wraps the mux directly so it sees the matched pattern
	var handler http.Handler = observability.HTTPMetricsMiddleware(mux)
	handler = middleware.HandlerTimeout(timeouts, logger)(handler)
	handler = tracker.Middleware(handler)
	handler = rateLimiter.Middleware(handler)
	handler = internalmw.NewSecurityHeaders(cfg.Logger.Development).Middleware(handler)
	handler = internalmw.RequestID(logger)(handler)

	apiServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  2 * cfg.Server.ReadTimeout,
	}

	metricsServer := observability.StartMetricsServer(fmt.Sprintf("%d", cfg.Server.MetricsPort), healthChecker, logger)

	go func() {
		logger.Info("API server listening", zap.String("address", apiServer.Addr))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	// Components stop in reverse registration order
	sm := shutdown.NewManager(logger, cfg.Server.ShutdownTimeout)
	sm.RegisterNoErr("rate-limiter", rateLimiter.Shutdown)
	sm.RegisterHTTPServer("metrics-server", metricsServer)
	sm.RegisterHTTPServer("api-server", apiServer)
	sm.Register("in-flight-requests", tracker.Shutdown)

	sm.WaitForShutdown()
	logger.Info("Servers stopped")
}

// initLogger builds the zap logger from the logging configuration
func initLogger(cfg config.LoggerConfig) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger.With(zap.String("service", serviceName))
}

// timeoutConfig derives the timeout hierarchy from the server and upstream settings
func timeoutConfig(cfg *config.Config) *resilience.TimeoutConfig {
	timeouts := resilience.DefaultTimeoutConfig()
	timeouts.PagoPAProxy = cfg.PagoPA.Timeout
	timeouts.Recaptcha = cfg.Recaptcha.Timeout
	// leave headroom to write the problem response before the server write deadline
	if handler := cfg.Server.WriteTimeout - 5*time.Second; handler > 0 {
		timeouts.HTTPHandler = handler
	}
	return timeouts
}

// loadRecaptchaSecret reads the siteverify secret from the configured provider
func loadRecaptchaSecret(ctx context.Context, cfg *config.Config, logger *zap.Logger) (string, error) {
	sm, err := initSecretManager(ctx, cfg, logger)
	if err != nil {
		return "", err
	}

	secret, err := getSecret(ctx, sm, cfg.Recaptcha.SecretName)
	if err != nil {
		return "", err
	}

	logger.Info("Recaptcha secret loaded",
		zap.String("provider", cfg.Secrets.Provider),
		zap.String("name", cfg.Recaptcha.SecretName),
		zap.String("version", secret.Version),
	)
	return secret.Value, nil
}

func getSecret(ctx context.Context, sm ports.SecretManagerAdapter, name string) (*ports.Secret, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	secret, err := sm.GetSecret(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("read secret %q: %w", name, err)
	}
	if secret.Value == "" {
		return nil, fmt.Errorf("secret %q is empty", name)
	}
	return secret, nil
}
