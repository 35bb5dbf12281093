package secrets

import (
	"context"
	"fmt"

	"github.com/pagopa/pay-portal-service/internal/adapters/ports"
	"go.uber.org/zap"
)

// Provider names accepted by NewSecretManager
const (
	ProviderEnv   = "env"
	ProviderLocal = "local"
	ProviderAWS   = "aws"
	ProviderVault = "vault"
)

// Config selects and configures a secret backend
type Config struct {
	Provider  string
	LocalPath string
	AWS       *AWSSecretsManagerConfig
	Vault     *VaultConfig
}

// NewSecretManager builds the backend named by cfg.Provider
func NewSecretManager(ctx context.Context, cfg Config, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	switch cfg.Provider {
	case "", ProviderEnv:
		return NewEnvSecretManager(logger), nil
	case ProviderLocal:
		return NewLocalSecretManager(cfg.LocalPath, logger), nil
	case ProviderAWS:
		if cfg.AWS == nil {
			return nil, fmt.Errorf("aws secrets provider selected without configuration")
		}
		return NewAWSSecretsManagerAdapter(ctx, cfg.AWS, logger)
	case ProviderVault:
		if cfg.Vault == nil {
			return nil, fmt.Errorf("vault secrets provider selected without configuration")
		}
		return NewVaultAdapter(ctx, cfg.Vault, logger)
	default:
		return nil, fmt.Errorf("unsupported secrets provider: %s", cfg.Provider)
	}
}
