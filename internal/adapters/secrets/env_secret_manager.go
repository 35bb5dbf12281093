package secrets

import (
	"context"
	"fmt"
	"os"

	"github.com/pagopa/pay-portal-service/internal/adapters/ports"
	"go.uber.org/zap"
)

// envSecretManager reads secrets from environment variables; the path is the variable name
type envSecretManager struct {
	lookup func(string) (string, bool)
	logger *zap.Logger
}

// NewEnvSecretManager creates a secret manager backed by the process environment
func NewEnvSecretManager(logger *zap.Logger) ports.SecretManagerAdapter {
	return &envSecretManager{lookup: os.LookupEnv, logger: logger}
}

func (m *envSecretManager) GetSecret(ctx context.Context, name string) (*ports.Secret, error) {
	value, ok := m.lookup(name)
	if !ok || value == "" {
		return nil, fmt.Errorf("secret not found: %s", name)
	}

	m.logger.Debug("Secret read from environment", zap.String("name", name))

	return &ports.Secret{
		Value:   value,
		Version: "env",
	}, nil
}
