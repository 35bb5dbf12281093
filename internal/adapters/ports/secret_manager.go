package ports

import (
	"context"
)

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value     string            // The secret value (e.g., recaptcha key)
	Version   string            // Secret version identifier
	Metadata  map[string]string // Additional secret metadata
	CreatedAt string            // When this version was created
}

// SecretManagerAdapter defines the port for reading secrets from a secret management service.
// Backends: environment, local filesystem, AWS Secrets Manager, HashiCorp Vault.
type SecretManagerAdapter interface {
	// GetSecret retrieves a secret by its path/name
	// Path format depends on implementation:
	//   - Env: environment variable name
	//   - Local: file path relative to the base directory
	//   - AWS: "pay-portal/recaptcha-secret" or full ARN
	//   - Vault: "pay-portal/recaptcha" (read under secret/data/)
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
