package main

import (
	"context"

	"github.com/pagopa/pay-portal-service/internal/adapters/ports"
	"github.com/pagopa/pay-portal-service/internal/adapters/secrets"
	"github.com/pagopa/pay-portal-service/internal/config"
	"go.uber.org/zap"
)

// initSecretManager initializes the secret backend named by SECRETS_PROVIDER
// Supports:
//   - env (default): the secret is read from the environment variable RECAPTCHA_SECRET_NAME
//   - local: files under SECRETS_LOCAL_PATH
//   - aws: AWS Secrets Manager in AWS_REGION
//   - vault: HashiCorp Vault KV at VAULT_ADDR
func initSecretManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	sc := cfg.Secrets

	factoryCfg := secrets.Config{
		Provider:  sc.Provider,
		LocalPath: sc.LocalPath,
	}

	switch sc.Provider {
	case secrets.ProviderAWS:
		aws := secrets.DefaultAWSSecretsManagerConfig(sc.AWSRegion)
		aws.Profile = sc.AWSProfile
		aws.Endpoint = sc.AWSEndpoint
		aws.CacheTTL = sc.CacheTTL
		factoryCfg.AWS = aws
	case secrets.ProviderVault:
		vault := secrets.DefaultVaultConfig(sc.VaultAddress)
		vault.AuthMethod = sc.VaultAuth
		vault.Token = sc.VaultToken
		vault.RoleID = sc.VaultRoleID
		vault.SecretID = sc.VaultSecretID
		vault.Namespace = sc.VaultNamespace
		vault.MountPath = sc.VaultMountPath
		vault.CacheTTL = sc.CacheTTL
		factoryCfg.Vault = vault
	case secrets.ProviderEnv, "":
		logger.Warn("Reading recaptcha secret from the environment - prefer a secret manager in production")
	}

	return secrets.NewSecretManager(ctx, factoryCfg, logger)
}
