package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kevin07696/sagepay-gateway/internal/adapters/secrets"
	"github.com/kevin07696/sagepay-gateway/internal/config"
	"github.com/kevin07696/sagepay-gateway/internal/domain/ports"
)

// loadCredentials fills the integration key and password from the configured
// secret manager. With SECRET_MANAGER=env they are already set from the environment.
func loadCredentials(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.Secrets.Manager == config.SecretManagerEnv {
		return nil
	}

	sm, err := initSecretManager(ctx, cfg.Secrets, logger)
	if err != nil {
		return err
	}

	resolved, err := secrets.ResolveCredentials(ctx, sm, secrets.CredentialPaths{
		IntegrationKey:      cfg.Secrets.IntegrationKeyPath,
		IntegrationPassword: cfg.Secrets.IntegrationPasswordPath,
	})
	if err != nil {
		return err
	}

	cfg.SagePay.IntegrationKey = resolved.IntegrationKey
	cfg.SagePay.IntegrationPassword = resolved.IntegrationPassword

	logger.Info("Sage Pay credentials loaded from secret manager",
		zap.String("secret_manager", cfg.Secrets.Manager),
	)
	return nil
}

// initSecretManager builds the secret manager selected by SECRET_MANAGER
func initSecretManager(ctx context.Context, cfg config.SecretsConfig, logger *zap.Logger) (ports.SecretManager, error) {
	switch cfg.Manager {
	case config.SecretManagerLocal:
		logger.Warn("Using local file secret manager - NOT for production use!",
			zap.String("path", cfg.LocalPath),
		)
		return secrets.NewLocalSecretManager(cfg.LocalPath, logger), nil

	case config.SecretManagerAWS:
		sm, err := secrets.NewAWSSecretsManagerAdapter(ctx, &secrets.AWSSecretsManagerConfig{
			Region:   cfg.AWSRegion,
			Profile:  cfg.AWSProfile,
			Endpoint: cfg.AWSEndpoint,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init AWS Secrets Manager: %w", err)
		}
		return sm, nil

	case config.SecretManagerVault:
		vaultCfg := secrets.DefaultVaultConfig(cfg.VaultAddress)
		vaultCfg.AuthMethod = cfg.VaultAuthMethod
		vaultCfg.Token = cfg.VaultToken
		vaultCfg.RoleID = cfg.VaultRoleID
		vaultCfg.SecretID = cfg.VaultSecretID
		vaultCfg.Namespace = cfg.VaultNamespace
		vaultCfg.MountPath = cfg.VaultMountPath
		vaultCfg.KVVersion = cfg.VaultKVVersion

		sm, err := secrets.NewVaultAdapter(ctx, vaultCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("init Vault: %w", err)
		}
		return sm, nil

	default:
		return nil, fmt.Errorf("unsupported secret manager %q", cfg.Manager)
	}
}
