package secrets

import (
	"context"
	"fmt"

	"github.com/kevin07696/sagepay-gateway/internal/domain/ports"
)

// CredentialPaths locates the Sage Pay integration credentials in a secret store
type CredentialPaths struct {
	IntegrationKey      string
	IntegrationPassword string
}

// ResolvedCredentials holds the integration credentials read from a secret store
type ResolvedCredentials struct {
	IntegrationKey      string
	IntegrationPassword string
}

// ResolveCredentials reads both integration credentials. Either both are
// returned or an error naming the failing path.
func ResolveCredentials(ctx context.Context, sm ports.SecretManager, paths CredentialPaths) (*ResolvedCredentials, error) {
	key, err := sm.GetSecret(ctx, paths.IntegrationKey)
	if err != nil {
		return nil, fmt.Errorf("resolve integration key (%s): %w", paths.IntegrationKey, err)
	}

	password, err := sm.GetSecret(ctx, paths.IntegrationPassword)
	if err != nil {
		return nil, fmt.Errorf("resolve integration password (%s): %w", paths.IntegrationPassword, err)
	}

	return &ResolvedCredentials{
		IntegrationKey:      key.Value,
		IntegrationPassword: password.Value,
	}, nil
}
