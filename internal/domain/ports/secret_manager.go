package ports

import "context"

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value     string            // The secret value (e.g., integration password)
	Version   string            // Secret version identifier
	Metadata  map[string]string // Additional secret metadata
	CreatedAt string            // When this version was created
}

// SecretManager retrieves gateway credentials from a secret store.
// Path format depends on implementation:
//   - Local: file path relative to the base directory
//   - AWS: secret name or full ARN
//   - Vault: path under the KV mount, e.g. "sagepay/integration_key"
type SecretManager interface {
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
