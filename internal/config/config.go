package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Secret manager backends for the integration credentials
const (
	SecretManagerEnv   = "env"
	SecretManagerLocal = "local"
	SecretManagerAWS   = "aws"
	SecretManagerVault = "vault"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	SagePay SagePayConfig
	Audit   AuditConfig
	Secrets SecretsConfig
	Logger  LoggerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int
	Host        string
	MetricsPort int
	RateLimit   float64 // Requests per second per client IP
	RateBurst   int
}

// SagePayConfig holds Sage Pay account configuration
type SagePayConfig struct {
	VendorName          string
	IntegrationKey      string // Empty when read from a secret manager
	IntegrationPassword string // Empty when read from a secret manager
	DeveloperMode       string // "true" or "false"; unset means live
	Currency            string // ISO 4217 code (default: GBP)
	Timeout             int    // Per remote call timeout in seconds (default: 30)
}

// AuditConfig holds gateway audit log configuration
type AuditConfig struct {
	DatabaseURL string // Optional; audit entries are only logged when empty
	MaxConns    int32
}

// SecretsConfig selects where the integration credentials come from
type SecretsConfig struct {
	Manager                 string // env, local, aws or vault
	IntegrationKeyPath      string
	IntegrationPasswordPath string

	LocalPath string

	AWSRegion   string
	AWSProfile  string
	AWSEndpoint string

	VaultAddress    string
	VaultAuthMethod string
	VaultToken      string
	VaultRoleID     string
	VaultSecretID   string
	VaultNamespace  string
	VaultMountPath  string
	VaultKVVersion  string
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables.
// Credentials are not validated here since they may still have to be read
// from a secret manager; call SagePayConfig.Validate once they are resolved.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvAsInt("HTTP_PORT", 8080),
			Host:        getEnv("HTTP_HOST", "0.0.0.0"),
			MetricsPort: getEnvAsInt("METRICS_PORT", 9090),
			RateLimit:   getEnvAsFloat("SAGEPAY_RATE_LIMIT", 20),
			RateBurst:   getEnvAsInt("SAGEPAY_RATE_BURST", 40),
		},
		SagePay: SagePayConfig{
			VendorName:          getEnv("SAGEPAY_VENDOR_NAME", ""),
			IntegrationKey:      getEnv("SAGEPAY_INTEGRATION_KEY", ""),
			IntegrationPassword: getEnv("SAGEPAY_INTEGRATION_PASSWORD", ""),
			DeveloperMode:       getEnv("SAGEPAY_DEVELOPER_MODE", ""),
			Currency:            strings.ToUpper(getEnv("SAGEPAY_CURRENCY", "GBP")),
			Timeout:             getEnvAsInt("SAGEPAY_TIMEOUT", 30),
		},
		Audit: AuditConfig{
			DatabaseURL: getEnv("AUDIT_DATABASE_URL", ""),
			MaxConns:    int32(getEnvAsInt("AUDIT_DB_MAX_CONNS", 5)),
		},
		Secrets: SecretsConfig{
			Manager:                 getEnv("SECRET_MANAGER", SecretManagerEnv),
			IntegrationKeyPath:      getEnv("SAGEPAY_INTEGRATION_KEY_PATH", "sagepay/integration_key"),
			IntegrationPasswordPath: getEnv("SAGEPAY_INTEGRATION_PASSWORD_PATH", "sagepay/integration_password"),
			LocalPath:               getEnv("LOCAL_SECRETS_PATH", "./secrets"),
			AWSRegion:               getEnv("AWS_REGION", "eu-west-2"),
			AWSProfile:              getEnv("AWS_PROFILE", ""),
			AWSEndpoint:             getEnv("AWS_SECRETS_ENDPOINT", ""),
			VaultAddress:            getEnv("VAULT_ADDR", ""),
			VaultAuthMethod:         getEnv("VAULT_AUTH_METHOD", "token"),
			VaultToken:              getEnv("VAULT_TOKEN", ""),
			VaultRoleID:             getEnv("VAULT_ROLE_ID", ""),
			VaultSecretID:           getEnv("VAULT_SECRET_ID", ""),
			VaultNamespace:          getEnv("VAULT_NAMESPACE", ""),
			VaultMountPath:          getEnv("VAULT_MOUNT_PATH", "secret"),
			VaultKVVersion:          getEnv("VAULT_KV_VERSION", "v2"),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	switch cfg.Secrets.Manager {
	case SecretManagerEnv, SecretManagerLocal, SecretManagerAWS:
	case SecretManagerVault:
		if cfg.Secrets.VaultAddress == "" {
			return nil, fmt.Errorf("VAULT_ADDR is required when SECRET_MANAGER=vault")
		}
	default:
		return nil, fmt.Errorf("SECRET_MANAGER must be one of env, local, aws, vault (got %q)", cfg.Secrets.Manager)
	}

	if len(cfg.SagePay.Currency) != 3 {
		return nil, fmt.Errorf("SAGEPAY_CURRENCY must be a 3 letter ISO 4217 code (got %q)", cfg.SagePay.Currency)
	}
	if cfg.SagePay.Timeout <= 0 {
		return nil, fmt.Errorf("SAGEPAY_TIMEOUT must be positive")
	}
	if cfg.Server.RateLimit <= 0 || cfg.Server.RateBurst <= 0 {
		return nil, fmt.Errorf("SAGEPAY_RATE_LIMIT and SAGEPAY_RATE_BURST must be positive")
	}

	return cfg, nil
}

// Settings returns the account settings in the host platform's form.
// developer_mode is only present when it was configured.
func (c *SagePayConfig) Settings() map[string]string {
	meta := map[string]string{
		SettingVendorName:          c.VendorName,
		SettingIntegrationKey:      c.IntegrationKey,
		SettingIntegrationPassword: c.IntegrationPassword,
	}
	if c.DeveloperMode != "" {
		meta[SettingDeveloperMode] = c.DeveloperMode
	}
	return meta
}

// Validate runs the settings rules and applies the developer_mode default
func (c *SagePayConfig) Validate() error {
	meta, err := ValidateSettings(c.Settings())
	if err != nil {
		return err
	}
	c.DeveloperMode = meta[SettingDeveloperMode]
	return nil
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
