package sagepay

import "encoding/base64"

// Credentials holds the Sage Pay account settings for one adapter instance
type Credentials struct {
	VendorName          string
	IntegrationKey      string // Encrypted at rest by the host
	IntegrationPassword string // Encrypted at rest by the host
	DeveloperMode       string // "true" posts to the sandbox, "false" or unset to live
}

// BasicAuthorization returns the Authorization header used for session keys and transactions
func (c Credentials) BasicAuthorization() string {
	token := base64.StdEncoding.EncodeToString([]byte(c.IntegrationKey + ":" + c.IntegrationPassword))
	return "Basic " + token
}

// Environment returns the remote environment selected by the developer mode flag
func (c Credentials) Environment() Environment {
	return EnvironmentFor(c.DeveloperMode)
}

// BearerAuthorization returns the Authorization header used for card identifiers
func BearerAuthorization(merchantSessionKey string) string {
	return "Bearer " + merchantSessionKey
}
