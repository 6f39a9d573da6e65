package sagepay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironmentFor(t *testing.T) {
	tests := []struct {
		developerMode string
		want          Environment
	}{
		{developerMode: "", want: EnvironmentLive},
		{developerMode: "false", want: EnvironmentLive},
		{developerMode: "true", want: EnvironmentTest},
		{developerMode: "TRUE", want: EnvironmentTest},
		{developerMode: "False", want: EnvironmentTest},
		{developerMode: "0", want: EnvironmentTest},
		{developerMode: "no", want: EnvironmentTest},
	}

	for _, tt := range tests {
		t.Run("mode_"+tt.developerMode, func(t *testing.T) {
			assert.Equal(t, tt.want, EnvironmentFor(tt.developerMode))
			assert.Equal(t, tt.want, Credentials{DeveloperMode: tt.developerMode}.Environment())
		})
	}
}

func TestEndpointsFor(t *testing.T) {
	live := EndpointsFor(EnvironmentLive)
	assert.Equal(t, Endpoints{
		Process:    "https://pi-live.sagepay.com/api/v1/transactions",
		Refund:     "https://pi-live.sagepay.com/api/v1/transactions",
		Identifier: "https://pi-live.sagepay.com/api/v1/card-identifiers",
		Session:    "https://pi-live.sagepay.com/api/v1/merchant-session-keys",
	}, live)

	test := EndpointsFor(EnvironmentTest)
	assert.Equal(t, "https://pi-test.sagepay.com/api/v1/transactions", test.Process)
	assert.Equal(t, "https://pi-test.sagepay.com/api/v1/merchant-session-keys", test.Session)
}

func TestAuthorizationHeaders(t *testing.T) {
	creds := Credentials{IntegrationKey: "key", IntegrationPassword: "pass"}

	assert.Equal(t, "Basic a2V5OnBhc3M=", creds.BasicAuthorization())
	assert.Equal(t, "Bearer msk-1", BearerAuthorization("msk-1"))
}
