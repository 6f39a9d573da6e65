package sagepay

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/kevin07696/sagepay-gateway/pkg/errors"
	"github.com/kevin07696/sagepay-gateway/pkg/resilience"
	"github.com/kevin07696/sagepay-gateway/test/mocks"
)

var testCredentials = Credentials{
	VendorName:          "acmeltd",
	IntegrationKey:      "key",
	IntegrationPassword: "pass",
	DeveloperMode:       "true",
}

type capturedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          map[string]any
}

// newCaptureServer replies with body/status and records the single request it receives
func newCaptureServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.Authorization = r.Header.Get("Authorization")
		captured.ContentType = r.Header.Get("Content-Type")
		_ = json.Unmarshal(raw, &captured.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, captured
}

func newTestClient(baseURL string, httpClient *http.Client, logger *mocks.MockLogger) *Client {
	return NewClient(testCredentials, EndpointsFromBase(baseURL+"/api/v1"), httpClient, logger, resilience.TestTimeoutConfig())
}

func TestClient_CreateSessionKey(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusCreated, `{"merchantSessionKey":"msk-1","expiry":"2026-10-15T12:00:00.000Z"}`)
	logger := mocks.NewMockLogger()
	client := newTestClient(server.URL, server.Client(), logger)

	key, err := client.CreateSessionKey(t.Context())

	require.NoError(t, err)
	assert.Equal(t, "msk-1", key)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/api/v1/merchant-session-keys", captured.Path)
	assert.Equal(t, "Basic a2V5OnBhc3M=", captured.Authorization)
	assert.Equal(t, "application/json", captured.ContentType)
	assert.Equal(t, map[string]any{"vendorName": "acmeltd"}, captured.Body)
	assert.Len(t, logger.InfoCalls, 1)
}

func TestClient_CreateSessionKey_MissingKey(t *testing.T) {
	server, _ := newCaptureServer(t, http.StatusUnauthorized, `{"description":"Authentication failed","code":1001}`)
	client := newTestClient(server.URL, server.Client(), mocks.NewMockLogger())

	key, err := client.CreateSessionKey(t.Context())

	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestClient_CreateCardIdentifier(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusCreated, `{"cardIdentifier":"ci-1","cardType":"Visa"}`)
	client := newTestClient(server.URL, server.Client(), mocks.NewMockLogger())

	id, err := client.CreateCardIdentifier(t.Context(), "msk-1", testCard())

	require.NoError(t, err)
	assert.Equal(t, "ci-1", id)
	assert.Equal(t, "/api/v1/card-identifiers", captured.Path)
	assert.Equal(t, "Bearer msk-1", captured.Authorization)
	assert.Equal(t, map[string]any{
		"cardDetails": map[string]any{
			"cardholderName": "Jane Doe",
			"cardNumber":     "4929000000006",
			"expiryDate":     "1226",
			"securityCode":   "123",
		},
	}, captured.Body)
}

func TestClient_SubmitTransaction_DecodesErrorStatusBodies(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusUnprocessableEntity, `{"status":"Invalid","statusDetail":"Invalid card number"}`)
	client := newTestClient(server.URL, server.Client(), mocks.NewMockLogger())

	resp, err := client.SubmitTransaction(t.Context(), client.Endpoints().Process, []byte(`{"transactionType":"Payment"}`))

	require.NoError(t, err)
	assert.Equal(t, "Invalid", resp.String("status"))
	assert.Equal(t, "Invalid card number", resp.String("statusDetail"))
	assert.Equal(t, "/api/v1/transactions", captured.Path)
	assert.Equal(t, "Basic a2V5OnBhc3M=", captured.Authorization)
	assert.Equal(t, map[string]any{"transactionType": "Payment"}, captured.Body)
}

func TestClient_TransportFailures(t *testing.T) {
	tests := []struct {
		name   string
		doFunc func(req *http.Request) (*http.Response, error)
	}{
		{
			name: "connection error",
			doFunc: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("dial tcp: connection refused")
			},
		},
		{
			name: "non json body",
			doFunc: func(*http.Request) (*http.Response, error) {
				return mocks.JSONResponse(http.StatusBadGateway, "<html>Bad Gateway</html>"), nil
			},
		},
		{
			name: "empty body",
			doFunc: func(*http.Request) (*http.Response, error) {
				return mocks.JSONResponse(http.StatusNoContent, ""), nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := mocks.NewMockLogger()
			httpClient := mocks.NewMockHTTPClient(tt.doFunc)
			client := NewClient(testCredentials, EndpointsFor(EnvironmentTest), httpClient, logger, resilience.TestTimeoutConfig())

			resp, err := client.SubmitTransaction(t.Context(), client.Endpoints().Process, []byte(`{}`))

			require.Error(t, err)
			assert.NotNil(t, resp)
			assert.Empty(t, resp)
			assert.True(t, pkgerrors.IsCategory(err, pkgerrors.CategoryNetworkError))
			assert.Equal(t, 1, httpClient.CallCount())
			require.Len(t, logger.ErrorCalls, 1)
			step, _ := logger.ErrorCalls[0].Field("step")
			assert.Equal(t, stepTransaction, step)
		})
	}
}

func TestClient_RemoteCallTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(server.Close)

	timeouts := resilience.TestTimeoutConfig().WithRemoteCall(50 * time.Millisecond)
	client := NewClient(testCredentials, EndpointsFromBase(server.URL), server.Client(), mocks.NewMockLogger(), timeouts)

	start := time.Now()
	key, err := client.CreateSessionKey(t.Context())

	require.Error(t, err)
	assert.Empty(t, key)
	assert.True(t, pkgerrors.IsCategory(err, pkgerrors.CategoryNetworkError))
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewClientWithDefaults_SelectsEnvironment(t *testing.T) {
	tests := []struct {
		developerMode string
		wantProcess   string
	}{
		{developerMode: "true", wantProcess: TestBaseURL + "/transactions"},
		{developerMode: "false", wantProcess: LiveBaseURL + "/transactions"},
		{developerMode: "", wantProcess: LiveBaseURL + "/transactions"},
	}

	for _, tt := range tests {
		t.Run("mode_"+tt.developerMode, func(t *testing.T) {
			creds := testCredentials
			creds.DeveloperMode = tt.developerMode

			client := NewClientWithDefaults(creds, mocks.NewMockLogger(), nil)

			assert.Equal(t, tt.wantProcess, client.Endpoints().Process)
		})
	}
}
