package sagepay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kevin07696/sagepay-gateway/internal/domain"
	"github.com/kevin07696/sagepay-gateway/internal/domain/ports"
	pkgerrors "github.com/kevin07696/sagepay-gateway/pkg/errors"
	httpclient "github.com/kevin07696/sagepay-gateway/pkg/http"
	"github.com/kevin07696/sagepay-gateway/pkg/observability"
	"github.com/kevin07696/sagepay-gateway/pkg/resilience"
)

// Remote steps, used as log and metric labels
const (
	stepSessionKey     = "session_key"
	stepCardIdentifier = "card_identifier"
	stepTransaction    = "transaction"
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 1 << 20

type sessionKeyRequest struct {
	VendorName string `json:"vendorName"`
}

type cardDetails struct {
	CardholderName string `json:"cardholderName"`
	CardNumber     string `json:"cardNumber"`
	ExpiryDate     string `json:"expiryDate"`
	SecurityCode   string `json:"securityCode"`
}

type cardIdentifierRequest struct {
	CardDetails cardDetails `json:"cardDetails"`
}

// Client posts to the Sage Pay Pi API. It holds no per-attempt state and is
// safe for concurrent use.
type Client struct {
	credentials Credentials
	endpoints   Endpoints
	httpClient  ports.HTTPClient
	logger      ports.Logger
	timeouts    *resilience.TimeoutConfig
}

// NewClient creates a client posting to the given endpoints
func NewClient(credentials Credentials, endpoints Endpoints, httpClient ports.HTTPClient, logger ports.Logger, timeouts *resilience.TimeoutConfig) *Client {
	if timeouts == nil {
		timeouts = resilience.DefaultTimeoutConfig()
	}
	return &Client{
		credentials: credentials,
		endpoints:   endpoints,
		httpClient:  httpClient,
		logger:      logger,
		timeouts:    timeouts,
	}
}

// NewClientWithDefaults creates a client for the environment selected by the
// credentials, using the tuned Sage Pay HTTP transport
func NewClientWithDefaults(credentials Credentials, logger ports.Logger, timeouts *resilience.TimeoutConfig) *Client {
	if timeouts == nil {
		timeouts = resilience.DefaultTimeoutConfig()
	}
	httpClient := httpclient.NewHTTPClient(httpclient.SagePayClientConfig(), timeouts.RemoteCall)
	return NewClient(credentials, EndpointsFor(credentials.Environment()), httpClient, logger, timeouts)
}

// Endpoints returns the URLs the client posts to
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// CreateSessionKey obtains a merchant session key. The key is "" when the
// response did not carry one.
func (c *Client) CreateSessionKey(ctx context.Context) (string, error) {
	payload, err := json.Marshal(sessionKeyRequest{VendorName: c.credentials.VendorName})
	if err != nil {
		return "", fmt.Errorf("marshal session key request: %w", err)
	}

	resp, err := c.post(ctx, stepSessionKey, c.endpoints.Session, c.credentials.BasicAuthorization(), payload)
	if err != nil {
		return "", err
	}
	return resp.String("merchantSessionKey"), nil
}

// CreateCardIdentifier tokenizes the card under a session key. The identifier
// is "" when the response did not carry one.
func (c *Client) CreateCardIdentifier(ctx context.Context, sessionKey string, card domain.CardInfo) (string, error) {
	payload, err := json.Marshal(cardIdentifierRequest{CardDetails: cardDetails{
		CardholderName: card.CardholderName(),
		CardNumber:     card.CardNumber,
		ExpiryDate:     expiryMMYY(card.CardExp),
		SecurityCode:   card.SecurityCode,
	}})
	if err != nil {
		return "", fmt.Errorf("marshal card identifier request: %w", err)
	}

	resp, err := c.post(ctx, stepCardIdentifier, c.endpoints.Identifier, BearerAuthorization(sessionKey), payload)
	if err != nil {
		return "", err
	}
	return resp.String("cardIdentifier"), nil
}

// SubmitTransaction posts a transaction payload. On a transport failure the
// returned response is empty and the error describes the failure.
func (c *Client) SubmitTransaction(ctx context.Context, url string, payload []byte) (Response, error) {
	return c.post(ctx, stepTransaction, url, c.credentials.BasicAuthorization(), payload)
}

// post sends one JSON request. The body is decoded whatever the HTTP status,
// since Sage Pay reports declines and validation failures in 4xx bodies.
func (c *Client) post(ctx context.Context, step, url, authorization string, payload []byte) (Response, error) {
	callCtx, cancel := c.timeouts.RemoteCallContext(ctx)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Response{}, c.transportFailure(step, url, start, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", authorization)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, c.transportFailure(step, url, start, fmt.Errorf("send request: %w", err))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return Response{}, c.transportFailure(step, url, start, fmt.Errorf("read response: %w", err))
	}

	resp, err := decodeResponse(body)
	if err != nil {
		return Response{}, c.transportFailure(step, url, start, fmt.Errorf("http %d: %w", httpResp.StatusCode, err))
	}

	elapsed := time.Since(start)
	observability.RecordRemoteCall(step, "ok", elapsed)
	c.logger.Info("Sage Pay call completed",
		ports.String("step", step),
		ports.String("url", url),
		ports.Int("status_code", httpResp.StatusCode),
		ports.Duration("elapsed", elapsed),
	)

	return resp, nil
}

func (c *Client) transportFailure(step, url string, start time.Time, err error) error {
	elapsed := time.Since(start)
	observability.RecordRemoteCall(step, "transport_error", elapsed)
	c.logger.Error("Sage Pay call failed",
		ports.String("step", step),
		ports.String("url", url),
		ports.Duration("elapsed", elapsed),
		ports.Err(err),
	)

	return pkgerrors.WrapPaymentError(
		"NETWORK_ERROR",
		"Failed to reach payment gateway",
		pkgerrors.CategoryNetworkError,
		true,
		fmt.Errorf("%s: %w", step, err),
	)
}
