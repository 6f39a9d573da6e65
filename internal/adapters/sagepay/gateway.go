package sagepay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kevin07696/sagepay-gateway/internal/domain"
	"github.com/kevin07696/sagepay-gateway/internal/domain/ports"
	pkgerrors "github.com/kevin07696/sagepay-gateway/pkg/errors"
	"github.com/kevin07696/sagepay-gateway/pkg/observability"
	"github.com/kevin07696/sagepay-gateway/pkg/redact"
)

const (
	operationCharge    = "charge"
	operationRefund    = "refund"
	operationAuthorize = "authorize"
	operationCapture   = "capture"
	operationVoid      = "void"
)

// DefaultCurrency is used until SetCurrency is called
const DefaultCurrency = "GBP"

var (
	// ErrMissingSessionKey is returned by the session key step when the gateway sent no key
	ErrMissingSessionKey = pkgerrors.NewPaymentError(
		"MISSING_SESSION_KEY",
		"Gateway returned no merchant session key",
		pkgerrors.CategorySystemError,
		false,
	)

	// ErrMissingCardIdentifier is returned by the card identifier step when the gateway sent no identifier
	ErrMissingCardIdentifier = pkgerrors.NewPaymentError(
		"MISSING_CARD_IDENTIFIER",
		"Gateway returned no card identifier",
		pkgerrors.CategorySystemError,
		false,
	)
)

// Gateway implements ports.MerchantGateway against Sage Pay Pi
type Gateway struct {
	client *Client
	audit  ports.AuditSink
	logger ports.Logger

	mu       sync.RWMutex
	currency string
}

var _ ports.MerchantGateway = (*Gateway)(nil)

// NewGateway creates a gateway. An empty currency selects DefaultCurrency.
func NewGateway(client *Client, audit ports.AuditSink, logger ports.Logger, currency string) *Gateway {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Gateway{
		client:   client,
		audit:    audit,
		logger:   logger,
		currency: currency,
	}
}

// SetCurrency sets the ISO 4217 currency used by subsequent charges
func (g *Gateway) SetCurrency(currency string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currency = currency
}

// Currency returns the currency used for charges
func (g *Gateway) Currency() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.currency
}

// RequiresCustomerPresent reports whether the customer must be present to
// charge a stored card. Sage Pay tokens are per attempt, so it never does.
func (g *Gateway) RequiresCustomerPresent() bool {
	return false
}

// attempt holds the tokens obtained while preparing one transaction
type attempt struct {
	sessionKey     string
	cardIdentifier string
}

// step is one stage of the preparation pipeline
type step func(ctx context.Context, a *attempt) error

// runSteps runs steps in order and stops at the first failure
func runSteps(ctx context.Context, a *attempt, steps ...step) error {
	for _, s := range steps {
		if err := s(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gateway) sessionKeyStep(ctx context.Context, a *attempt) error {
	key, err := g.client.CreateSessionKey(ctx)
	if err != nil {
		return err
	}
	if key == "" {
		return ErrMissingSessionKey
	}
	a.sessionKey = key
	return nil
}

func (g *Gateway) cardIdentifierStep(card domain.CardInfo) step {
	return func(ctx context.Context, a *attempt) error {
		id, err := g.client.CreateCardIdentifier(ctx, a.sessionKey, card)
		if err != nil {
			return err
		}
		if id == "" {
			return ErrMissingCardIdentifier
		}
		a.cardIdentifier = id
		return nil
	}
}

// Charge runs a new sale: session key, card identifier, then the payment itself
func (g *Gateway) Charge(ctx context.Context, card domain.CardInfo, amount domain.Amount, invoices []domain.InvoiceAmount) (*domain.TransactionResult, error) {
	start := time.Now()
	currency := g.Currency()

	ctx, cancel := g.client.timeouts.AttemptContext(ctx)
	defer cancel()

	g.logger.Info("Processing Sage Pay charge",
		ports.String("last_four", card.LastFour()),
		ports.String("currency", currency),
		ports.Int("invoice_count", len(invoices)),
		ports.String("invoiced_total", domain.TotalInvoiced(invoices).String()),
	)

	a := &attempt{}
	prepErr := runSteps(ctx, a, g.sessionKeyStep, g.cardIdentifierStep(card))

	minor := ToMinorUnits(amount)
	req := NewProcessRequest(a.sessionKey, a.cardIdentifier, minor, currency, card)

	result, err := g.processTransaction(ctx, operationCharge, g.client.Endpoints().Process, req, prepErr)
	g.recordOutcome(operationCharge, currency, minor, result, start)
	return result, err
}

// Refund returns funds for an earlier transaction. No card data is sent, so
// only a session key is obtained before the refund is posted.
func (g *Gateway) Refund(ctx context.Context, referenceID, transactionID string, amount domain.Amount) (*domain.TransactionResult, error) {
	start := time.Now()

	ctx, cancel := g.client.timeouts.AttemptContext(ctx)
	defer cancel()

	g.logger.Info("Processing Sage Pay refund",
		ports.String("reference_id", referenceID),
		ports.String("transaction_id", transactionID),
	)

	a := &attempt{}
	prepErr := runSteps(ctx, a, g.sessionKeyStep)

	minor := ToMinorUnits(amount)
	req := NewRefundRequest(transactionID, minor)

	result, err := g.processTransaction(ctx, operationRefund, g.client.Endpoints().Refund, req, prepErr)
	if result != nil && result.IsApproved() {
		result.Status = domain.TransactionStatusRefunded
	}
	g.recordOutcome(operationRefund, g.Currency(), minor, result, start)
	return result, err
}

// Authorize is not offered by the gateway
func (g *Gateway) Authorize(context.Context, domain.CardInfo, domain.Amount, []domain.InvoiceAmount) (*domain.TransactionResult, error) {
	return g.unsupported(operationAuthorize)
}

// Capture is not offered by the gateway
func (g *Gateway) Capture(context.Context, string, string, domain.Amount, []domain.InvoiceAmount) (*domain.TransactionResult, error) {
	return g.unsupported(operationCapture)
}

// Void is not offered by the gateway
func (g *Gateway) Void(context.Context, string, string) (*domain.TransactionResult, error) {
	return g.unsupported(operationVoid)
}

func (g *Gateway) unsupported(operation string) (*domain.TransactionResult, error) {
	observability.RecordTransaction(operation, "unsupported", 0)
	g.logger.Warn("Operation not supported by Sage Pay", ports.String("operation", operation))
	return nil, pkgerrors.ErrUnsupportedOperation
}

// processTransaction posts req unless preparation failed, records both audit
// entries and classifies the response. A failed preparation is treated like a
// transport failure: the response is empty and the result is error.
func (g *Gateway) processTransaction(ctx context.Context, operation, url string, req TransactionRequest, prepErr error) (*domain.TransactionResult, error) {
	fields, payload, err := BuildFields(req)
	if err != nil {
		g.logger.Error("Failed to encode transaction", ports.String("operation", operation), ports.Err(err))
		return &domain.TransactionResult{Status: domain.TransactionStatusError}, fmt.Errorf("%w: %v", pkgerrors.ErrGatewayGeneral, err)
	}

	resp := Response{}
	if prepErr != nil {
		g.logger.Error("Transaction not submitted",
			ports.String("operation", operation),
			ports.Err(prepErr),
		)
	} else if resp, err = g.client.SubmitTransaction(ctx, url, payload); err != nil {
		// Already logged by the client; the empty response classifies as error
		resp = Response{}
	}

	classification := Classify(resp)
	g.recordAudit(ctx, url, fields, resp, classification.Status == domain.TransactionStatusApproved)

	result := &domain.TransactionResult{
		Status:        classification.Status,
		ReferenceID:   resp.String("retrievalReference"),
		TransactionID: resp.String("transactionId"),
		Message:       classification.Message,
	}

	if result.Status == domain.TransactionStatusError {
		return result, pkgerrors.ErrGatewayGeneral
	}
	return result, nil
}

// recordAudit writes the masked request and response. Sink failures are
// logged and counted but never change the result.
func (g *Gateway) recordAudit(ctx context.Context, url string, fields Fields, resp Response, success bool) {
	if g.audit == nil {
		return
	}

	now := time.Now().UTC()
	entries := []ports.AuditEntry{
		{
			URL:        url,
			Direction:  ports.AuditDirectionInput,
			Data:       redact.Mask(map[string]any(fields)),
			Success:    true,
			RecordedAt: now,
		},
		{
			URL:        url,
			Direction:  ports.AuditDirectionOutput,
			Data:       redact.Mask(map[string]any(resp)),
			Success:    success,
			RecordedAt: now,
		},
	}

	for _, entry := range entries {
		auditCtx, cancel := g.client.timeouts.AuditContext(ctx)
		err := g.audit.Record(auditCtx, entry)
		cancel()

		if err != nil {
			observability.RecordAuditFailure(string(entry.Direction))
			g.logger.Warn("Failed to record gateway audit entry",
				ports.String("url", url),
				ports.String("direction", string(entry.Direction)),
				ports.Err(err),
			)
		}
	}
}

func (g *Gateway) recordOutcome(operation, currency string, amount MinorAmount, result *domain.TransactionResult, start time.Time) {
	status := string(domain.TransactionStatusError)
	if result != nil {
		status = string(result.Status)
	}

	elapsed := time.Since(start)
	observability.RecordTransaction(operation, status, elapsed)
	if result != nil && result.IsApproved() {
		observability.RecordApprovedAmount(operation, currency, amount.Float64())
	}

	g.logger.Info("Sage Pay transaction finished",
		ports.String("operation", operation),
		ports.String("status", status),
		ports.Duration("elapsed", elapsed),
	)
}
