package ports

import (
	"context"

	"github.com/kevin07696/sagepay-gateway/internal/domain"
)

// MerchantGateway is the card-processing contract the host billing platform calls.
// Charge and Refund always return a result when the remote API was reached or
// attempted; the error is non-nil when the result needs a generic error shown.
type MerchantGateway interface {
	// Charge runs a new sale against the card
	Charge(ctx context.Context, card domain.CardInfo, amount domain.Amount, invoices []domain.InvoiceAmount) (*domain.TransactionResult, error)

	// Refund returns funds for a previous transaction
	Refund(ctx context.Context, referenceID, transactionID string, amount domain.Amount) (*domain.TransactionResult, error)

	// Authorize, Capture and Void are part of the host contract
	Authorize(ctx context.Context, card domain.CardInfo, amount domain.Amount, invoices []domain.InvoiceAmount) (*domain.TransactionResult, error)
	Capture(ctx context.Context, referenceID, transactionID string, amount domain.Amount, invoices []domain.InvoiceAmount) (*domain.TransactionResult, error)
	Void(ctx context.Context, referenceID, transactionID string) (*domain.TransactionResult, error)

	// SetCurrency sets the ISO 4217 currency for subsequent charges
	SetCurrency(currency string)
}
