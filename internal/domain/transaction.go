package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the normalized outcome reported to the host platform
type TransactionStatus string

const (
	TransactionStatusApproved TransactionStatus = "approved" // Gateway reported status OK
	TransactionStatusDeclined TransactionStatus = "declined" // Gateway reported any other status
	TransactionStatusError    TransactionStatus = "error"    // No recognizable status in the response
	TransactionStatusRefunded TransactionStatus = "refunded" // Approved refund, remapped by the refund operation
)

// TransactionResult is the normalized result of a charge or refund attempt
type TransactionResult struct {
	Status        TransactionStatus `json:"status"`
	ReferenceID   string            `json:"reference_id,omitempty"`   // Gateway retrievalReference
	TransactionID string            `json:"transaction_id,omitempty"` // Gateway transactionId
	Message       string            `json:"message,omitempty"`        // Gateway statusDetail
}

// IsApproved returns true if the gateway accepted the transaction
func (r *TransactionResult) IsApproved() bool {
	return r.Status == TransactionStatusApproved || r.Status == TransactionStatusRefunded
}

// Amount is a transaction amount exactly as supplied by the host platform.
// Hosts normally send a decimal string ("10.00"); anything else is carried
// through untouched so upstream data errors stay visible on the wire.
type Amount string

// AmountFromDecimal formats a decimal amount for the gateway
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount(d.String())
}

// Bounds on amounts treated as numbers. Anything outside them is carried as text.
const (
	minAmountExponent     = -8
	maxAmountExponent     = 18
	maxAmountIntegerDigit = 18
)

// Decimal parses the amount, reporting false when it is not numeric or falls
// outside the supported magnitude and precision
func (a Amount) Decimal() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(a)))
	if err != nil || !withinBounds(d) {
		return decimal.Zero, false
	}
	return d, true
}

// OutOfRange reports whether the amount is numeric but too large or too precise
func (a Amount) OutOfRange() bool {
	d, err := decimal.NewFromString(strings.TrimSpace(string(a)))
	return err == nil && !withinBounds(d)
}

func withinBounds(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < minAmountExponent || exp > maxAmountExponent {
		return false
	}
	return d.NumDigits()+int(exp) <= maxAmountIntegerDigit
}

// InvoiceAmount is the share of a payment allocated to one invoice.
// Allocations are kept for the host's bookkeeping and never sent to the gateway.
type InvoiceAmount struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// TotalInvoiced sums the invoice allocations
func TotalInvoiced(invoices []InvoiceAmount) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range invoices {
		total = total.Add(inv.Amount)
	}
	return total
}
