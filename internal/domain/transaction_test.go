package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestTransactionResult_IsApproved tests the IsApproved method for every status
func TestTransactionResult_IsApproved(t *testing.T) {
	tests := []struct {
		name     string
		status   TransactionStatus
		expected bool
	}{
		{name: "approved", status: TransactionStatusApproved, expected: true},
		{name: "refunded", status: TransactionStatusRefunded, expected: true},
		{name: "declined", status: TransactionStatusDeclined, expected: false},
		{name: "error", status: TransactionStatusError, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &TransactionResult{Status: tt.status}
			assert.Equal(t, tt.expected, r.IsApproved())
		})
	}
}

func TestAmount_Decimal(t *testing.T) {
	tests := []struct {
		name        string
		amount      Amount
		wantNumeric bool
		want        string
	}{
		{name: "decimal string", amount: "10.00", wantNumeric: true, want: "10"},
		{name: "integer string", amount: "5", wantNumeric: true, want: "5"},
		{name: "surrounding spaces", amount: " 7.25 ", wantNumeric: true, want: "7.25"},
		{name: "non numeric", amount: "ten", wantNumeric: false},
		{name: "empty", amount: "", wantNumeric: false},
		{name: "huge exponent", amount: "1e50000000", wantNumeric: false},
		{name: "tiny exponent", amount: "1e-50000000", wantNumeric: false},
		{name: "too many integer digits", amount: "1234567890123456789", wantNumeric: false},
		{name: "eighteen integer digits", amount: "123456789012345678", wantNumeric: true, want: "123456789012345678"},
		{name: "eight decimal places", amount: "0.12345678", wantNumeric: true, want: "0.12345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := tt.amount.Decimal()
			assert.Equal(t, tt.wantNumeric, ok)
			if tt.wantNumeric {
				assert.Equal(t, tt.want, d.String())
			}
		})
	}
}

func TestAmountFromDecimal(t *testing.T) {
	assert.Equal(t, Amount("12.5"), AmountFromDecimal(decimal.RequireFromString("12.50")))
}

func TestTotalInvoiced(t *testing.T) {
	invoices := []InvoiceAmount{
		{ID: "1", Amount: decimal.RequireFromString("4.50")},
		{ID: "2", Amount: decimal.RequireFromString("5.50")},
	}

	assert.True(t, TotalInvoiced(invoices).Equal(decimal.NewFromInt(10)))
	assert.True(t, TotalInvoiced(nil).IsZero())
}

func TestCardInfo_Helpers(t *testing.T) {
	card := CardInfo{FirstName: "Jane", LastName: "Doe", CardNumber: "4929 0000 0000 6"}

	assert.Equal(t, "Jane Doe", card.CardholderName())
	assert.Equal(t, "0006", card.LastFour())
	assert.Equal(t, "12", CardInfo{CardNumber: "12"}.LastFour())
}

func TestAmount_OutOfRange(t *testing.T) {
	assert.True(t, Amount("1e50000000").OutOfRange())
	assert.True(t, Amount("0.000000001").OutOfRange())
	assert.False(t, Amount("10.00").OutOfRange())
	assert.False(t, Amount("ten").OutOfRange(), "non numeric text is not a range problem")
}
