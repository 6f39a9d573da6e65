package sagepay

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/sagepay-gateway/internal/domain"
)

func testCard() domain.CardInfo {
	return domain.CardInfo{
		FirstName:    "Jane",
		LastName:     "Doe",
		CardNumber:   "4929000000006",
		CardExp:      "202612",
		SecurityCode: "123",
		Address1:     "1 Main St",
		City:         "Springfield",
		State:        domain.State{Code: "CA", Name: "California"},
		Country:      domain.Country{Alpha2: "US", Alpha3: "USA", Name: "United States"},
		Zip:          "90210",
	}
}

// withUniqueID pins the generated vendorTxCode for the duration of a test
func withUniqueID(t *testing.T, id string) {
	t.Helper()
	prev := newUniqueID
	newUniqueID = func() string { return id }
	t.Cleanup(func() { newUniqueID = prev })
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name        string
		amount      domain.Amount
		wantJSON    string
		wantNumeric bool
	}{
		{name: "two decimals", amount: "10.00", wantJSON: "1000", wantNumeric: true},
		{name: "integer", amount: "5", wantJSON: "500", wantNumeric: true},
		{name: "one decimal", amount: "0.1", wantJSON: "10", wantNumeric: true},
		{name: "sub minor unit", amount: "12.345", wantJSON: "1234.5", wantNumeric: true},
		{name: "negative", amount: "-3.50", wantJSON: "-350", wantNumeric: true},
		{name: "non numeric passes through", amount: "ten", wantJSON: `"ten"`, wantNumeric: false},
		{name: "empty passes through", amount: "", wantJSON: `""`, wantNumeric: false},
		{name: "huge exponent passes through", amount: "1e50000000", wantJSON: `"1e50000000"`, wantNumeric: false},
		{name: "too many integer digits passes through", amount: "1234567890123456789", wantJSON: `"1234567890123456789"`, wantNumeric: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ToMinorUnits(tt.amount)

			got, err := json.Marshal(m)
			require.NoError(t, err)
			assert.Equal(t, tt.wantJSON, string(got))
			assert.Equal(t, tt.wantNumeric, m.IsNumeric())
		})
	}
}

func TestMinorAmount_Float64(t *testing.T) {
	assert.Equal(t, 1000.0, ToMinorUnits("10.00").Float64())
	assert.Equal(t, 0.0, ToMinorUnits("n/a").Float64())
	assert.Equal(t, "n/a", ToMinorUnits("n/a").String())
}

func TestBuildFields_ProcessScenario(t *testing.T) {
	withUniqueID(t, "uid-1")

	req := NewProcessRequest("msk", "ci", ToMinorUnits("10.00"), "USD", testCard())

	fields, payload, err := BuildFields(req)
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	assert.Equal(t, "Payment", fields["transactionType"])
	assert.Equal(t, json.Number("1000"), fields["amount"])
	assert.Equal(t, "USD", fields["currency"])
	assert.Equal(t, "uid-1", fields["vendorTxCode"])
	assert.Equal(t, "uid-1", fields["description"])
	assert.Equal(t, "Disable", fields["apply3DSecure"])
	assert.Equal(t, "Ecommerce", fields["entryMethod"])
	assert.Equal(t, "Jane", fields["customerFirstName"])
	assert.Equal(t, "Doe", fields["customerLastName"])
	assert.Equal(t, map[string]any{
		"address1":   "1 Main St",
		"city":       "Springfield",
		"postalCode": "90210",
		"country":    "US",
		"state":      "CA",
	}, fields["billingAddress"])
	assert.Equal(t, map[string]any{
		"card": map[string]any{"merchantSessionKey": "msk", "cardIdentifier": "ci"},
	}, fields["paymentMethod"])
	assert.NotContains(t, fields, "referenceTransactionId")
}

func TestBuildFields_RefundScenario(t *testing.T) {
	req := NewRefundRequest("TX123", ToMinorUnits("5.00"))

	fields, _, err := BuildFields(req)
	require.NoError(t, err)

	assert.Equal(t, Fields{
		"transactionType":        "Refund",
		"referenceTransactionId": "TX123",
		"vendorTxCode":           "TX123",
		"amount":                 json.Number("500"),
		"description":            "TX123",
	}, fields)
}

func TestBuildFields_OversizedAmountStaysCompact(t *testing.T) {
	_, payload, err := BuildFields(NewRefundRequest("TX1", ToMinorUnits("1e50000000")))
	require.NoError(t, err)

	assert.Contains(t, string(payload), `"amount":"1e50000000"`)
	assert.Less(t, len(payload), 256)
}

func TestBuildFields_RefundExcludesProcessOnlyKeys(t *testing.T) {
	fields, _, err := BuildFields(NewRefundRequest("TX9", ToMinorUnits("1")))
	require.NoError(t, err)

	for _, key := range []string{"paymentMethod", "customerFirstName", "customerLastName", "billingAddress", "apply3DSecure", "entryMethod", "currency"} {
		assert.NotContains(t, fields, key)
	}
}

func TestBuildFields_StateOnlyForUS(t *testing.T) {
	tests := []struct {
		name      string
		country   string
		wantState bool
	}{
		{name: "united states", country: "US", wantState: true},
		{name: "canada", country: "CA", wantState: false},
		{name: "united kingdom", country: "GB", wantState: false},
		{name: "lower case us is not US", country: "us", wantState: false},
		{name: "no country", country: "", wantState: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := testCard()
			card.Country.Alpha2 = tt.country

			fields, _, err := BuildFields(NewProcessRequest("msk", "ci", ToMinorUnits("1"), "GBP", card))
			require.NoError(t, err)

			address := fields["billingAddress"].(map[string]any)
			_, hasState := address["state"]
			assert.Equal(t, tt.wantState, hasState)
		})
	}
}

func TestBuildFields_USWithoutStateCodeStillSendsState(t *testing.T) {
	card := testCard()
	card.State = domain.State{}

	fields, _, err := BuildFields(NewProcessRequest("msk", "ci", ToMinorUnits("1"), "USD", card))
	require.NoError(t, err)

	address := fields["billingAddress"].(map[string]any)
	assert.Contains(t, address, "state")
	assert.Equal(t, "", address["state"])
}

func TestVendorTxCode(t *testing.T) {
	withUniqueID(t, "generated")

	assert.Equal(t, "TX1", vendorTxCode("TX1"))
	assert.Equal(t, "generated", vendorTxCode(""))

	refund := NewRefundRequest("", ToMinorUnits("1"))
	assert.Equal(t, "generated", refund.VendorTxCode)
	assert.Equal(t, "generated", refund.Description)
}

func TestNewUniqueID_IsUUID(t *testing.T) {
	req := NewProcessRequest("", "", ToMinorUnits("1"), "GBP", testCard())

	_, err := uuid.Parse(req.VendorTxCode)
	assert.NoError(t, err)
	assert.Equal(t, req.VendorTxCode, req.Description)

	other := NewProcessRequest("", "", ToMinorUnits("1"), "GBP", testCard())
	assert.NotEqual(t, req.VendorTxCode, other.VendorTxCode)
}

func TestRequestTypes(t *testing.T) {
	assert.Equal(t, TransactionTypePayment, ProcessRequest{}.Type())
	assert.Equal(t, TransactionTypeRefund, RefundRequest{}.Type())
}

func TestExpiryMMYY(t *testing.T) {
	tests := []struct {
		cardExp string
		want    string
	}{
		{cardExp: "202612", want: "1226"},
		{cardExp: "203001", want: "0130"},
		{cardExp: "2026", want: "26"},
		{cardExp: "20261", want: "126"},
		{cardExp: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.cardExp, func(t *testing.T) {
			assert.Equal(t, tt.want, expiryMMYY(tt.cardExp))
		})
	}
}
