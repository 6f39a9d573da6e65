package sagepay

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kevin07696/sagepay-gateway/internal/domain"
)

// TransactionType is the wire value of the transactionType field
type TransactionType string

const (
	TransactionTypePayment TransactionType = "Payment"
	TransactionTypeRefund  TransactionType = "Refund"
)

const (
	apply3DSecureDisable = "Disable"
	entryMethodEcommerce = "Ecommerce"
	countryUS            = "US"
)

// newUniqueID generates vendorTxCode values for new sales
var newUniqueID = uuid.NewString

var hundred = decimal.NewFromInt(100)

// MinorAmount is an amount in the smallest currency unit, as sent on the wire.
// Numeric amounts are multiplied by 100 and encoded as a JSON number; anything
// else is encoded as the original string.
type MinorAmount struct {
	minor   decimal.Decimal
	raw     string
	numeric bool
}

// ToMinorUnits converts a host amount to minor units
func ToMinorUnits(amount domain.Amount) MinorAmount {
	d, ok := amount.Decimal()
	if !ok {
		return MinorAmount{raw: string(amount)}
	}
	return MinorAmount{minor: d.Mul(hundred), raw: string(amount), numeric: true}
}

// IsNumeric reports whether the host amount parsed as a number
func (m MinorAmount) IsNumeric() bool {
	return m.numeric
}

// Float64 returns the minor unit value, or 0 for non-numeric amounts
func (m MinorAmount) Float64() float64 {
	if !m.numeric {
		return 0
	}
	return m.minor.InexactFloat64()
}

func (m MinorAmount) String() string {
	if m.numeric {
		return m.minor.String()
	}
	return m.raw
}

func (m MinorAmount) MarshalJSON() ([]byte, error) {
	if m.numeric {
		return []byte(m.minor.String()), nil
	}
	return json.Marshal(m.raw)
}

type cardToken struct {
	MerchantSessionKey string `json:"merchantSessionKey"`
	CardIdentifier     string `json:"cardIdentifier"`
}

type paymentMethod struct {
	Card cardToken `json:"card"`
}

// BillingAddress is the card holder address sent with a payment
type BillingAddress struct {
	Address1   string  `json:"address1"`
	City       string  `json:"city"`
	PostalCode string  `json:"postalCode"`
	Country    string  `json:"country"`
	State      *string `json:"state,omitempty"` // US only
}

// TransactionRequest is a payload posted to the transactions endpoint.
// ProcessRequest and RefundRequest are the only implementations.
type TransactionRequest interface {
	Type() TransactionType
}

// ProcessRequest is the payload of a new sale
type ProcessRequest struct {
	TransactionType   TransactionType `json:"transactionType"`
	PaymentMethod     paymentMethod   `json:"paymentMethod"`
	VendorTxCode      string          `json:"vendorTxCode"`
	Amount            MinorAmount     `json:"amount"`
	Currency          string          `json:"currency"`
	Description       string          `json:"description"`
	Apply3DSecure     string          `json:"apply3DSecure"`
	CustomerFirstName string          `json:"customerFirstName"`
	CustomerLastName  string          `json:"customerLastName"`
	BillingAddress    BillingAddress  `json:"billingAddress"`
	EntryMethod       string          `json:"entryMethod"`
}

func (ProcessRequest) Type() TransactionType { return TransactionTypePayment }

// RefundRequest is the payload of a refund against an earlier transaction
type RefundRequest struct {
	TransactionType        TransactionType `json:"transactionType"`
	ReferenceTransactionID string          `json:"referenceTransactionId"`
	VendorTxCode           string          `json:"vendorTxCode"`
	Amount                 MinorAmount     `json:"amount"`
	Description            string          `json:"description"`
}

func (RefundRequest) Type() TransactionType { return TransactionTypeRefund }

// vendorTxCode returns the reference transaction id, or a fresh unique id when there is none
func vendorTxCode(referenceTransactionID string) string {
	if referenceTransactionID != "" {
		return referenceTransactionID
	}
	return newUniqueID()
}

// NewProcessRequest builds the payload of a new sale from the tokens of the current attempt
func NewProcessRequest(sessionKey, cardIdentifier string, amount MinorAmount, currency string, card domain.CardInfo) ProcessRequest {
	code := vendorTxCode("")

	address := BillingAddress{
		Address1:   card.Address1,
		City:       card.City,
		PostalCode: card.Zip,
		Country:    card.Country.Alpha2,
	}
	if address.Country == countryUS {
		state := card.State.Code
		address.State = &state
	}

	return ProcessRequest{
		TransactionType: TransactionTypePayment,
		PaymentMethod: paymentMethod{Card: cardToken{
			MerchantSessionKey: sessionKey,
			CardIdentifier:     cardIdentifier,
		}},
		VendorTxCode:      code,
		Amount:            amount,
		Currency:          currency,
		Description:       code,
		Apply3DSecure:     apply3DSecureDisable,
		CustomerFirstName: card.FirstName,
		CustomerLastName:  card.LastName,
		BillingAddress:    address,
		EntryMethod:       entryMethodEcommerce,
	}
}

// NewRefundRequest builds the payload of a refund of referenceTransactionID
func NewRefundRequest(referenceTransactionID string, amount MinorAmount) RefundRequest {
	code := vendorTxCode(referenceTransactionID)

	return RefundRequest{
		TransactionType:        TransactionTypeRefund,
		ReferenceTransactionID: referenceTransactionID,
		VendorTxCode:           code,
		Amount:                 amount,
		Description:            code,
	}
}

// Fields is the decoded form of a request payload, kept for the audit trail
type Fields map[string]any

// BuildFields serializes req and returns both the payload and its decoded field set
func BuildFields(req TransactionRequest) (Fields, []byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal %s request: %w", req.Type(), err)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var fields Fields
	if err := dec.Decode(&fields); err != nil {
		return nil, nil, fmt.Errorf("decode %s fields: %w", req.Type(), err)
	}

	return fields, payload, nil
}

// expiryMMYY converts a yyyymm expiry to the mmyy form the card-identifier endpoint takes
func expiryMMYY(cardExp string) string {
	return substr(cardExp, 4, 2) + substr(cardExp, 2, 2)
}

// substr returns up to length bytes of s starting at start, clamped to the string
func substr(s string, start, length int) string {
	if start >= len(s) {
		return ""
	}
	end := start + length
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}
