package payment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kevin07696/sagepay-gateway/internal/domain"
	"github.com/kevin07696/sagepay-gateway/internal/domain/ports"
	pkgerrors "github.com/kevin07696/sagepay-gateway/pkg/errors"
	"github.com/kevin07696/sagepay-gateway/pkg/observability"
	"github.com/kevin07696/sagepay-gateway/pkg/resilience"
)

const maxRequestBody = 64 * 1024

// Handler exposes the merchant gateway as a JSON HTTP API for the host platform
type Handler struct {
	gateway  ports.MerchantGateway
	logger   *zap.Logger
	timeouts *resilience.TimeoutConfig
}

// NewHandler creates a new payment handler
func NewHandler(gateway ports.MerchantGateway, logger *zap.Logger, timeouts *resilience.TimeoutConfig) *Handler {
	if timeouts == nil {
		timeouts = resilience.DefaultTimeoutConfig()
	}
	return &Handler{
		gateway:  gateway,
		logger:   logger,
		timeouts: timeouts,
	}
}

// AppendRoutes mounts the payment routes on r
func (h *Handler) AppendRoutes(r chi.Router) {
	routes := map[string]http.HandlerFunc{
		"/v1/charge":    h.charge,
		"/v1/refund":    h.refund,
		"/v1/authorize": h.authorize,
		"/v1/capture":   h.capture,
		"/v1/void":      h.void,
	}
	for pattern, fn := range routes {
		r.Method(http.MethodPost, pattern, observability.InstrumentHandler(pattern, fn))
	}
}

// amountParam accepts amounts sent either as a JSON string or a JSON number
type amountParam domain.Amount

func (a *amountParam) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = amountParam(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or number")
	}
	*a = amountParam(n.String())
	return nil
}

type chargeRequest struct {
	Card     domain.CardInfo        `json:"card"`
	Amount   amountParam            `json:"amount"`
	Invoices []domain.InvoiceAmount `json:"invoice_amounts"`
}

type refundRequest struct {
	ReferenceID   string      `json:"reference_id"`
	TransactionID string      `json:"transaction_id"`
	Amount        amountParam `json:"amount"`
}

type captureRequest struct {
	ReferenceID   string                 `json:"reference_id"`
	TransactionID string                 `json:"transaction_id"`
	Amount        amountParam            `json:"amount"`
	Invoices      []domain.InvoiceAmount `json:"invoice_amounts"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type transactionResponse struct {
	Result *domain.TransactionResult `json:"result,omitempty"`
	Error  *errorBody                `json:"error,omitempty"`
}

func (h *Handler) charge(w http.ResponseWriter, r *http.Request) {
	var req chargeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := validateCharge(req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := h.timeouts.HandlerContext(r.Context())
	defer cancel()

	result, err := h.gateway.Charge(ctx, req.Card, domain.Amount(req.Amount), req.Invoices)
	h.writeResult(w, result, err)
}

func (h *Handler) refund(w http.ResponseWriter, r *http.Request) {
	var req refundRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.TransactionID == "" {
		h.writeError(w, http.StatusBadRequest, pkgerrors.NewValidationError("transaction_id", "transaction_id is required"))
		return
	}
	if domain.Amount(req.Amount).OutOfRange() {
		h.writeError(w, http.StatusBadRequest, amountOutOfRange())
		return
	}

	ctx, cancel := h.timeouts.HandlerContext(r.Context())
	defer cancel()

	result, err := h.gateway.Refund(ctx, req.ReferenceID, req.TransactionID, domain.Amount(req.Amount))
	h.writeResult(w, result, err)
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) {
	var req chargeRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.gateway.Authorize(r.Context(), req.Card, domain.Amount(req.Amount), req.Invoices)
	h.writeResult(w, result, err)
}

func (h *Handler) capture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.gateway.Capture(r.Context(), req.ReferenceID, req.TransactionID, domain.Amount(req.Amount), req.Invoices)
	h.writeResult(w, result, err)
}

func (h *Handler) void(w http.ResponseWriter, r *http.Request) {
	var req refundRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.gateway.Void(r.Context(), req.ReferenceID, req.TransactionID)
	h.writeResult(w, result, err)
}

func validateCharge(req chargeRequest) error {
	var errs pkgerrors.ValidationErrors
	if req.Card.CardNumber == "" {
		errs = append(errs, pkgerrors.NewValidationError("card.card_number", "card_number is required"))
	}
	if len(req.Card.CardExp) != 6 {
		errs = append(errs, pkgerrors.NewValidationError("card.card_exp", "card_exp must be in yyyymm format"))
	}
	if req.Amount == "" {
		errs = append(errs, pkgerrors.NewValidationError("amount", "amount is required"))
	}
	if domain.Amount(req.Amount).OutOfRange() {
		errs = append(errs, amountOutOfRange())
	}
	return errs.ErrOrNil()
}

func amountOutOfRange() *pkgerrors.ValidationError {
	return pkgerrors.NewValidationError("amount", "amount exceeds supported range or precision")
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

// writeResult maps a gateway outcome to a response. A result is always
// returned with 200 when the gateway produced one, even alongside an error,
// so the host can store the declined or errored transaction.
func (h *Handler) writeResult(w http.ResponseWriter, result *domain.TransactionResult, err error) {
	resp := transactionResponse{Result: result}
	status := http.StatusOK

	if err != nil {
		resp.Error = toErrorBody(err)
		if result == nil {
			status = statusFor(err)
		}
		h.logger.Warn("Gateway operation returned an error",
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	writeJSON(w, status, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, transactionResponse{Error: toErrorBody(err)})
}

func toErrorBody(err error) *errorBody {
	var pe *pkgerrors.PaymentError
	if errors.As(err, &pe) {
		return &errorBody{Code: pe.Code, Message: pe.Message}
	}
	var ve pkgerrors.ValidationErrors
	if errors.As(err, &ve) {
		return &errorBody{Code: "VALIDATION_ERROR", Message: ve.Error()}
	}
	var single *pkgerrors.ValidationError
	if errors.As(err, &single) {
		return &errorBody{Code: "VALIDATION_ERROR", Message: single.Error()}
	}
	return &errorBody{Code: "BAD_REQUEST", Message: err.Error()}
}

func statusFor(err error) int {
	switch {
	case pkgerrors.IsCategory(err, pkgerrors.CategoryUnsupported):
		return http.StatusUnprocessableEntity
	case pkgerrors.IsCategory(err, pkgerrors.CategoryInvalidRequest):
		return http.StatusBadRequest
	case pkgerrors.IsCategory(err, pkgerrors.CategoryNetworkError):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
