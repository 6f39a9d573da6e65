package sagepay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kevin07696/sagepay-gateway/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		response    Response
		wantStatus  domain.TransactionStatus
		wantMessage string
	}{
		{
			name:        "upper case ok",
			response:    Response{"status": "OK", "statusDetail": "The Authorisation was Successful."},
			wantStatus:  domain.TransactionStatusApproved,
			wantMessage: "The Authorisation was Successful.",
		},
		{name: "mixed case ok", response: Response{"status": "Ok"}, wantStatus: domain.TransactionStatusApproved},
		{name: "lower case ok", response: Response{"status": "ok"}, wantStatus: domain.TransactionStatusApproved},
		{
			name:        "rejected",
			response:    Response{"status": "Rejected", "statusDetail": "The card was declined."},
			wantStatus:  domain.TransactionStatusDeclined,
			wantMessage: "The card was declined.",
		},
		{name: "not authed", response: Response{"status": "NotAuthed"}, wantStatus: domain.TransactionStatusDeclined},
		{name: "numeric status", response: Response{"status": json.Number("0")}, wantStatus: domain.TransactionStatusDeclined},
		{name: "empty response", response: Response{}, wantStatus: domain.TransactionStatusError},
		{name: "nil response", response: nil, wantStatus: domain.TransactionStatusError},
		{name: "null status", response: Response{"status": nil}, wantStatus: domain.TransactionStatusError},
		{name: "empty status", response: Response{"status": ""}, wantStatus: domain.TransactionStatusError},
		{
			name:        "error body without status",
			response:    Response{"statusCode": json.Number("1001"), "statusDetail": "Invalid vendor"},
			wantStatus:  domain.TransactionStatusError,
			wantMessage: "Invalid vendor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.response)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}
}
