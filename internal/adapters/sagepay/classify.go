package sagepay

import (
	"strings"

	"github.com/kevin07696/sagepay-gateway/internal/domain"
)

// Classification is the normalized status of a gateway response
type Classification struct {
	Status  domain.TransactionStatus
	Message string
}

// Classify maps a response onto approved, declined or error.
// Only the status field decides: "ok" in any case approves, any other value
// declines, and a missing or empty status is an error. The message is the
// statusDetail field when present.
func Classify(resp Response) Classification {
	c := Classification{
		Status:  domain.TransactionStatusError,
		Message: resp.String("statusDetail"),
	}

	if status := resp.String("status"); status != "" {
		if strings.EqualFold(status, "ok") {
			c.Status = domain.TransactionStatusApproved
		} else {
			c.Status = domain.TransactionStatusDeclined
		}
	}

	return c
}
