package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Gateway transaction metrics
	gatewayTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sagepay_transactions_total",
		Help: "Total number of Sage Pay transaction attempts",
	}, []string{
		"operation", // charge, refund, authorize, capture, void
		"status",    // approved, declined, error, refunded, unsupported
	})

	gatewayApprovedAmountMinor = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sagepay_approved_amount_minor_total",
		Help: "Total approved amount in minor currency units",
	}, []string{
		"operation",
		"currency",
	})

	// End-to-end duration of one attempt (all remote steps)
	gatewayTransactionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sagepay_transaction_duration_seconds",
		Help:    "Total time of a charge or refund attempt",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{
		"operation",
		"status",
	})

	// Individual remote calls
	gatewayRemoteCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sagepay_remote_calls_total",
		Help: "Total remote calls to the Sage Pay API",
	}, []string{
		"step",    // session_key, card_identifier, transaction
		"outcome", // ok, transport_error
	})

	gatewayRemoteCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sagepay_remote_call_duration_seconds",
		Help:    "Duration of a single remote call to the Sage Pay API",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{
		"step",
	})

	// Audit sink failures
	auditFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sagepay_audit_failures_total",
		Help: "Audit entries that could not be written",
	}, []string{
		"direction", // input, output
	})
)

// RecordTransaction records the outcome of a gateway operation
func RecordTransaction(operation, status string, duration time.Duration) {
	gatewayTransactionsTotal.WithLabelValues(operation, status).Inc()
	gatewayTransactionDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// RecordApprovedAmount adds an approved amount (in minor units) to the revenue counter
func RecordApprovedAmount(operation, currency string, minorUnits float64) {
	if minorUnits <= 0 {
		return
	}
	gatewayApprovedAmountMinor.WithLabelValues(operation, currency).Add(minorUnits)
}

// RecordRemoteCall records a single remote call
func RecordRemoteCall(step, outcome string, duration time.Duration) {
	gatewayRemoteCallsTotal.WithLabelValues(step, outcome).Inc()
	gatewayRemoteCallDuration.WithLabelValues(step).Observe(duration.Seconds())
}

// RecordAuditFailure counts an audit entry that no sink accepted
func RecordAuditFailure(direction string) {
	auditFailuresTotal.WithLabelValues(direction).Inc()
}
