package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/kevin07696/sagepay-gateway/internal/domain/ports"
)

// ZapSink writes each audit entry as one structured log line
type ZapSink struct {
	logger *zap.Logger
}

var _ ports.AuditSink = (*ZapSink)(nil)

// NewZapSink creates a sink logging under the "gateway_audit" logger name
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger.Named("gateway_audit")}
}

// Record logs the entry. It never fails.
func (s *ZapSink) Record(_ context.Context, entry ports.AuditEntry) error {
	s.logger.Info("Gateway request logged",
		zap.String("url", entry.URL),
		zap.String("direction", string(entry.Direction)),
		zap.Bool("success", entry.Success),
		zap.Time("recorded_at", entry.RecordedAt),
		zap.Any("data", entry.Data),
	)
	return nil
}
