package audit

import (
	"context"
	"errors"

	"github.com/kevin07696/sagepay-gateway/internal/domain/ports"
)

// MultiSink fans an entry out to every sink. All sinks are tried; their
// errors are joined.
type MultiSink struct {
	sinks []ports.AuditSink
}

var _ ports.AuditSink = (*MultiSink)(nil)

// NewMultiSink creates a fan-out sink, skipping nil sinks
func NewMultiSink(sinks ...ports.AuditSink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Record writes entry to every sink
func (m *MultiSink) Record(ctx context.Context, entry ports.AuditEntry) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Record(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of sinks
func (m *MultiSink) Len() int {
	return len(m.sinks)
}
