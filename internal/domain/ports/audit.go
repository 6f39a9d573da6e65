package ports

import (
	"context"
	"time"
)

// AuditDirection tells whether an audit entry holds what was sent or what came back
type AuditDirection string

const (
	AuditDirectionInput  AuditDirection = "input"
	AuditDirectionOutput AuditDirection = "output"
)

// AuditEntry is one gateway log record. Data must already be masked.
type AuditEntry struct {
	URL        string
	Direction  AuditDirection
	Data       any
	Success    bool
	RecordedAt time.Time
}

// AuditSink persists gateway audit entries
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}
