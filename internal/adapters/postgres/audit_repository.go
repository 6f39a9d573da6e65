package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kevin07696/sagepay-gateway/internal/domain/ports"
)

const insertAuditEntrySQL = `
INSERT INTO gateway_audit_log (url, direction, payload, success, created_at)
VALUES ($1, $2, $3, $4, $5)`

// AuditRepository implements ports.AuditSink on the gateway_audit_log table
type AuditRepository struct {
	db Execer
}

var _ ports.AuditSink = (*AuditRepository)(nil)

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db Execer) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record inserts one audit entry. Data is stored as JSONB.
func (r *AuditRepository) Record(ctx context.Context, entry ports.AuditEntry) error {
	payload := []byte("{}")
	if entry.Data != nil {
		var err error
		payload, err = json.Marshal(entry.Data)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
	}

	createdAt := entry.RecordedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tag, err := r.db.Exec(ctx, insertAuditEntrySQL,
		entry.URL,
		string(entry.Direction),
		payload,
		entry.Success,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("insert audit entry: %d rows affected", tag.RowsAffected())
	}

	return nil
}
