package mocks

import (
	"context"
	"sync"

	"github.com/kevin07696/sagepay-gateway/internal/domain/ports"
)

// MockAuditSink captures audit entries for assertions
type MockAuditSink struct {
	mu      sync.Mutex
	Entries []ports.AuditEntry
	Err     error // Returned by every Record call when set
}

// NewMockAuditSink creates a new mock audit sink
func NewMockAuditSink() *MockAuditSink {
	return &MockAuditSink{Entries: []ports.AuditEntry{}}
}

// Record captures the entry
func (m *MockAuditSink) Record(_ context.Context, entry ports.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return m.Err
}

// Snapshot returns a copy of the captured entries
func (m *MockAuditSink) Snapshot() []ports.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.AuditEntry(nil), m.Entries...)
}
