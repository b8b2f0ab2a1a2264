package ports

import (
	"context"

	"github.com/99minutos/inventory-api/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditSink accepts audit events for asynchronous persistence. Enqueue must
// not block the calling request.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}

// NopAuditSink discards events.
type NopAuditSink struct{}

func (NopAuditSink) Enqueue(domain.AuditEvent) {}
