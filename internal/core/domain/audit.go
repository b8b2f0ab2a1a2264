package domain

import "time"

const (
	AuditUserRegistered = "user.registered"
	AuditProductCreated = "product.created"
	AuditProductUpdated = "product.updated"
	AuditProductDeleted = "product.deleted"
	AuditOrderCreated   = "order.created"
)

// AuditEvent records a successful mutation for the audit trail.
type AuditEvent struct {
	Action       string
	ResourceType string
	ResourceID   string
	ActorID      string
	Timestamp    time.Time
}
