package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/inventory-api/internal/core/domain"
)

// AuditRepository implements ports.AuditRepository on the audit_events
// collection. Events are write-only from the API's point of view.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(s *Store) *AuditRepository {
	return &AuditRepository{col: s.Database().Collection(collectionAuditEvents)}
}

// Insert persists an audit event.
func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := bson.M{
		"action":        event.Action,
		"resource_type": event.ResourceType,
		"resource_id":   event.ResourceID,
		"actor_id":      event.ActorID,
		"timestamp":     event.Timestamp.UTC(),
		"processed_at":  time.Now().UTC(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
