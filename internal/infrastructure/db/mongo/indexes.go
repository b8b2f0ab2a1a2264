package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/inventory-api/internal/core/ports"
)

const (
	collectionUsers       = "users"
	collectionProducts    = "products"
	collectionOrders      = "orders"
	collectionAuditEvents = "audit_events"
)

// collectionIndexes is applied by Store.EnsureIndexes. The unique indexes on
// users.email and products.sku are the source of truth for uniqueness.
var collectionIndexes = map[string][]mongo.IndexModel{
	collectionUsers: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	collectionProducts: {
		{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "in_stock", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	},
	collectionOrders: {
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	},
	collectionAuditEvents: {
		{Keys: bson.D{{Key: "resource_type", Value: 1}, {Key: "resource_id", Value: 1}}},
	},
}

// objectID parses a hex id. Malformed ids report false and are treated as
// not found by the repositories.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// skip returns the number of documents before page (1-based).
func skip(page, limit int) int64 {
	if page < 1 || limit < 1 {
		return 0
	}
	if page > ports.MaxPage {
		page = ports.MaxPage
	}
	return int64(page-1) * int64(limit)
}
