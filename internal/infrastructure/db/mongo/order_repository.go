package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/inventory-api/internal/core/domain"
	"github.com/99minutos/inventory-api/internal/core/ports"
)

// OrderRepository implements ports.OrderRepository on the orders collection.
type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(s *Store) *OrderRepository {
	return &OrderRepository{col: s.Database().Collection(collectionOrders)}
}

type orderItemDocument struct {
	Product   primitive.ObjectID `bson:"product"`
	Quantity  int                `bson:"quantity"`
	UnitPrice float64            `bson:"unit_price"`
}

type orderDocument struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Items       []orderItemDocument `bson:"items"`
	TotalAmount float64             `bson:"total_amount"`
	Status      string              `bson:"status"`
	UserID      primitive.ObjectID  `bson:"user_id"`
	CreatedAt   time.Time           `bson:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at"`
}

func (d *orderDocument) toDomain() *domain.Order {
	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.OrderItem{
			ProductID: it.Product.Hex(),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return &domain.Order{
		ID:          d.ID.Hex(),
		Items:       items,
		TotalAmount: d.TotalAmount,
		Status:      domain.OrderStatus(d.Status),
		UserID:      d.UserID.Hex(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	userID, ok := objectID(o.UserID)
	if !ok {
		return nil, fmt.Errorf("insert order: invalid user id %q", o.UserID)
	}
	items := make([]orderItemDocument, 0, len(o.Items))
	for _, it := range o.Items {
		pid, ok := objectID(it.ProductID)
		if !ok {
			return nil, domain.ErrOrderProductNotFound.WithMessage("Produit introuvable: " + it.ProductID)
		}
		items = append(items, orderItemDocument{Product: pid, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := orderDocument{
		ID:          primitive.NewObjectID(),
		Items:       items,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		UserID:      userID,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByID retrieves an order. When userID is non-empty the lookup is also
// filtered by owner, so someone else's order is not found.
func (r *OrderRepository) FindByID(ctx context.Context, id, userID string) (*domain.Order, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	filter := bson.M{"_id": oid}
	if userID != "" {
		owner, ok := objectID(userID)
		if !ok {
			return nil, domain.ErrOrderNotFound
		}
		filter["user_id"] = owner
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc orderDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) List(ctx context.Context, f ports.OrderFilter) ([]*domain.Order, int64, error) {
	filter := bson.M{}
	if f.UserID != "" {
		owner, ok := objectID(f.UserID)
		if !ok {
			return []*domain.Order{}, 0, nil
		}
		filter["user_id"] = owner
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip(f.Page, f.Limit)).
		SetLimit(int64(f.Limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find orders: %w", err)
	}
	defer cur.Close(ctx)

	var docs []orderDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}
	out := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, total, nil
}
