package ports

import (
	"context"

	"github.com/99minutos/inventory-api/internal/core/domain"
)

// OrderFilter carries the listing query.
type OrderFilter struct {
	UserID string // empty = every user (admin); non-empty = scoped to owner
	Status string
	Page   int
	Limit  int
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	// FindByID retrieves an order. When userID is non-empty the lookup is
	// additionally scoped to that owner. Malformed ids are not found.
	FindByID(ctx context.Context, id, userID string) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, int64, error)
}
