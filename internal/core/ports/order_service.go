package ports

import (
	"context"

	"github.com/99minutos/inventory-api/internal/core/domain"
)

// OrderItemInput is a requested line: which product and how many.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// CreateOrderInput carries a validated order payload.
type CreateOrderInput struct {
	Items []OrderItemInput
}

// ListOrdersInput carries the parameters of GET /api/orders.
type ListOrdersInput struct {
	Status string
	Page   int
	Limit  int
}

// OrderService defines use-case operations for orders. The caller identity
// scopes reads: role user only sees its own orders.
type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput, caller domain.Identity) (*domain.Order, error)
	Get(ctx context.Context, id string, caller domain.Identity) (*domain.Order, error)
	List(ctx context.Context, input ListOrdersInput, caller domain.Identity) (*Page[*domain.Order], error)
}
