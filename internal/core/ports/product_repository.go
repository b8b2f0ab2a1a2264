package ports

import (
	"context"
	"time"

	"github.com/99minutos/inventory-api/internal/core/domain"
)

// ProductFilter carries the listing query. Zero values mean "no filter".
type ProductFilter struct {
	Category string
	InStock  *bool
	Page     int // 1-based
	Limit    int
}

// ProductRepository defines persistence operations for the catalog.
// Malformed ids are reported as domain.ErrProductNotFound; unique-SKU
// violations as domain.ErrDuplicateSKU.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// FindByIDs returns the products that exist among ids; missing ids are
	// simply absent from the result.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Product, error)
	// ExistsBySKU reports whether another product uses sku. excludeID, when
	// non-empty, is ignored by the check.
	ExistsBySKU(ctx context.Context, sku, excludeID string) (bool, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch, updatedAt time.Time) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error)
}
