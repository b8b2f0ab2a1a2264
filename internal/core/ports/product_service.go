package ports

import (
	"context"

	"github.com/99minutos/inventory-api/internal/core/domain"
)

// CreateProductInput carries a validated creation payload.
type CreateProductInput struct {
	Name        string
	SKU         string
	Price       float64
	Category    string
	Stock       *int
	InStock     *bool
	Description string
}

// ListProductsInput carries the parameters of GET /api/products.
type ListProductsInput struct {
	Category string
	InStock  *bool
	Page     int
	Limit    int
}

// ProductService defines use-case operations on the catalog.
type ProductService interface {
	List(ctx context.Context, input ListProductsInput) (*Page[*domain.Product], error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, input CreateProductInput, actor domain.Identity) (*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch, actor domain.Identity) (*domain.Product, error)
	Delete(ctx context.Context, id string, actor domain.Identity) error
}
