package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/inventory-api/internal/core/domain"
	"github.com/99minutos/inventory-api/internal/core/ports"
)

type ProductService struct {
	repo   ports.ProductRepository
	audit  ports.AuditSink
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, audit ports.AuditSink, logger zerolog.Logger) *ProductService {
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &ProductService{repo: repo, audit: audit, logger: logger}
}

// List returns one page of the catalog, newest first.
func (s *ProductService) List(ctx context.Context, in ports.ListProductsInput) (*ports.Page[*domain.Product], error) {
	page, limit := ports.NormalizePage(in.Page, in.Limit)

	items, total, err := s.repo.List(ctx, ports.ProductFilter{
		Category: in.Category,
		InStock:  in.InStock,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Product{}
	}

	return &ports.Page[*domain.Product]{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: ports.PageCount(total, limit),
	}, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Create inserts a product after an early SKU uniqueness check. A lost race
// surfaces from the repository as the same domain.ErrDuplicateSKU.
func (s *ProductService) Create(ctx context.Context, in ports.CreateProductInput, actor domain.Identity) (*domain.Product, error) {
	exists, err := s.repo.ExistsBySKU(ctx, in.SKU, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateSKU
	}

	now := time.Now().UTC()
	p := &domain.Product{
		Name:        in.Name,
		SKU:         in.SKU,
		Price:       in.Price,
		Category:    in.Category,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuditProductCreated, created.ID, actor, now)
	s.logger.Info().Str("product_id", created.ID).Str("sku", created.SKU).Msg("product created")
	return created, nil
}

// Update applies a partial update. SKU uniqueness is re-checked only when
// the SKU actually changes, ignoring the product itself.
func (s *ProductService) Update(ctx context.Context, id string, patch domain.ProductPatch, actor domain.Identity) (*domain.Product, error) {
	if patch.Empty() {
		return nil, domain.NewValidationError([]string{"Aucun champ à mettre à jour"})
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.SKU != nil && *patch.SKU != current.SKU {
		exists, err := s.repo.ExistsBySKU(ctx, *patch.SKU, current.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateSKU
		}
	}

	now := time.Now().UTC()
	updated, err := s.repo.Update(ctx, current.ID, patch, now)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuditProductUpdated, updated.ID, actor, now)
	s.logger.Info().Str("product_id", updated.ID).Msg("product updated")
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string, actor domain.Identity) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(domain.AuditProductDeleted, id, actor, time.Now().UTC())
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

func (s *ProductService) record(action, id string, actor domain.Identity, ts time.Time) {
	s.audit.Enqueue(domain.AuditEvent{
		Action:       action,
		ResourceType: "product",
		ResourceID:   id,
		ActorID:      actor.ID,
		Timestamp:    ts,
	})
}
