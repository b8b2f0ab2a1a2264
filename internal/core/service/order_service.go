package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/inventory-api/internal/core/domain"
	"github.com/99minutos/inventory-api/internal/core/ports"
)

type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	audit    ports.AuditSink
	logger   zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, products ports.ProductRepository, audit ports.AuditSink, logger zerolog.Logger) *OrderService {
	if audit == nil {
		audit = ports.NopAuditSink{}
	}
	return &OrderService{orders: orders, products: products, audit: audit, logger: logger}
}

// Create places an order for caller. Every product must resolve or nothing
// is written. Unit prices are snapshotted from the current catalog.
func (s *OrderService) Create(ctx context.Context, in ports.CreateOrderInput, caller domain.Identity) (*domain.Order, error) {
	if caller.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	ids := make([]string, 0, len(in.Items))
	seen := make(map[string]struct{}, len(in.Items))
	for _, it := range in.Items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}

	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, domain.ErrOrderProductNotFound.WithMessage("Produit introuvable: " + it.ProductID)
		}
		if it.Quantity < 1 {
			return nil, domain.NewValidationError([]string{`"quantity" doit être supérieur ou égal à 1`})
		}
		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
		})
	}

	now := time.Now().UTC()
	created, err := s.orders.Create(ctx, &domain.Order{
		Items:       items,
		TotalAmount: domain.TotalAmount(items),
		Status:      domain.OrderPending,
		UserID:      caller.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", caller.ID).Msg("failed to create order")
		return nil, err
	}

	s.audit.Enqueue(domain.AuditEvent{
		Action:       domain.AuditOrderCreated,
		ResourceType: "order",
		ResourceID:   created.ID,
		ActorID:      caller.ID,
		Timestamp:    now,
	})
	s.logger.Info().
		Str("order_id", created.ID).
		Str("user_id", caller.ID).
		Float64("total", created.TotalAmount).
		Msg("order created")

	return created, nil
}

// Get returns an order. Non-admin callers only see their own orders; someone
// else's order is reported as not found.
func (s *OrderService) Get(ctx context.Context, id string, caller domain.Identity) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id, ownerScope(caller))
}

func (s *OrderService) List(ctx context.Context, in ports.ListOrdersInput, caller domain.Identity) (*ports.Page[*domain.Order], error) {
	page, limit := ports.NormalizePage(in.Page, in.Limit)

	items, total, err := s.orders.List(ctx, ports.OrderFilter{
		UserID: ownerScope(caller),
		Status: in.Status,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Order{}
	}

	return &ports.Page[*domain.Order]{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: ports.PageCount(total, limit),
	}, nil
}

// ownerScope returns the user id filter for caller: empty for admins.
func ownerScope(caller domain.Identity) string {
	if caller.IsAdmin() {
		return ""
	}
	return caller.ID
}
