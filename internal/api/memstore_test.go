package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/99minutos/inventory-api/internal/core/domain"
	"github.com/99minutos/inventory-api/internal/core/ports"
)

// In-memory repositories backing the router tests. Ids are ObjectID hex
// strings so they pass the same validation as real store ids.

type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*domain.User{}} }

func (m *memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	cp := *u
	cp.ID = primitive.NewObjectID().Hex()
	m.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

type memProducts struct {
	mu       sync.Mutex
	products map[string]*domain.Product
}

func newMemProducts() *memProducts { return &memProducts{products: map[string]*domain.Product{}} }

func (m *memProducts) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.products {
		if existing.SKU == p.SKU {
			return nil, domain.ErrDuplicateSKU
		}
	}
	cp := *p
	cp.ID = primitive.NewObjectID().Hex()
	m.products[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memProducts) FindByID(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	out := *p
	return &out, nil
}

func (m *memProducts) FindByIDs(_ context.Context, ids []string) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memProducts) ExistsBySKU(_ context.Context, sku, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.products {
		if p.SKU == sku && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memProducts) Update(_ context.Context, id string, patch domain.ProductPatch, updatedAt time.Time) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	patch.Apply(p)
	p.UpdatedAt = updatedAt
	out := *p
	return &out, nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memProducts) List(_ context.Context, f ports.ProductFilter) ([]*domain.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*domain.Product
	for _, p := range m.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.InStock != nil && p.InStock != *f.InStock {
			continue
		}
		cp := *p
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return window(matched, f.Page, f.Limit), int64(len(matched)), nil
}

type memOrders struct {
	mu     sync.Mutex
	orders []*domain.Order
}

func (m *memOrders) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	cp.ID = primitive.NewObjectID().Hex()
	m.orders = append(m.orders, &cp)
	out := cp
	return &out, nil
}

func (m *memOrders) FindByID(_ context.Context, id, userID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id && (userID == "" || o.UserID == userID) {
			out := *o
			return &out, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (m *memOrders) List(_ context.Context, f ports.OrderFilter) ([]*domain.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*domain.Order
	for _, o := range m.orders {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		cp := *o
		matched = append(matched, &cp)
	}
	return window(matched, f.Page, f.Limit), int64(len(matched)), nil
}

func window[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
