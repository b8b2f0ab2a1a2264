package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/99minutos/inventory-api/internal/core/domain"
	"github.com/99minutos/inventory-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[string]*domain.User // by id
	nextID  int
	findErr error
	// staleLookup makes FindByEmail miss existing users, as when a
	// concurrent registration commits between the lookup and the insert.
	staleLookup bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	clone := *user
	clone.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.staleLookup {
		return nil, domain.ErrUserNotFound
	}
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

type stubProductRepo struct {
	items  map[string]*domain.Product
	nextID int
	// staleLookup makes ExistsBySKU report false; Create and Update still
	// enforce uniqueness like the unique index does.
	staleLookup bool
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{items: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) seed(p domain.Product) *domain.Product {
	r.nextID++
	if p.ID == "" {
		p.ID = fmt.Sprintf("p%d", r.nextID)
	}
	r.items[p.ID] = &p
	out := p
	return &out
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	for _, existing := range r.items {
		if existing.SKU == p.SKU {
			return nil, domain.ErrDuplicateSKU
		}
	}
	return r.seed(*p), nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, id := range ids {
		if p, ok := r.items[id]; ok {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubProductRepo) ExistsBySKU(_ context.Context, sku, excludeID string) (bool, error) {
	if r.staleLookup {
		return false, nil
	}
	for _, p := range r.items {
		if p.SKU == sku && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductRepo) Update(_ context.Context, id string, patch domain.ProductPatch, updatedAt time.Time) (*domain.Product, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if patch.SKU != nil {
		for _, other := range r.items {
			if other.ID != id && other.SKU == *patch.SKU {
				return nil, domain.ErrDuplicateSKU
			}
		}
	}
	patch.Apply(p)
	p.UpdatedAt = updatedAt
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *stubProductRepo) List(_ context.Context, f ports.ProductFilter) ([]*domain.Product, int64, error) {
	var matched []*domain.Product
	for _, p := range r.items {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.InStock != nil && p.InStock != *f.InStock {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

type stubOrderRepo struct {
	items     map[string]*domain.Order
	nextID    int
	createErr error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{items: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *o
	clone.ID = fmt.Sprintf("o%d", r.nextID)
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id, userID string) (*domain.Order, error) {
	o, ok := r.items[id]
	if !ok || (userID != "" && o.UserID != userID) {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) List(_ context.Context, f ports.OrderFilter) ([]*domain.Order, int64, error) {
	var matched []*domain.Order
	for _, o := range r.items {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		clone := *o
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

func paginate[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// recordingSink captures audit events instead of persisting them.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *recordingSink) Enqueue(e domain.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.Action
	}
	return out
}
