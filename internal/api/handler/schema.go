package handler

import (
	"time"

	"github.com/99minutos/inventory-api/internal/core/domain"
	"github.com/99minutos/inventory-api/internal/core/ports"
)

// --- Envelopes ---

// ErrorResponse is the error envelope returned on all 4xx/5xx responses.
type ErrorResponse struct {
	Status  string   `json:"status" example:"error"`
	Message string   `json:"message" example:"Validation échouée"`
	Details []string `json:"details,omitempty"`
}

// successResponse is the envelope of every 2xx response with a body.
type successResponse struct {
	Status string    `json:"status" example:"success"`
	Data   any       `json:"data"`
	Meta   *pageMeta `json:"meta,omitempty"`
	Token  string    `json:"token,omitempty"`
}

type pageMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

func success(data any) successResponse {
	return successResponse{Status: "success", Data: data}
}

func paged[T any](p *ports.Page[T]) successResponse {
	return successResponse{
		Status: "success",
		Data:   p.Items,
		Meta:   &pageMeta{Total: p.Total, Page: p.Page, Pages: p.Pages},
	}
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email" validate:"required,email" example:"e@x.com"`
	Password string `json:"password" validate:"required,min=6" example:"password123"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin" example:"user"`
}

func (r *registerRequest) normalize() {
	r.Email = domain.NormalizeEmail(r.Email)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"e@x.com"`
	Password string `json:"password" validate:"required" example:"password123"`
}

func (r *loginRequest) normalize() {
	r.Email = domain.NormalizeEmail(r.Email)
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

// --- Products ---

type createProductRequest struct {
	Name        string   `json:"name" validate:"required,min=3,max=100" example:"Clavier mécanique"`
	SKU         string   `json:"sku" validate:"required,min=3,max=20,sku" example:"KB-001"`
	Price       *float64 `json:"price" validate:"required,gt=0,price2" example:"49.99"`
	Category    string   `json:"category" validate:"required,min=3,max=100" example:"peripheriques"`
	Stock       *int     `json:"stock" validate:"omitempty,min=0" example:"10"`
	InStock     *bool    `json:"inStock" example:"true"`
	Description string   `json:"description" validate:"omitempty,max=500"`
}

func (r *createProductRequest) toInput() ports.CreateProductInput {
	in := ports.CreateProductInput{
		Name:        r.Name,
		SKU:         r.SKU,
		Category:    r.Category,
		Stock:       r.Stock,
		InStock:     r.InStock,
		Description: r.Description,
	}
	if r.Price != nil {
		in.Price = *r.Price
	}
	return in
}

type updateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=3,max=100"`
	SKU         *string  `json:"sku" validate:"omitempty,min=3,max=20,sku"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0,price2"`
	Category    *string  `json:"category" validate:"omitempty,min=3,max=100"`
	Stock       *int     `json:"stock" validate:"omitempty,min=0"`
	InStock     *bool    `json:"inStock"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
}

func (r *updateProductRequest) toPatch() domain.ProductPatch {
	return domain.ProductPatch{
		Name:        r.Name,
		SKU:         r.SKU,
		Price:       r.Price,
		Category:    r.Category,
		Stock:       r.Stock,
		InStock:     r.InStock,
		Description: r.Description,
	}
}

// --- Orders ---

type orderItemRequest struct {
	ProductID string `json:"productId" validate:"required,mongodb" example:"665f1c2e9b1e8a3d4c5b6a70"`
	Quantity  *int   `json:"quantity" validate:"required,min=1" example:"2"`
}

type createOrderRequest struct {
	Items []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r *createOrderRequest) toInput() ports.CreateOrderInput {
	items := make([]ports.OrderItemInput, len(r.Items))
	for i, it := range r.Items {
		items[i] = ports.OrderItemInput{ProductID: it.ProductID}
		if it.Quantity != nil {
			items[i].Quantity = *it.Quantity
		}
	}
	return ports.CreateOrderInput{Items: items}
}
