package domain

import "time"

var (
	ErrProductNotFound = &Error{Kind: KindNotFound, Code: "product_not_found", Message: "Produit introuvable"}
	ErrDuplicateSKU    = &Error{Kind: KindInvalid, Code: "duplicate_sku", Message: "Ce SKU existe déjà"}
)

// Product is a catalog entry. SKU is unique across the catalog.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	InStock     bool      `json:"inStock"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductPatch carries a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	SKU         *string
	Price       *float64
	Category    *string
	Stock       *int
	InStock     *bool
	Description *string
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.SKU == nil && p.Price == nil && p.Category == nil &&
		p.Stock == nil && p.InStock == nil && p.Description == nil
}

// Apply writes the non-nil fields of p onto prod.
func (p ProductPatch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.SKU != nil {
		prod.SKU = *p.SKU
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
	if p.Stock != nil {
		prod.Stock = *p.Stock
	}
	if p.InStock != nil {
		prod.InStock = *p.InStock
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
}
