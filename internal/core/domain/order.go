package domain

import (
	"math"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

var (
	ErrOrderNotFound        = &Error{Kind: KindNotFound, Code: "order_not_found", Message: "Commande introuvable"}
	ErrOrderProductNotFound = &Error{Kind: KindNotFound, Code: "order_product_not_found", Message: "Produit introuvable"}
	ErrEmptyOrder           = &Error{Kind: KindInvalid, Code: "empty_order", Message: "La commande doit contenir au moins un article"}
)

// OrderItem is a single line of an order. UnitPrice is the product price
// captured when the order was placed.
type OrderItem struct {
	ProductID string  `json:"product"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Order is an immutable purchase record owned by a user.
type Order struct {
	ID          string      `json:"id"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"totalAmount"`
	Status      OrderStatus `json:"status"`
	UserID      string      `json:"user"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// TotalAmount sums quantity × unit price over items, rounded to cents.
func TotalAmount(items []OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += float64(it.Quantity) * it.UnitPrice
	}
	return math.Round(total*100) / 100
}
