package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemDTO línea de una orden de compra.
type OrderItemDTO struct {
	ProductID string             `json:"product_id" validate:"required"`
	Quantity  int64              `json:"quantity" validate:"required,gt=0"`
	UnitCost  decimal.Decimal    `json:"unit_cost"`
	Lines     []VariationLineDTO `json:"lines"`
}

// CreateOrderRequest entrada para registrar una orden de compra recibida.
type CreateOrderRequest struct {
	SupplierID string         `json:"supplier_id" validate:"required"`
	Date       *time.Time     `json:"date"`
	Items      []OrderItemDTO `json:"items" validate:"required,min=1"`
}

// UpdateOrderRequest entrada para editar una orden: se reversan las
// cantidades originales y se aplican las nuevas.
type UpdateOrderRequest struct {
	SupplierID *string        `json:"supplier_id"`
	Date       *time.Time     `json:"date"`
	Items      []OrderItemDTO `json:"items" validate:"required,min=1"`
}

// OrderResponse salida de una orden de compra.
type OrderResponse struct {
	ID         string          `json:"id"`
	StoreID    string          `json:"store_id"`
	SupplierID string          `json:"supplier_id"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
	Items      []OrderItemDTO  `json:"items"`
	Date       time.Time       `json:"date"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
