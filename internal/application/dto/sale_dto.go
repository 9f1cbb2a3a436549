package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemDTO línea de una venta. Si UnitPrice es cero se usa el FinalPrice
// vigente del producto.
type SaleItemDTO struct {
	ProductID string             `json:"product_id" validate:"required"`
	Name      string             `json:"name,omitempty"`
	Quantity  int64              `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal    `json:"unit_price"`
	Lines     []VariationLineDTO `json:"lines"`
}

// CreateSaleRequest entrada para registrar una venta.
type CreateSaleRequest struct {
	Date  *time.Time    `json:"date"`
	Items []SaleItemDTO `json:"items" validate:"required,min=1"`
}

// UpdateSaleRequest entrada para editar una venta: se reversan las cantidades
// originales y se validan/aplican las nuevas.
type UpdateSaleRequest struct {
	Date  *time.Time    `json:"date"`
	Items []SaleItemDTO `json:"items" validate:"required,min=1"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"store_id"`
	Total     decimal.Decimal `json:"total"`
	Items     []SaleItemDTO   `json:"items"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
