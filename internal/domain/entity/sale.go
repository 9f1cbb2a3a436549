package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dquispe/trastienda-api/internal/domain/stock"
)

// SaleItem línea de una venta. Se persiste como JSONB.
type SaleItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"` // nombre del producto al momento de la venta (para la boleta)
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Lines     []stock.Line    `json:"lines,omitempty"`
}

// Sale una venta. Al crearse descuenta stock (delta negativo por ítem, previa
// validación); al anularse o editarse se reversa con las cantidades
// originales.
type Sale struct {
	ID        string
	StoreID   string
	Items     []SaleItem
	Total     decimal.Decimal
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
