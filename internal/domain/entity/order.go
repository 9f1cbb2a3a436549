package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dquispe/trastienda-api/internal/domain/stock"
)

// Estado de una orden de compra. Anular una orden la reversa y la elimina,
// por lo que solo persiste el estado recibido.
const OrderStatusReceived = "received"

// OrderItem línea de una orden de compra. Lines desglosa la cantidad por
// variación cuando el producto las tiene. Se persiste como JSONB.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Lines     []stock.Line    `json:"lines,omitempty"`
}

// Order una orden de compra a proveedor. Al crearse ingresa stock (delta
// positivo por ítem); al anularse o editarse se reversa con las cantidades
// originales.
type Order struct {
	ID         string
	StoreID    string
	SupplierID string
	Items      []OrderItem
	Status     string
	Total      decimal.Decimal
	Date       time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
