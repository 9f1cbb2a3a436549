package entity

import (
	"time"

	"github.com/dquispe/trastienda-api/internal/domain/stock"
)

// Tipos de movimiento de stock.
const (
	MovementTypeOrder        = "order"         // orden de compra recibida (entrada)
	MovementTypeSale         = "sale"          // venta (salida)
	MovementTypeReversal     = "reversal"      // reverso de una orden o venta
	MovementTypeManualAdjust = "manual_adjust" // ajuste manual desde el catálogo
)

// StockMovement registra cada delta aplicado al stock de un producto
// (auditoría). Quantity lleva el signo del delta; Lines su desglose por
// variación cuando existe.
type StockMovement struct {
	ID          string
	StoreID     string
	ProductID   string
	Type        string
	Quantity    int64
	Lines       []stock.Line
	ReferenceID string // orden o venta que originó el delta
	CreatedAt   time.Time
}
