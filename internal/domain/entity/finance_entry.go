package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento del libro financiero.
const (
	FinanceKindIncome  = "income"
	FinanceKindExpense = "expense"
)

// FinanceEntry un asiento simple del libro financiero de la tienda. Las
// ventas generan ingresos y las órdenes de compra egresos; también se admiten
// asientos manuales.
type FinanceEntry struct {
	ID          string
	StoreID     string
	Kind        string
	Concept     string
	Amount      decimal.Decimal
	ReferenceID string // venta u orden asociada; vacío en asientos manuales
	Date        time.Time
	CreatedAt   time.Time
}
