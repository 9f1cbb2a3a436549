package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateFinanceEntryRequest asiento manual del libro financiero.
type CreateFinanceEntryRequest struct {
	Kind    string          `json:"kind" validate:"required,oneof=income expense"`
	Concept string          `json:"concept" validate:"required"`
	Amount  decimal.Decimal `json:"amount"`
	Date    *time.Time      `json:"date"`
}

// FinanceEntryResponse salida de un asiento.
type FinanceEntryResponse struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"store_id"`
	Kind        string          `json:"kind"`
	Concept     string          `json:"concept"`
	Amount      decimal.Decimal `json:"amount"`
	ReferenceID string          `json:"reference_id,omitempty"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// FinanceBalanceResponse resumen ingresos/egresos de la tienda.
type FinanceBalanceResponse struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}
