package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dquispe/trastienda-api/internal/domain/entity"
)

// FinanceBalance resumen del libro financiero de una tienda.
type FinanceBalance struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// FinanceRepository define el puerto de persistencia para FinanceEntry (DIP).
type FinanceRepository interface {
	Create(entry *entity.FinanceEntry) error
	ListByStore(storeID string, from, to *time.Time, limit, offset int) ([]*entity.FinanceEntry, error)
	DeleteByReference(referenceID string) error
	Balance(storeID string) (*FinanceBalance, error)
}
