package repository

import (
	"time"

	"github.com/dquispe/trastienda-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para la auditoría
// de movimientos de stock (DIP).
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByStore(storeID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
