package sales

import (
	"fmt"

	"github.com/dquispe/trastienda-api/internal/domain/stock"
)

// InsufficientStockError añade el producto al detalle del libro de stock.
// errors.Is(err, domain.ErrInsufficientStock) sigue funcionando vía Unwrap.
type InsufficientStockError struct {
	ProductID string
	Detail    *stock.InsufficientStockError
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("producto %s: %s", e.ProductID, e.Detail.Error())
}

func (e *InsufficientStockError) Unwrap() error { return e.Detail }
