package sales

import (
	"context"

	"github.com/dquispe/trastienda-api/internal/domain/entity"
)

// ReceiptGenerator renderiza la boleta de una venta (PDF).
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, sale *entity.Sale, store *entity.Store) ([]byte, error)
}
