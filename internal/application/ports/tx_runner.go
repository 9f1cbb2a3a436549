package ports

import (
	"context"

	"github.com/dquispe/trastienda-api/internal/domain/repository"
)

// TxRunner abre una transacción y ejecuta fn con repositorios atados a ella;
// Commit si fn retorna nil, Rollback si no.
//
// Es la frontera de serialización por producto: ProductRepository.GetForUpdate
// dentro de fn bloquea la fila hasta el Commit, de modo que la secuencia
// validar-luego-aplicar de una venta nunca corre contra otra mutación
// concurrente del mismo producto.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
	) error) error
}
