package repository

import (
	"github.com/dquispe/trastienda-api/internal/domain/entity"
	"github.com/dquispe/trastienda-api/internal/domain/stock"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
//
// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE); es el punto
// de serialización por producto del patrón validar-luego-aplicar: solo tiene
// sentido dentro de una transacción (TxRunner).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByStoreAndSKU(storeID, sku string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, total int64, byVariation stock.Grid) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Product, error)
	SearchByName(storeID, query string, limit int) ([]*entity.Product, error)
	Delete(id string) error
}
