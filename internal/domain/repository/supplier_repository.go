package repository

import "github.com/dquispe/trastienda-api/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Supplier, error)
	Delete(id string) error
}
