package repository

import "github.com/dquispe/trastienda-api/internal/domain/entity"

// SaleRepository define el puerto de persistencia para Sale (DIP).
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	Update(sale *entity.Sale) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Sale, error)
	Delete(id string) error
}
