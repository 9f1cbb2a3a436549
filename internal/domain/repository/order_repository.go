package repository

import "github.com/dquispe/trastienda-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para Order (DIP).
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	Update(order *entity.Order) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Order, error)
	Delete(id string) error
}
