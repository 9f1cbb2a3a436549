package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dquispe/trastienda-api/internal/domain"
	"github.com/dquispe/trastienda-api/internal/domain/entity"
	"github.com/dquispe/trastienda-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL. Los ítems
// viajan como JSONB en la misma fila.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste una nueva orden de compra.
func (r *OrderRepo) Create(order *entity.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	_, err = r.q.Exec(context.Background(),
		`INSERT INTO orders (id, store_id, supplier_id, items, status, total, date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		order.ID, order.StoreID, nullIfEmpty(order.SupplierID), items,
		order.Status, order.Total, order.Date, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT id, store_id, supplier_id, items, status, total, date, created_at, updated_at
		 FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// Update actualiza una orden existente (ítems, total y fecha).
func (r *OrderRepo) Update(order *entity.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	_, err = r.q.Exec(context.Background(),
		`UPDATE orders SET supplier_id = $2, items = $3, status = $4, total = $5, date = $6, updated_at = $7
		 WHERE id = $1`,
		order.ID, nullIfEmpty(order.SupplierID), items, order.Status, order.Total, order.Date, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// ListByStore lista órdenes por tienda con paginación.
func (r *OrderRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Order, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, store_id, supplier_id, items, status, total, date, created_at, updated_at
		 FROM orders WHERE store_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`,
		storeID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Delete elimina una orden por ID.
func (r *OrderRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var supplierID *string
	var items []byte
	err := row.Scan(&o.ID, &o.StoreID, &supplierID, &items, &o.Status, &o.Total,
		&o.Date, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if supplierID != nil {
		o.SupplierID = *supplierID
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	return &o, nil
}
