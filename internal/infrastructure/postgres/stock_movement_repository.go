package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dquispe/trastienda-api/internal/domain/entity"
	"github.com/dquispe/trastienda-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación de StockMovementRepository sobre
// PostgreSQL. El desglose por variación va como JSONB.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	lines, err := json.Marshal(movement.Lines)
	if err != nil {
		return fmt.Errorf("marshal movement lines: %w", err)
	}
	_, err = r.q.Exec(context.Background(),
		`INSERT INTO stock_movements (id, store_id, product_id, type, quantity, lines, reference_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		movement.ID, movement.StoreID, movement.ProductID, movement.Type,
		movement.Quantity, lines, nullIfEmpty(movement.ReferenceID), movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista movimientos de un producto, con rango de fechas opcional.
func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list("product_id", productID, from, to, limit, offset)
}

// ListByStore lista movimientos de una tienda, con rango de fechas opcional.
func (r *StockMovementRepo) ListByStore(storeID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list("store_id", storeID, from, to, limit, offset)
}

func (r *StockMovementRepo) list(column, id string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT id, store_id, product_id, type, quantity, lines, reference_id, created_at
		FROM stock_movements WHERE ` + column + ` = $1`
	args := []any{id}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var lines []byte
	var referenceID *string
	err := row.Scan(&m.ID, &m.StoreID, &m.ProductID, &m.Type, &m.Quantity,
		&lines, &referenceID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if referenceID != nil {
		m.ReferenceID = *referenceID
	}
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &m.Lines); err != nil {
			return nil, fmt.Errorf("unmarshal movement lines: %w", err)
		}
	}
	return &m, nil
}
