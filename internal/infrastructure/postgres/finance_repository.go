package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dquispe/trastienda-api/internal/domain"
	"github.com/dquispe/trastienda-api/internal/domain/entity"
	"github.com/dquispe/trastienda-api/internal/domain/repository"
)

var _ repository.FinanceRepository = (*FinanceRepo)(nil)

// FinanceRepo implementación de FinanceRepository sobre PostgreSQL.
type FinanceRepo struct {
	q Querier
}

// NewFinanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFinanceRepository(q Querier) *FinanceRepo {
	return &FinanceRepo{q: q}
}

// Create persiste un asiento del libro financiero.
func (r *FinanceRepo) Create(entry *entity.FinanceEntry) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO finance_entries (id, store_id, kind, concept, amount, reference_id, date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.StoreID, entry.Kind, entry.Concept, entry.Amount,
		nullIfEmpty(entry.ReferenceID), entry.Date, entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert finance entry: %w", err)
	}
	return nil
}

// ListByStore lista asientos por tienda, con rango de fechas opcional.
func (r *FinanceRepo) ListByStore(storeID string, from, to *time.Time, limit, offset int) ([]*entity.FinanceEntry, error) {
	query := `SELECT id, store_id, kind, concept, amount, reference_id, date, created_at
		FROM finance_entries WHERE store_id = $1`
	args := []any{storeID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list finance entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.FinanceEntry
	for rows.Next() {
		var e entity.FinanceEntry
		var referenceID *string
		if err := rows.Scan(&e.ID, &e.StoreID, &e.Kind, &e.Concept, &e.Amount,
			&referenceID, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan finance entry: %w", err)
		}
		if referenceID != nil {
			e.ReferenceID = *referenceID
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// DeleteByReference elimina los asientos generados por una venta u orden.
// Se usa al anular la operación que los originó.
func (r *FinanceRepo) DeleteByReference(referenceID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM finance_entries WHERE reference_id = $1`, referenceID)
	if err != nil {
		return fmt.Errorf("delete finance entries by reference: %w", err)
	}
	return nil
}

// Balance calcula ingresos, egresos y saldo de la tienda.
func (r *FinanceRepo) Balance(storeID string) (*repository.FinanceBalance, error) {
	var b repository.FinanceBalance
	err := r.q.QueryRow(context.Background(),
		`SELECT
			COALESCE(SUM(CASE WHEN kind = 'income' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount ELSE 0 END), 0)
		 FROM finance_entries WHERE store_id = $1`, storeID,
	).Scan(&b.Income, &b.Expense)
	if err != nil {
		return nil, fmt.Errorf("finance balance: %w", err)
	}
	b.Balance = b.Income.Sub(b.Expense)
	return &b, nil
}
