package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/dquispe/trastienda-api/internal/application/dto"
	"github.com/dquispe/trastienda-api/internal/domain"
	"github.com/dquispe/trastienda-api/internal/domain/entity"
	"github.com/dquispe/trastienda-api/internal/domain/repository"
)

// FinanceUseCase casos de uso del libro financiero. Los asientos ligados a
// ventas y órdenes los escriben sus propios casos de uso; aquí solo asientos
// manuales y consultas.
type FinanceUseCase struct {
	repo repository.FinanceRepository
}

// NewFinanceUseCase construye el caso de uso.
func NewFinanceUseCase(repo repository.FinanceRepository) *FinanceUseCase {
	return &FinanceUseCase{repo: repo}
}

// Create registra un asiento manual.
func (uc *FinanceUseCase) Create(storeID string, in dto.CreateFinanceEntryRequest) (*dto.FinanceEntryResponse, error) {
	if in.Concept == "" || in.Amount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Kind != entity.FinanceKindIncome && in.Kind != entity.FinanceKindExpense {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	entry := &entity.FinanceEntry{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		Kind:      in.Kind,
		Concept:   in.Concept,
		Amount:    in.Amount,
		Date:      date,
		CreatedAt: now,
	}
	if err := uc.repo.Create(entry); err != nil {
		return nil, err
	}
	return toFinanceEntryResponse(entry), nil
}

// List lista asientos de la tienda, con rango de fechas opcional.
func (uc *FinanceUseCase) List(storeID string, from, to *time.Time, limit, offset int) ([]dto.FinanceEntryResponse, error) {
	list, err := uc.repo.ListByStore(storeID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FinanceEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toFinanceEntryResponse(e))
	}
	return items, nil
}

// Balance resume ingresos, egresos y saldo de la tienda.
func (uc *FinanceUseCase) Balance(storeID string) (*dto.FinanceBalanceResponse, error) {
	b, err := uc.repo.Balance(storeID)
	if err != nil {
		return nil, err
	}
	return &dto.FinanceBalanceResponse{
		Income:  b.Income,
		Expense: b.Expense,
		Balance: b.Balance,
	}, nil
}

func toFinanceEntryResponse(e *entity.FinanceEntry) *dto.FinanceEntryResponse {
	return &dto.FinanceEntryResponse{
		ID:          e.ID,
		StoreID:     e.StoreID,
		Kind:        e.Kind,
		Concept:     e.Concept,
		Amount:      e.Amount,
		ReferenceID: e.ReferenceID,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
}
