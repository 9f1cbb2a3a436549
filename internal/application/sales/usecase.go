// Package sales implementa las ventas. Cada ítem sigue el patrón
// validar-luego-aplicar del libro de stock, con ambas fases dentro de la
// misma transacción y la fila del producto bloqueada, de modo que dos ventas
// concurrentes del mismo producto no puedan sobre-vender. No hay atomicidad
// entre productos: si el ítem k falla la validación, los deltas ya aplicados
// de los ítems anteriores se compensan con un bucle de reverso explícito.
package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/dquispe/trastienda-api/internal/application/dto"
	"github.com/dquispe/trastienda-api/internal/application/ports"
	"github.com/dquispe/trastienda-api/internal/domain"
	"github.com/dquispe/trastienda-api/internal/domain/entity"
	"github.com/dquispe/trastienda-api/internal/domain/repository"
	"github.com/dquispe/trastienda-api/internal/domain/stock"
)

// UseCase casos de uso de ventas.
type UseCase struct {
	txRunner ports.TxRunner
	sales    repository.SaleRepository
	products repository.ProductRepository
	stores   repository.StoreRepository
	finance  repository.FinanceRepository
	receipts ReceiptGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ports.TxRunner,
	sales repository.SaleRepository,
	products repository.ProductRepository,
	stores repository.StoreRepository,
	finance repository.FinanceRepository,
	receipts ReceiptGenerator,
) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		sales:    sales,
		products: products,
		stores:   stores,
		finance:  finance,
		receipts: receipts,
	}
}

// saleDelta un descuento de stock listo para aplicar sobre un producto.
type saleDelta struct {
	ProductID string
	Delta     stock.Delta
}

// Create registra una venta: valida y descuenta el stock de cada ítem y
// asienta el ingreso en el libro financiero.
func (uc *UseCase) Create(ctx context.Context, storeID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items, deltas, err := uc.buildItems(storeID, in.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		Items:     items,
		Total:     saleTotal(items),
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	applied, err := uc.sellAll(ctx, storeID, sale.ID, deltas)
	if err != nil {
		uc.compensate(ctx, storeID, sale.ID, applied)
		return nil, err
	}
	if err := uc.sales.Create(sale); err != nil {
		uc.compensate(ctx, storeID, sale.ID, applied)
		return nil, err
	}
	if err := uc.finance.Create(&entity.FinanceEntry{
		ID:          uuid.New().String(),
		StoreID:     storeID,
		Kind:        entity.FinanceKindIncome,
		Concept:     "Venta " + sale.ID,
		Amount:      sale.Total,
		ReferenceID: sale.ID,
		Date:        date,
		CreatedAt:   now,
	}); err != nil {
		log.Warn().Err(err).Str("venta", sale.ID).Msg("asiento de ingreso no registrado")
	}
	return toSaleResponse(sale), nil
}

// Update edita una venta: restaura las cantidades originales, valida y
// descuenta las nuevas, y actualiza el registro. Si las nuevas fallan a
// mitad, se compensan las aplicadas y se vuelven a descontar las originales.
func (uc *UseCase) Update(ctx context.Context, storeID, id string, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.sales.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	newItems, newDeltas, err := uc.buildItems(storeID, in.Items)
	if err != nil {
		return nil, err
	}
	oldDeltas := itemDeltas(sale.Items)

	// Restaurar el stock de las cantidades originales (delta positivo).
	restored, err := uc.restoreAll(ctx, storeID, sale.ID, oldDeltas)
	if err != nil {
		uc.compensate(ctx, storeID, sale.ID, restored)
		return nil, err
	}
	// Validar y descontar las nuevas cantidades.
	applied, err := uc.sellAll(ctx, storeID, sale.ID, newDeltas)
	if err != nil {
		uc.compensate(ctx, storeID, sale.ID, applied)
		// Volver a descontar las originales (mejor esfuerzo, sin validar:
		// acaban de estar descontadas).
		uc.compensate(ctx, storeID, sale.ID, restored)
		return nil, err
	}

	sale.Items = newItems
	sale.Total = saleTotal(newItems)
	if in.Date != nil {
		sale.Date = *in.Date
	}
	sale.UpdatedAt = time.Now()
	if err := uc.sales.Update(sale); err != nil {
		// El registro no cambió: deshacer los nuevos descuentos y volver a
		// descontar las cantidades originales.
		uc.compensate(ctx, storeID, sale.ID, applied)
		uc.compensate(ctx, storeID, sale.ID, restored)
		return nil, err
	}
	if err := uc.finance.DeleteByReference(sale.ID); err != nil {
		log.Warn().Err(err).Str("venta", sale.ID).Msg("asientos anteriores no borrados")
	}
	if err := uc.finance.Create(&entity.FinanceEntry{
		ID:          uuid.New().String(),
		StoreID:     storeID,
		Kind:        entity.FinanceKindIncome,
		Concept:     "Venta " + sale.ID,
		Amount:      sale.Total,
		ReferenceID: sale.ID,
		Date:        sale.Date,
		CreatedAt:   sale.UpdatedAt,
	}); err != nil {
		log.Warn().Err(err).Str("venta", sale.ID).Msg("asiento de ingreso no registrado")
	}
	return toSaleResponse(sale), nil
}

// Delete anula una venta: restaura el stock de las cantidades originales,
// borra el registro y sus asientos.
func (uc *UseCase) Delete(ctx context.Context, storeID, id string) error {
	sale, err := uc.sales.GetByID(id)
	if err != nil {
		return err
	}
	if sale == nil || sale.StoreID != storeID {
		return domain.ErrNotFound
	}
	restored, err := uc.restoreAll(ctx, storeID, sale.ID, itemDeltas(sale.Items))
	if err != nil {
		uc.compensate(ctx, storeID, sale.ID, restored)
		return err
	}
	if err := uc.sales.Delete(id); err != nil {
		// La venta sigue vigente: volver a descontar lo restaurado.
		uc.compensate(ctx, storeID, sale.ID, restored)
		return err
	}
	return uc.finance.DeleteByReference(id)
}

// GetByID obtiene una venta de la tienda.
func (uc *UseCase) GetByID(storeID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.StoreID != storeID {
		return nil, nil
	}
	return toSaleResponse(sale), nil
}

// List lista ventas de la tienda con paginación.
func (uc *UseCase) List(storeID string, limit, offset int) (*dto.SaleListResponse, error) {
	list, err := uc.sales.ListByStore(storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Receipt genera la boleta PDF de una venta.
func (uc *UseCase) Receipt(ctx context.Context, storeID, id string) ([]byte, error) {
	sale, err := uc.sales.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	store, err := uc.stores.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	return uc.receipts.GenerateReceipt(ctx, sale, store)
}

// buildItems valida los ítems contra el catálogo y arma entidades y deltas
// de salida (negativos). UnitPrice cero toma el FinalPrice vigente.
func (uc *UseCase) buildItems(storeID string, in []dto.SaleItemDTO) ([]entity.SaleItem, []saleDelta, error) {
	items := make([]entity.SaleItem, 0, len(in))
	deltas := make([]saleDelta, 0, len(in))
	for _, it := range in {
		if it.ProductID == "" || it.Quantity <= 0 || it.UnitPrice.IsNegative() {
			return nil, nil, domain.ErrInvalidInput
		}
		product, err := uc.products.GetByID(it.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if product == nil || product.StoreID != storeID {
			return nil, nil, domain.ErrNotFound
		}
		lines := dto.ToStockLines(it.Lines)
		if err := stock.CheckDeltaShape(product.Variations, it.Quantity, lines); err != nil {
			return nil, nil, err
		}
		unitPrice := it.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.Prices.FinalPrice
		}
		name := it.Name
		if name == "" {
			name = product.Name
		}
		items = append(items, entity.SaleItem{
			ProductID: it.ProductID,
			Name:      name,
			Quantity:  it.Quantity,
			UnitPrice: unitPrice,
			Lines:     lines,
		})
		deltas = append(deltas, saleDelta{
			ProductID: it.ProductID,
			Delta:     stock.Delta{Quantity: -it.Quantity, Lines: lines},
		})
	}
	return items, deltas, nil
}

// sellAll valida y aplica los descuentos producto por producto, cada uno en
// su propia transacción. Devuelve los ya aplicados para compensación.
func (uc *UseCase) sellAll(ctx context.Context, storeID, saleID string, deltas []saleDelta) ([]saleDelta, error) {
	applied := make([]saleDelta, 0, len(deltas))
	for _, sd := range deltas {
		if err := uc.sellOne(ctx, storeID, saleID, sd); err != nil {
			return applied, err
		}
		applied = append(applied, sd)
	}
	return applied, nil
}

// sellOne bloquea la fila del producto, valida la venta contra el estado
// actual y recién entonces aplica el delta, todo dentro de la transacción.
func (uc *UseCase) sellOne(ctx context.Context, storeID, saleID string, sd saleDelta) error {
	return uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
	) error {
		product, err := products.GetForUpdate(sd.ProductID)
		if err != nil {
			return err
		}
		if product == nil || product.StoreID != storeID {
			return domain.ErrNotFound
		}
		state := product.StockState()
		req := stock.SaleRequest{Quantity: -sd.Delta.Quantity, Lines: sd.Delta.Lines}
		if err := stock.ValidateForSale(state, req); err != nil {
			if ise, ok := err.(*stock.InsufficientStockError); ok {
				return &InsufficientStockError{ProductID: sd.ProductID, Detail: ise}
			}
			return err
		}
		product.SetStockState(stock.Apply(state, sd.Delta))
		if err := products.UpdateStock(product.ID, product.Stock, product.StockByVariation); err != nil {
			return err
		}
		return movements.Create(&entity.StockMovement{
			ID:          uuid.New().String(),
			StoreID:     storeID,
			ProductID:   sd.ProductID,
			Type:        entity.MovementTypeSale,
			Quantity:    sd.Delta.Quantity,
			Lines:       sd.Delta.Lines,
			ReferenceID: saleID,
			CreatedAt:   time.Now(),
		})
	})
}

// restoreAll devuelve stock (delta invertido, positivo) sin validación, cada
// producto en su propia transacción.
func (uc *UseCase) restoreAll(ctx context.Context, storeID, saleID string, deltas []saleDelta) ([]saleDelta, error) {
	restored := make([]saleDelta, 0, len(deltas))
	for _, sd := range deltas {
		inv := saleDelta{ProductID: sd.ProductID, Delta: stock.Invert(sd.Delta)}
		if err := uc.applyOne(ctx, storeID, saleID, inv); err != nil {
			return restored, err
		}
		restored = append(restored, inv)
	}
	return restored, nil
}

// applyOne aplica un delta sin validar (reversos y compensaciones).
func (uc *UseCase) applyOne(ctx context.Context, storeID, saleID string, sd saleDelta) error {
	return uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
	) error {
		product, err := products.GetForUpdate(sd.ProductID)
		if err != nil {
			return err
		}
		if product == nil || product.StoreID != storeID {
			return domain.ErrNotFound
		}
		product.SetStockState(stock.Apply(product.StockState(), sd.Delta))
		if err := products.UpdateStock(product.ID, product.Stock, product.StockByVariation); err != nil {
			return err
		}
		return movements.Create(&entity.StockMovement{
			ID:          uuid.New().String(),
			StoreID:     storeID,
			ProductID:   sd.ProductID,
			Type:        entity.MovementTypeReversal,
			Quantity:    sd.Delta.Quantity,
			Lines:       sd.Delta.Lines,
			ReferenceID: saleID,
			CreatedAt:   time.Now(),
		})
	})
}

// compensate reversa, mejor esfuerzo, los deltas ya aplicados de una
// secuencia que falló a mitad.
func (uc *UseCase) compensate(ctx context.Context, storeID, saleID string, applied []saleDelta) {
	for i := len(applied) - 1; i >= 0; i-- {
		inv := saleDelta{ProductID: applied[i].ProductID, Delta: stock.Invert(applied[i].Delta)}
		_ = uc.applyOne(ctx, storeID, saleID, inv)
	}
}

func itemDeltas(items []entity.SaleItem) []saleDelta {
	out := make([]saleDelta, 0, len(items))
	for _, it := range items {
		out = append(out, saleDelta{
			ProductID: it.ProductID,
			Delta:     stock.Delta{Quantity: -it.Quantity, Lines: it.Lines},
		})
	}
	return out
}

func saleTotal(items []entity.SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemDTO, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemDTO{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Lines:     dto.FromStockLines(it.Lines),
		})
	}
	return &dto.SaleResponse{
		ID:        s.ID,
		StoreID:   s.StoreID,
		Total:     s.Total,
		Items:     items,
		Date:      s.Date,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
