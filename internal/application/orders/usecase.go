// Package orders implementa las órdenes de compra a proveedor. Crear una
// orden ingresa stock (delta positivo por ítem); anularla o editarla reversa
// las cantidades originales. Cada delta se aplica en su propia transacción
// con la fila del producto bloqueada; no hay atomicidad entre productos, así
// que un fallo a mitad de secuencia dispara un bucle de compensación
// explícito sobre los deltas ya aplicados.
package orders

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

// UseCase casos de uso de órdenes de compra.
type UseCase struct {
	txRunner  ports.TxRunner
	orders    repository.OrderRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	finance   repository.FinanceRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ports.TxRunner,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	finance repository.FinanceRepository,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		orders:    orders,
		products:  products,
		suppliers: suppliers,
		finance:   finance,
	}
}

// productDelta un delta listo para aplicar sobre un producto concreto.
type productDelta struct {
	ProductID string
	Delta     stock.Delta
}

// Create registra una orden recibida: ingresa el stock de cada ítem y asienta
// el egreso en el libro financiero.
func (uc *UseCase) Create(ctx context.Context, storeID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 || in.SupplierID == "" {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.suppliers.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.StoreID != storeID {
		return nil, domain.ErrNotFound
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
	order := &entity.Order{
		ID:         uuid.New().String(),
		StoreID:    storeID,
		SupplierID: in.SupplierID,
		Items:      items,
		Status:     entity.OrderStatusReceived,
		Total:      orderTotal(items),
		Date:       date,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	applied, err := uc.applyAll(ctx, storeID, order.ID, entity.MovementTypeOrder, deltas)
	if err != nil {
		uc.compensate(ctx, storeID, order.ID, applied)
		return nil, err
	}
	if err := uc.orders.Create(order); err != nil {
		uc.compensate(ctx, storeID, order.ID, applied)
		return nil, err
	}
	if err := uc.finance.Create(&entity.FinanceEntry{
		ID:          uuid.New().String(),
		StoreID:     storeID,
		Kind:        entity.FinanceKindExpense,
		Concept:     "Orden de compra " + order.ID,
		Amount:      order.Total,
		ReferenceID: order.ID,
		Date:        date,
		CreatedAt:   now,
	}); err != nil {
		log.Warn().Err(err).Str("orden", order.ID).Msg("asiento de egreso no registrado")
	}
	return toOrderResponse(order), nil
}

// Update edita una orden: reversa las cantidades originales, aplica las
// nuevas y actualiza el registro. Si la aplicación de las nuevas falla a
// mitad, se compensan las ya aplicadas y se restauran las originales.
func (uc *UseCase) Update(ctx context.Context, storeID, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil || order.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	if in.SupplierID != nil {
		supplier, err := uc.suppliers.GetByID(*in.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil || supplier.StoreID != storeID {
			return nil, domain.ErrNotFound
		}
		order.SupplierID = *in.SupplierID
	}

	newItems, newDeltas, err := uc.buildItems(storeID, in.Items)
	if err != nil {
		return nil, err
	}
	oldDeltas := itemDeltas(order.Items)

	// Reverso de las cantidades originales.
	reverted, err := uc.applyAll(ctx, storeID, order.ID, entity.MovementTypeReversal, invertAll(oldDeltas))
	if err != nil {
		uc.compensate(ctx, storeID, order.ID, reverted)
		return nil, err
	}
	// Aplicación de las nuevas.
	applied, err := uc.applyAll(ctx, storeID, order.ID, entity.MovementTypeOrder, newDeltas)
	if err != nil {
		uc.compensate(ctx, storeID, order.ID, applied)
		// Restaurar las originales (mejor esfuerzo: el reverso ya se asentó).
		uc.compensate(ctx, storeID, order.ID, reverted)
		return nil, err
	}

	order.Items = newItems
	order.Total = orderTotal(newItems)
	if in.Date != nil {
		order.Date = *in.Date
	}
	order.UpdatedAt = time.Now()
	if err := uc.orders.Update(order); err != nil {
		// El registro no cambió: deshacer las nuevas entradas y reingresar
		// las cantidades originales.
		uc.compensate(ctx, storeID, order.ID, applied)
		uc.compensate(ctx, storeID, order.ID, reverted)
		return nil, err
	}
	if err := uc.finance.DeleteByReference(order.ID); err != nil {
		log.Warn().Err(err).Str("orden", order.ID).Msg("asientos anteriores no borrados")
	}
	if err := uc.finance.Create(&entity.FinanceEntry{
		ID:          uuid.New().String(),
		StoreID:     storeID,
		Kind:        entity.FinanceKindExpense,
		Concept:     "Orden de compra " + order.ID,
		Amount:      order.Total,
		ReferenceID: order.ID,
		Date:        order.Date,
		CreatedAt:   order.UpdatedAt,
	}); err != nil {
		log.Warn().Err(err).Str("orden", order.ID).Msg("asiento de egreso no registrado")
	}
	return toOrderResponse(order), nil
}

// Delete anula una orden: reversa las cantidades originales (la mercadería
// vuelve al proveedor), borra el registro y sus asientos.
func (uc *UseCase) Delete(ctx context.Context, storeID, id string) error {
	order, err := uc.orders.GetByID(id)
	if err != nil {
		return err
	}
	if order == nil || order.StoreID != storeID {
		return domain.ErrNotFound
	}
	reverted, err := uc.applyAll(ctx, storeID, order.ID, entity.MovementTypeReversal, invertAll(itemDeltas(order.Items)))
	if err != nil {
		uc.compensate(ctx, storeID, order.ID, reverted)
		return err
	}
	if err := uc.orders.Delete(id); err != nil {
		// La orden sigue vigente: reingresar lo reversado.
		uc.compensate(ctx, storeID, order.ID, reverted)
		return err
	}
	return uc.finance.DeleteByReference(id)
}

// GetByID obtiene una orden de la tienda.
func (uc *UseCase) GetByID(storeID, id string) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil || order.StoreID != storeID {
		return nil, nil
	}
	return toOrderResponse(order), nil
}

// List lista órdenes de la tienda con paginación.
func (uc *UseCase) List(storeID string, limit, offset int) (*dto.OrderListResponse, error) {
	list, err := uc.orders.ListByStore(storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// buildItems valida los ítems contra el catálogo (existencia, tienda, forma
// del delta según el esquema de variaciones) y arma entidades y deltas.
func (uc *UseCase) buildItems(storeID string, in []dto.OrderItemDTO) ([]entity.OrderItem, []productDelta, error) {
	items := make([]entity.OrderItem, 0, len(in))
	deltas := make([]productDelta, 0, len(in))
	for _, it := range in {
		if it.ProductID == "" || it.Quantity <= 0 || it.UnitCost.IsNegative() {
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
		unitCost := it.UnitCost
		if unitCost.IsZero() {
			unitCost = product.Cost
		}
		items = append(items, entity.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  unitCost,
			Lines:     lines,
		})
		deltas = append(deltas, productDelta{
			ProductID: it.ProductID,
			Delta:     stock.Delta{Quantity: it.Quantity, Lines: lines},
		})
	}
	return items, deltas, nil
}

// applyAll aplica los deltas producto por producto, cada uno en su propia
// transacción. Devuelve los ya aplicados para que el caller pueda compensar.
func (uc *UseCase) applyAll(ctx context.Context, storeID, refID, movType string, deltas []productDelta) ([]productDelta, error) {
	applied := make([]productDelta, 0, len(deltas))
	for _, pd := range deltas {
		if err := uc.applyOne(ctx, storeID, refID, movType, pd); err != nil {
			return applied, err
		}
		applied = append(applied, pd)
	}
	return applied, nil
}

// applyOne bloquea la fila del producto, aplica el delta con el libro y deja
// rastro en el historial, todo en una transacción.
func (uc *UseCase) applyOne(ctx context.Context, storeID, refID, movType string, pd productDelta) error {
	return uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
	) error {
		product, err := products.GetForUpdate(pd.ProductID)
		if err != nil {
			return err
		}
		if product == nil || product.StoreID != storeID {
			return domain.ErrNotFound
		}
		product.SetStockState(stock.Apply(product.StockState(), pd.Delta))
		if err := products.UpdateStock(product.ID, product.Stock, product.StockByVariation); err != nil {
			return err
		}
		return movements.Create(&entity.StockMovement{
			ID:          uuid.New().String(),
			StoreID:     storeID,
			ProductID:   pd.ProductID,
			Type:        movType,
			Quantity:    pd.Delta.Quantity,
			Lines:       pd.Delta.Lines,
			ReferenceID: refID,
			CreatedAt:   time.Now(),
		})
	})
}

// compensate reversa, mejor esfuerzo, los deltas ya aplicados de una
// secuencia que falló a mitad.
func (uc *UseCase) compensate(ctx context.Context, storeID, refID string, applied []productDelta) {
	for i := len(applied) - 1; i >= 0; i-- {
		pd := productDelta{ProductID: applied[i].ProductID, Delta: stock.Invert(applied[i].Delta)}
		_ = uc.applyOne(ctx, storeID, refID, entity.MovementTypeReversal, pd)
	}
}

func invertAll(deltas []productDelta) []productDelta {
	out := make([]productDelta, 0, len(deltas))
	for _, pd := range deltas {
		out = append(out, productDelta{ProductID: pd.ProductID, Delta: stock.Invert(pd.Delta)})
	}
	return out
}

func itemDeltas(items []entity.OrderItem) []productDelta {
	out := make([]productDelta, 0, len(items))
	for _, it := range items {
		out = append(out, productDelta{
			ProductID: it.ProductID,
			Delta:     stock.Delta{Quantity: it.Quantity, Lines: it.Lines},
		})
	}
	return out
}

func orderTotal(items []entity.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitCost.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemDTO{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
			Lines:     dto.FromStockLines(it.Lines),
		})
	}
	return &dto.OrderResponse{
		ID:         o.ID,
		StoreID:    o.StoreID,
		SupplierID: o.SupplierID,
		Status:     o.Status,
		Total:      o.Total,
		Items:      items,
		Date:       o.Date,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}
