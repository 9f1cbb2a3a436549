package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dquispe/trastienda-api/internal/application/dto"
	"github.com/dquispe/trastienda-api/internal/application/ports"
	"github.com/dquispe/trastienda-api/internal/domain"
	"github.com/dquispe/trastienda-api/internal/domain/entity"
	"github.com/dquispe/trastienda-api/internal/domain/pricing"
	"github.com/dquispe/trastienda-api/internal/domain/repository"
	"github.com/dquispe/trastienda-api/internal/domain/stock"
)

// ProductUseCase casos de uso del catálogo de productos. Cada vez que cambia
// un input de costo se recalculan todos los campos de precio con el motor; el
// stock solo se toca vía movimientos (órdenes, ventas o AdjustStock).
type ProductUseCase struct {
	repo      repository.ProductRepository
	movements repository.StockMovementRepository
	txRunner  ports.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	movements repository.StockMovementRepository,
	txRunner ports.TxRunner,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, movements: movements, txRunner: txRunner}
}

// Create crea un producto: valida el esquema de variaciones, calcula los
// precios derivados y, si viene stock inicial, lo aplica con el libro.
func (uc *ProductUseCase) Create(storeID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByStoreAndSKU(storeID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	mode := pricing.Mode(in.PricingMode)
	if in.PricingMode == "" {
		mode = pricing.ModePercentIgv
	}
	schema := dto.ToSchema(in.Variations)
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		StoreID:     storeID,
		CategoryID:  in.CategoryID,
		SupplierID:  in.SupplierID,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,

		PricingMode:    mode,
		Cost:           in.Cost,
		Packaging:      in.Packaging,
		AdvertisingPct: in.AdvertisingPct,
		ProfitPct:      in.ProfitPct,
		GatewayPct:     in.GatewayPct,
		IgvPct:         in.IgvPct,
		IgvAmount:      in.IgvAmount,

		Variations: schema,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	prices, err := pricing.Compute(product.CostInputs())
	if err != nil {
		return nil, err
	}
	product.Prices = prices

	var initial *stock.Delta
	if in.InitialStock != nil {
		if in.InitialStock.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		lines := dto.ToStockLines(in.InitialStock.Lines)
		if err := stock.CheckDeltaShape(schema, in.InitialStock.Quantity, lines); err != nil {
			return nil, err
		}
		d := stock.Delta{Quantity: in.InitialStock.Quantity, Lines: lines}
		product.SetStockState(stock.Apply(stock.State{}, d))
		initial = &d
	}

	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	if initial != nil {
		_ = uc.movements.Create(&entity.StockMovement{
			ID:        uuid.New().String(),
			StoreID:   storeID,
			ProductID: product.ID,
			Type:      entity.MovementTypeManualAdjust,
			Quantity:  initial.Quantity,
			Lines:     initial.Lines,
			CreatedAt: now,
		})
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto de la tienda y recalcula los precios
// derivados. El stock no se modifica aquí.
func (uc *ProductUseCase) Update(storeID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StoreID != storeID {
		return nil, nil
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.SupplierID != nil {
		product.SupplierID = *in.SupplierID
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.PricingMode != nil {
		product.PricingMode = pricing.Mode(*in.PricingMode)
	}
	if in.Cost != nil {
		product.Cost = *in.Cost
	}
	if in.Packaging != nil {
		product.Packaging = *in.Packaging
	}
	if in.AdvertisingPct != nil {
		product.AdvertisingPct = *in.AdvertisingPct
	}
	if in.ProfitPct != nil {
		product.ProfitPct = *in.ProfitPct
	}
	if in.GatewayPct != nil {
		product.GatewayPct = *in.GatewayPct
	}
	if in.IgvPct != nil {
		product.IgvPct = *in.IgvPct
	}
	if in.IgvAmount != nil {
		product.IgvAmount = *in.IgvAmount
	}
	if in.Variations != nil {
		schema := dto.ToSchema(in.Variations)
		if err := schema.Validate(); err != nil {
			return nil, err
		}
		product.Variations = schema
	}

	// Recalcular siempre: es puro y barato, y garantiza que los campos
	// derivados nunca queden desfasados de los inputs.
	prices, err := pricing.Compute(product.CostInputs())
	if err != nil {
		return nil, err
	}
	product.Prices = prices
	product.UpdatedAt = time.Now()

	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// AdjustStock aplica un ajuste manual de stock dentro de una transacción con
// la fila del producto bloqueada, y deja rastro en el historial.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, storeID, id string, in dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	if in.Quantity == 0 {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
	) error {
		product, err := products.GetForUpdate(id)
		if err != nil {
			return err
		}
		if product == nil || product.StoreID != storeID {
			return domain.ErrNotFound
		}
		lines := dto.ToStockLines(in.Lines)
		if err := stock.CheckDeltaShape(product.Variations, in.Quantity, lines); err != nil {
			return err
		}
		delta := stock.Delta{Quantity: in.Quantity, Lines: lines}
		product.SetStockState(stock.Apply(product.StockState(), delta))
		if err := products.UpdateStock(product.ID, product.Stock, product.StockByVariation); err != nil {
			return err
		}
		if err := movements.Create(&entity.StockMovement{
			ID:        uuid.New().String(),
			StoreID:   storeID,
			ProductID: product.ID,
			Type:      entity.MovementTypeManualAdjust,
			Quantity:  in.Quantity,
			Lines:     lines,
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(updated), nil
}

// GetByID obtiene un producto de la tienda.
func (uc *ProductUseCase) GetByID(storeID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StoreID != storeID {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// List lista productos de la tienda con paginación.
func (uc *ProductUseCase) List(storeID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByStore(storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Search busca productos por nombre, insensible a tildes y mayúsculas.
func (uc *ProductUseCase) Search(storeID, query string, limit int) ([]dto.ProductResponse, error) {
	if query == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.SearchByName(storeID, query, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Movements lista el historial de movimientos de stock de un producto.
func (uc *ProductUseCase) Movements(storeID, id string, from, to *time.Time, limit, offset int) ([]dto.StockMovementResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	list, err := uc.movements.ListByProduct(id, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.StockMovementResponse{
			ID:          m.ID,
			StoreID:     m.StoreID,
			ProductID:   m.ProductID,
			Type:        m.Type,
			Quantity:    m.Quantity,
			Lines:       dto.FromStockLines(m.Lines),
			ReferenceID: m.ReferenceID,
			CreatedAt:   m.CreatedAt,
		})
	}
	return items, nil
}

// Delete elimina un producto de la tienda.
func (uc *ProductUseCase) Delete(storeID, id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil || product.StoreID != storeID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		StoreID:     p.StoreID,
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,

		PricingMode:    string(p.PricingMode),
		Cost:           p.Cost,
		Packaging:      p.Packaging,
		AdvertisingPct: p.AdvertisingPct,
		ProfitPct:      p.ProfitPct,
		GatewayPct:     p.GatewayPct,
		IgvPct:         p.IgvPct,
		IgvAmount:      p.IgvAmount,

		Prices: dto.ProductPricesDTO{
			TotalCost:                p.Prices.TotalCost,
			AdvertisingAmount:        p.Prices.AdvertisingAmount,
			ProfitAmount:             p.Prices.ProfitAmount,
			DesiredNetIncome:         p.Prices.DesiredNetIncome,
			PriceWithoutIgv:          p.Prices.PriceWithoutIgv,
			IgvAmount:                p.Prices.IgvAmount,
			PriceWithIgv:             p.Prices.PriceWithIgv,
			FinalPrice:               p.Prices.FinalPrice,
			PriceWithoutGateway:      p.Prices.PriceWithoutGateway,
			FinalPriceWithoutGateway: p.Prices.FinalPriceWithoutGateway,
		},

		Variations:       dto.FromSchema(p.Variations),
		Stock:            p.Stock,
		StockByVariation: p.StockByVariation,

		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
