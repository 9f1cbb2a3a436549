package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquispe/trastienda-api/internal/application/dto"
	"github.com/dquispe/trastienda-api/internal/application/usecase"
	"github.com/dquispe/trastienda-api/internal/domain"
	"github.com/dquispe/trastienda-api/internal/domain/entity"
	"github.com/dquispe/trastienda-api/internal/domain/repository"
	"github.com/dquispe/trastienda-api/internal/domain/stock"
)

// ── Fakes en memoria ──────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) Create(p *entity.Product) error { f.products[p.ID] = p; return nil }
func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return f.products[id], nil
}
func (f *fakeProductRepo) GetByStoreAndSKU(storeID, sku string) (*entity.Product, error) {
	for _, p := range f.products {
		if p.StoreID == storeID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (f *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return f.products[id], nil
}
func (f *fakeProductRepo) Update(p *entity.Product) error { f.products[p.ID] = p; return nil }
func (f *fakeProductRepo) UpdateStock(productID string, total int64, byVariation stock.Grid) error {
	p := f.products[productID]
	p.Stock = total
	p.StockByVariation = byVariation
	return nil
}
func (f *fakeProductRepo) ListByStore(string, int, int) ([]*entity.Product, error) { return nil, nil }
func (f *fakeProductRepo) SearchByName(string, string, int) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Delete(id string) error { delete(f.products, id); return nil }

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (f *fakeMovementRepo) Create(m *entity.StockMovement) error {
	f.movements = append(f.movements, m)
	return nil
}
func (f *fakeMovementRepo) ListByProduct(string, *time.Time, *time.Time, int, int) ([]*entity.StockMovement, error) {
	return f.movements, nil
}
func (f *fakeMovementRepo) ListByStore(string, *time.Time, *time.Time, int, int) ([]*entity.StockMovement, error) {
	return f.movements, nil
}

type fakeTxRunner struct {
	products  *fakeProductRepo
	movements *fakeMovementRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
) error) error {
	return fn(f.products, f.movements)
}

const tienda = "store-1"

func newUC() (*usecase.ProductUseCase, *fakeProductRepo, *fakeMovementRepo) {
	repo := &fakeProductRepo{products: map[string]*entity.Product{}}
	movs := &fakeMovementRepo{}
	tx := &fakeTxRunner{products: repo, movements: movs}
	return usecase.NewProductUseCase(repo, movs, tx), repo, movs
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Create ────────────────────────────────────────────────────────────────────

// Crear un producto calcula todos los campos de precio derivados y aplica el
// stock inicial con su movimiento de ajuste.
func TestCreate_CalculaPreciosYAplicaStockInicial(t *testing.T) {
	uc, repo, movs := newUC()

	out, err := uc.Create(tienda, dto.CreateProductRequest{
		SKU:  "POLO-1",
		Name: "Polo básico",

		Cost:       d("10"),
		Packaging:  d("2"),
		ProfitPct:  d("25"),
		GatewayPct: d("5"),
		IgvPct:     d("18"),

		Variations: []dto.VariationAxisDTO{{Name: "Talla", Values: []string{"S", "M"}}},
		InitialStock: &dto.AdjustStockRequest{
			Quantity: 5,
			Lines: []dto.VariationLineDTO{
				{Name: "Talla", Value: "S", Quantity: 3},
				{Name: "Talla", Value: "M", Quantity: 2},
			},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	// Modo por defecto y precios derivados del motor.
	assert.Equal(t, "percent_igv", out.PricingMode)
	assert.True(t, out.Prices.TotalCost.Equal(d("12")), "TotalCost: %s", out.Prices.TotalCost)
	assert.True(t, out.Prices.FinalPrice.Equal(d("19")), "FinalPrice: %s", out.Prices.FinalPrice)

	// Stock inicial aplicado.
	assert.Equal(t, int64(5), out.Stock)
	assert.Equal(t, int64(3), out.StockByVariation["Talla"]["S"])

	// Queda rastro en el historial como ajuste manual.
	require.Len(t, movs.movements, 1)
	assert.Equal(t, entity.MovementTypeManualAdjust, movs.movements[0].Type)
	assert.Equal(t, int64(5), movs.movements[0].Quantity)

	// Persistido en el almacén.
	assert.Len(t, repo.products, 1)
}

func TestCreate_SKUDuplicadoEnLaTienda(t *testing.T) {
	uc, _, _ := newUC()

	_, err := uc.Create(tienda, dto.CreateProductRequest{SKU: "POLO-1", Name: "Polo"})
	require.NoError(t, err)

	_, err = uc.Create(tienda, dto.CreateProductRequest{SKU: "POLO-1", Name: "Otro polo"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// El mismo SKU en otra tienda no colisiona.
	_, err = uc.Create("store-2", dto.CreateProductRequest{SKU: "POLO-1", Name: "Polo"})
	assert.NoError(t, err)
}

func TestCreate_EsquemaInvalido(t *testing.T) {
	uc, _, _ := newUC()

	_, err := uc.Create(tienda, dto.CreateProductRequest{
		SKU:        "X-1",
		Name:       "X",
		Variations: []dto.VariationAxisDTO{{Name: "Talla", Values: []string{"S", "S"}}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_StockInicialSinDesglose(t *testing.T) {
	uc, repo, _ := newUC()

	_, err := uc.Create(tienda, dto.CreateProductRequest{
		SKU:          "X-1",
		Name:         "X",
		Variations:   []dto.VariationAxisDTO{{Name: "Talla", Values: []string{"S"}}},
		InitialStock: &dto.AdjustStockRequest{Quantity: 5},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, repo.products, "no debe persistirse nada si el stock inicial es inválido")
}

func TestCreate_PasarelaInvalida(t *testing.T) {
	uc, _, _ := newUC()

	_, err := uc.Create(tienda, dto.CreateProductRequest{
		SKU:        "X-1",
		Name:       "X",
		Cost:       d("10"),
		GatewayPct: d("100"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Update ────────────────────────────────────────────────────────────────────

// Cambiar un input de costo recalcula los derivados; el stock no se toca.
func TestUpdate_RecalculaPrecios(t *testing.T) {
	uc, repo, _ := newUC()

	created, err := uc.Create(tienda, dto.CreateProductRequest{
		SKU:       "POLO-1",
		Name:      "Polo",
		Cost:      d("10"),
		ProfitPct: d("50"),
		IgvPct:    d("18"),
	})
	require.NoError(t, err)
	require.True(t, created.Prices.PriceWithIgv.Equal(d("17.70")),
		"PriceWithIgv: %s", created.Prices.PriceWithIgv)

	repo.products[created.ID].Stock = 9 // stock acumulado por movimientos

	nuevoCosto := d("20")
	out, err := uc.Update(tienda, created.ID, dto.UpdateProductRequest{Cost: &nuevoCosto})
	require.NoError(t, err)

	assert.True(t, out.Prices.DesiredNetIncome.Equal(d("30")))
	assert.True(t, out.Prices.PriceWithIgv.Equal(d("35.40")),
		"PriceWithIgv: %s", out.Prices.PriceWithIgv)
	assert.Equal(t, int64(9), out.Stock, "Update no debe modificar el stock")
}

func TestUpdate_ProductoDeOtraTienda(t *testing.T) {
	uc, _, _ := newUC()

	created, err := uc.Create(tienda, dto.CreateProductRequest{SKU: "POLO-1", Name: "Polo"})
	require.NoError(t, err)

	nombre := "Renombrado"
	out, err := uc.Update("otra-tienda", created.ID, dto.UpdateProductRequest{Name: &nombre})
	require.NoError(t, err)
	assert.Nil(t, out)
}

// ── AdjustStock ───────────────────────────────────────────────────────────────

func TestAdjustStock_EntradaYSalida(t *testing.T) {
	uc, _, movs := newUC()

	created, err := uc.Create(tienda, dto.CreateProductRequest{SKU: "POLO-1", Name: "Polo"})
	require.NoError(t, err)

	out, err := uc.AdjustStock(context.Background(), tienda, created.ID, dto.AdjustStockRequest{Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(10), out.Stock)

	out, err = uc.AdjustStock(context.Background(), tienda, created.ID, dto.AdjustStockRequest{Quantity: -4})
	require.NoError(t, err)
	assert.Equal(t, int64(6), out.Stock)

	require.Len(t, movs.movements, 2)
	assert.Equal(t, entity.MovementTypeManualAdjust, movs.movements[0].Type)
	assert.Equal(t, int64(-4), movs.movements[1].Quantity)
}

func TestAdjustStock_CantidadCero(t *testing.T) {
	uc, _, _ := newUC()

	created, err := uc.Create(tienda, dto.CreateProductRequest{SKU: "POLO-1", Name: "Polo"})
	require.NoError(t, err)

	_, err = uc.AdjustStock(context.Background(), tienda, created.ID, dto.AdjustStockRequest{Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjustStock_DesgloseObligatorioConVariaciones(t *testing.T) {
	uc, _, _ := newUC()

	created, err := uc.Create(tienda, dto.CreateProductRequest{
		SKU:        "CAS-1",
		Name:       "Casaca",
		Variations: []dto.VariationAxisDTO{{Name: "Talla", Values: []string{"S", "M"}}},
	})
	require.NoError(t, err)

	_, err = uc.AdjustStock(context.Background(), tienda, created.ID, dto.AdjustStockRequest{Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjustStock_ProductoInexistente(t *testing.T) {
	uc, _, _ := newUC()

	_, err := uc.AdjustStock(context.Background(), tienda, "no-existe", dto.AdjustStockRequest{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Movements / Delete ────────────────────────────────────────────────────────

func TestMovements_ProductoInexistente(t *testing.T) {
	uc, _, _ := newUC()

	_, err := uc.Movements(tienda, "no-existe", nil, nil, 20, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_ProductoDeOtraTienda(t *testing.T) {
	uc, repo, _ := newUC()

	created, err := uc.Create(tienda, dto.CreateProductRequest{SKU: "POLO-1", Name: "Polo"})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete("otra-tienda", created.ID), domain.ErrNotFound)
	assert.Len(t, repo.products, 1)

	require.NoError(t, uc.Delete(tienda, created.ID))
	assert.Empty(t, repo.products)
}
