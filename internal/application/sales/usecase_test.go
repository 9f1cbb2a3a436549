package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquispe/trastienda-api/internal/application/dto"
	"github.com/dquispe/trastienda-api/internal/application/sales"
	"github.com/dquispe/trastienda-api/internal/domain"
	"github.com/dquispe/trastienda-api/internal/domain/entity"
	"github.com/dquispe/trastienda-api/internal/domain/pricing"
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

// fakeTxRunner ejecuta el callback directamente sobre los fakes; la
// serialización real la aporta PostgreSQL, aquí no hay concurrencia.
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

var errPersistencia = errors.New("fallo de persistencia simulado")

// fakeSaleRepo puede forzar fallos de Update/Delete para ejercitar la
// compensación cuando el registro no se pudo persistir.
type fakeSaleRepo struct {
	sales      map[string]*entity.Sale
	failUpdate bool
	failDelete bool
}

func (f *fakeSaleRepo) Create(s *entity.Sale) error { f.sales[s.ID] = s; return nil }
func (f *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return nil, nil
	}
	// Copia, como una fila recién escaneada.
	cp := *s
	return &cp, nil
}
func (f *fakeSaleRepo) Update(s *entity.Sale) error {
	if f.failUpdate {
		return errPersistencia
	}
	f.sales[s.ID] = s
	return nil
}
func (f *fakeSaleRepo) ListByStore(string, int, int) ([]*entity.Sale, error) { return nil, nil }
func (f *fakeSaleRepo) Delete(id string) error {
	if f.failDelete {
		return errPersistencia
	}
	delete(f.sales, id)
	return nil
}

type fakeStoreRepo struct {
	stores map[string]*entity.Store
}

func (f *fakeStoreRepo) Create(s *entity.Store) error { f.stores[s.ID] = s; return nil }
func (f *fakeStoreRepo) GetByID(id string) (*entity.Store, error) {
	return f.stores[id], nil
}
func (f *fakeStoreRepo) List() ([]*entity.Store, error) { return nil, nil }

type fakeFinanceRepo struct {
	entries []*entity.FinanceEntry
}

func (f *fakeFinanceRepo) Create(e *entity.FinanceEntry) error {
	f.entries = append(f.entries, e)
	return nil
}
func (f *fakeFinanceRepo) ListByStore(string, *time.Time, *time.Time, int, int) ([]*entity.FinanceEntry, error) {
	return f.entries, nil
}
func (f *fakeFinanceRepo) DeleteByReference(referenceID string) error {
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.ReferenceID != referenceID {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}
func (f *fakeFinanceRepo) Balance(string) (*repository.FinanceBalance, error) { return nil, nil }

type fakeReceipts struct{}

func (fakeReceipts) GenerateReceipt(context.Context, *entity.Sale, *entity.Store) ([]byte, error) {
	return []byte("%PDF"), nil
}

// ── Armado ────────────────────────────────────────────────────────────────────

const tienda = "store-1"

type fixture struct {
	uc       *sales.UseCase
	products *fakeProductRepo
	sales    *fakeSaleRepo
	finance  *fakeFinanceRepo
	movs     *fakeMovementRepo
}

func newFixture() *fixture {
	products := &fakeProductRepo{products: map[string]*entity.Product{}}
	movs := &fakeMovementRepo{}
	saleRepo := &fakeSaleRepo{sales: map[string]*entity.Sale{}}
	storeRepo := &fakeStoreRepo{stores: map[string]*entity.Store{
		tienda: {ID: tienda, Name: "Mi Tienda"},
	}}
	finance := &fakeFinanceRepo{}
	tx := &fakeTxRunner{products: products, movements: movs}

	return &fixture{
		uc:       sales.NewUseCase(tx, saleRepo, products, storeRepo, finance, fakeReceipts{}),
		products: products,
		sales:    saleRepo,
		finance:  finance,
		movs:     movs,
	}
}

// polo: sin variaciones, stock 10, precio final 25.
func (f *fixture) conPolo() {
	f.products.products["polo"] = &entity.Product{
		ID: "polo", StoreID: tienda, SKU: "POLO-1", Name: "Polo básico",
		Prices: pricing.Result{FinalPrice: decimal.NewFromInt(25)},
		Stock:  10,
	}
}

// casaca: Talla S=2, M=3, precio final 120.
func (f *fixture) conCasaca() {
	f.products.products["casaca"] = &entity.Product{
		ID: "casaca", StoreID: tienda, SKU: "CAS-1", Name: "Casaca de jean",
		Prices:     pricing.Result{FinalPrice: decimal.NewFromInt(120)},
		Variations: stock.Schema{{Name: "Talla", Values: []string{"S", "M"}}},
		Stock:      5,
		StockByVariation: stock.Grid{
			"Talla": {"S": 2, "M": 3},
		},
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCreate_DescuentaStockYAsientaIngreso(t *testing.T) {
	f := newFixture()
	f.conPolo()
	f.conCasaca()

	out, err := f.uc.Create(context.Background(), tienda, dto.CreateSaleRequest{
		Items: []dto.SaleItemDTO{
			{ProductID: "polo", Quantity: 2},
			{ProductID: "casaca", Quantity: 1, Lines: []dto.VariationLineDTO{
				{Name: "Talla", Value: "M", Quantity: 1},
			}},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	// Stock descontado por producto y variación.
	assert.Equal(t, int64(8), f.products.products["polo"].Stock)
	assert.Equal(t, int64(4), f.products.products["casaca"].Stock)
	assert.Equal(t, int64(2), f.products.products["casaca"].StockByVariation["Talla"]["M"])

	// Precio por defecto: 2*25 + 1*120 = 170.
	assert.True(t, out.Total.Equal(decimal.NewFromInt(170)), "Total: %s", out.Total)

	// Venta persistida e ingreso asentado con la venta como referencia.
	require.Len(t, f.finance.entries, 1)
	assert.Equal(t, entity.FinanceKindIncome, f.finance.entries[0].Kind)
	assert.Equal(t, out.ID, f.finance.entries[0].ReferenceID)
	assert.True(t, f.finance.entries[0].Amount.Equal(decimal.NewFromInt(170)))

	// Un movimiento de venta por producto.
	require.Len(t, f.movs.movements, 2)
	for _, m := range f.movs.movements {
		assert.Equal(t, entity.MovementTypeSale, m.Type)
		assert.Equal(t, out.ID, m.ReferenceID)
		assert.Negative(t, m.Quantity)
	}
}

func TestCreate_RespetaPrecioExplicito(t *testing.T) {
	f := newFixture()
	f.conPolo()

	out, err := f.uc.Create(context.Background(), tienda, dto.CreateSaleRequest{
		Items: []dto.SaleItemDTO{
			{ProductID: "polo", Quantity: 1, UnitPrice: decimal.NewFromInt(20)},
		},
	})
	require.NoError(t, err)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(20)))
}

// Si el segundo ítem no tiene stock, el primero ya descontado se compensa: el
// estado queda como antes de la venta y no se persiste nada.
func TestCreate_StockInsuficiente_CompensaLosAplicados(t *testing.T) {
	f := newFixture()
	f.conPolo()
	f.conCasaca()

	_, err := f.uc.Create(context.Background(), tienda, dto.CreateSaleRequest{
		Items: []dto.SaleItemDTO{
			{ProductID: "polo", Quantity: 2},
			{ProductID: "casaca", Quantity: 4, Lines: []dto.VariationLineDTO{
				{Name: "Talla", Value: "S", Quantity: 4}, // solo hay 2
			}},
		},
	})
	require.Error(t, err)

	// Error estructurado con producto y detalle de la variación que falló.
	var ise *sales.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "casaca", ise.ProductID)
	assert.Equal(t, "Talla", ise.Detail.Variation)
	assert.Equal(t, "S", ise.Detail.Value)
	assert.Equal(t, int64(2), ise.Detail.Available)
	assert.Equal(t, int64(4), ise.Detail.Requested)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El polo volvió a su stock original.
	assert.Equal(t, int64(10), f.products.products["polo"].Stock)
	assert.Equal(t, int64(5), f.products.products["casaca"].Stock)

	// Ni venta ni asiento.
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.finance.entries)

	// Rastro completo: venta aplicada + reverso de compensación.
	require.Len(t, f.movs.movements, 2)
	assert.Equal(t, entity.MovementTypeSale, f.movs.movements[0].Type)
	assert.Equal(t, entity.MovementTypeReversal, f.movs.movements[1].Type)
}

// El agregado se valida aunque el desglose alcance: casaca tiene 5 en total.
func TestCreate_AgregadoInsuficiente(t *testing.T) {
	f := newFixture()
	f.conCasaca()

	_, err := f.uc.Create(context.Background(), tienda, dto.CreateSaleRequest{
		Items: []dto.SaleItemDTO{
			{ProductID: "casaca", Quantity: 6, Lines: []dto.VariationLineDTO{
				{Name: "Talla", Value: "S", Quantity: 2},
				{Name: "Talla", Value: "M", Quantity: 4},
			}},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// El desglose debe cuadrar con el esquema y la cantidad antes de tocar stock.
func TestCreate_DesgloseInvalido(t *testing.T) {
	f := newFixture()
	f.conCasaca()

	casos := []dto.SaleItemDTO{
		// sin desglose para un producto con variaciones
		{ProductID: "casaca", Quantity: 1},
		// suma de líneas distinta de la cantidad
		{ProductID: "casaca", Quantity: 2, Lines: []dto.VariationLineDTO{
			{Name: "Talla", Value: "S", Quantity: 1},
		}},
		// valor fuera del esquema
		{ProductID: "casaca", Quantity: 1, Lines: []dto.VariationLineDTO{
			{Name: "Talla", Value: "XL", Quantity: 1},
		}},
	}
	for i, item := range casos {
		_, err := f.uc.Create(context.Background(), tienda, dto.CreateSaleRequest{
			Items: []dto.SaleItemDTO{item},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "caso %d", i)
		assert.Equal(t, int64(5), f.products.products["casaca"].Stock, "caso %d: stock intacto", i)
	}
}

func TestCreate_ProductoDeOtraTienda(t *testing.T) {
	f := newFixture()
	f.conPolo()
	f.products.products["polo"].StoreID = "otra-tienda"

	_, err := f.uc.Create(context.Background(), tienda, dto.CreateSaleRequest{
		Items: []dto.SaleItemDTO{{ProductID: "polo", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_RestauraYRedescuenta(t *testing.T) {
	f := newFixture()
	f.conPolo()

	out, err := f.uc.Create(context.Background(), tienda, dto.CreateSaleRequest{
		Items: []dto.SaleItemDTO{{ProductID: "polo", Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(6), f.products.products["polo"].Stock)

	updated, err := f.uc.Update(context.Background(), tienda, out.ID, dto.UpdateSaleRequest{
		Items: []dto.SaleItemDTO{{ProductID: "polo", Quantity: 1}},
	})
	require.NoError(t, err)

	// 10 - 1: se devolvieron las 4 originales y se descontó 1.
	assert.Equal(t, int64(9), f.products.products["polo"].Stock)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(25)))

	// El asiento anterior se reemplaza por uno con el nuevo total.
	require.Len(t, f.finance.entries, 1)
	assert.True(t, f.finance.entries[0].Amount.Equal(decimal.NewFromInt(25)))
}

// Si las nuevas cantidades no alcanzan, la venta y el stock quedan como
// estaban: las nuevas se compensan y las originales se vuelven a descontar.
func TestUpdate_NuevasCantidadesInsuficientes_RestauraOriginal(t *testing.T) {
	f := newFixture()
	f.conPolo()

	out, err := f.uc.Create(context.Background(), tienda, dto.CreateSaleRequest{
		Items: []dto.SaleItemDTO{{ProductID: "polo", Quantity: 4}},
	})
	require.NoError(t, err)

	_, err = f.uc.Update(context.Background(), tienda, out.ID, dto.UpdateSaleRequest{
		Items: []dto.SaleItemDTO{{ProductID: "polo", Quantity: 50}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Stock como tras la venta original; la venta conserva sus ítems.
	assert.Equal(t, int64(6), f.products.products["polo"].Stock)
	sale := f.sales.sales[out.ID]
	require.Len(t, sale.Items, 1)
	assert.Equal(t, int64(4), sale.Items[0].Quantity)
}

func TestDelete_RestauraStockYBorraAsientos(t *testing.T) {
	f := newFixture()
	f.conCasaca()

	out, err := f.uc.Create(context.Background(), tienda, dto.CreateSaleRequest{
		Items: []dto.SaleItemDTO{
			{ProductID: "casaca", Quantity: 2, Lines: []dto.VariationLineDTO{
				{Name: "Talla", Value: "S", Quantity: 2},
			}},
		},
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), f.products.products["casaca"].Stock)

	require.NoError(t, f.uc.Delete(context.Background(), tienda, out.ID))

	assert.Equal(t, int64(5), f.products.products["casaca"].Stock)
	assert.Equal(t, int64(2), f.products.products["casaca"].StockByVariation["Talla"]["S"])
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.finance.entries)
}

// Si el registro editado no se pudo persistir, los descuentos de la edición
// se deshacen y las cantidades originales se vuelven a descontar: el stock y
// la venta guardada quedan consistentes entre sí.
func TestUpdate_PersistenciaFalla_CompensaLaEdicion(t *testing.T) {
	f := newFixture()
	f.conPolo()

	out, err := f.uc.Create(context.Background(), tienda, dto.CreateSaleRequest{
		Items: []dto.SaleItemDTO{{ProductID: "polo", Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(6), f.products.products["polo"].Stock)

	f.sales.failUpdate = true
	_, err = f.uc.Update(context.Background(), tienda, out.ID, dto.UpdateSaleRequest{
		Items: []dto.SaleItemDTO{{ProductID: "polo", Quantity: 2}},
	})
	require.ErrorIs(t, err, errPersistencia)

	// Stock como tras la venta original, no como tras la edición fallida.
	assert.Equal(t, int64(6), f.products.products["polo"].Stock)

	// El registro conserva las cantidades originales y su asiento.
	sale := f.sales.sales[out.ID]
	require.Len(t, sale.Items, 1)
	assert.Equal(t, int64(4), sale.Items[0].Quantity)
	require.Len(t, f.finance.entries, 1)
	assert.True(t, f.finance.entries[0].Amount.Equal(decimal.NewFromInt(100)))
}

// Si el borrado del registro falla, el stock ya restaurado se vuelve a
// descontar: la venta sigue vigente y el stock la refleja.
func TestDelete_PersistenciaFalla_RedescuentaStock(t *testing.T) {
	f := newFixture()
	f.conPolo()

	out, err := f.uc.Create(context.Background(), tienda, dto.CreateSaleRequest{
		Items: []dto.SaleItemDTO{{ProductID: "polo", Quantity: 4}},
	})
	require.NoError(t, err)

	f.sales.failDelete = true
	err = f.uc.Delete(context.Background(), tienda, out.ID)
	require.ErrorIs(t, err, errPersistencia)

	assert.Equal(t, int64(6), f.products.products["polo"].Stock)
	assert.Len(t, f.sales.sales, 1)
	assert.Len(t, f.finance.entries, 1)
}

func TestDelete_VentaInexistente(t *testing.T) {
	f := newFixture()
	err := f.uc.Delete(context.Background(), tienda, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceipt_GeneraPDF(t *testing.T) {
	f := newFixture()
	f.conPolo()

	out, err := f.uc.Create(context.Background(), tienda, dto.CreateSaleRequest{
		Items: []dto.SaleItemDTO{{ProductID: "polo", Quantity: 1}},
	})
	require.NoError(t, err)

	pdf, err := f.uc.Receipt(context.Background(), tienda, out.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
