package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dquispe/trastienda-api/internal/domain"
	"github.com/dquispe/trastienda-api/internal/domain/entity"
	"github.com/dquispe/trastienda-api/internal/domain/pricing"
	"github.com/dquispe/trastienda-api/internal/domain/repository"
	"github.com/dquispe/trastienda-api/internal/domain/stock"
	"github.com/dquispe/trastienda-api/pkg/textnorm"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx). Variations y stock_by_variation van en JSONB; la
// columna name_norm guarda el nombre sin tildes para búsquedas.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `
	id, store_id, category_id, supplier_id, sku, name, description,
	pricing_mode, cost, packaging, advertising_pct, profit_pct, gateway_pct, igv_pct, igv_amount,
	total_cost, advertising_amount, profit_amount, desired_net_income, price_without_igv,
	igv_total, price_with_igv, final_price, price_without_gateway, final_price_without_gateway,
	variations, stock, stock_by_variation, created_at, updated_at`

// Create persiste un nuevo producto con sus precios derivados y stock inicial.
func (r *ProductRepo) Create(product *entity.Product) error {
	variations, byVariation, err := marshalProductJSON(product)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO products (` + productColumns + `, name_norm)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)`
	_, err = r.q.Exec(context.Background(), query,
		product.ID, product.StoreID, nullIfEmpty(product.CategoryID), nullIfEmpty(product.SupplierID),
		product.SKU, product.Name, product.Description,
		string(product.PricingMode), product.Cost, product.Packaging, product.AdvertisingPct,
		product.ProfitPct, product.GatewayPct, product.IgvPct, product.IgvAmount,
		product.Prices.TotalCost, product.Prices.AdvertisingAmount, product.Prices.ProfitAmount,
		product.Prices.DesiredNetIncome, product.Prices.PriceWithoutIgv,
		product.Prices.IgvAmount, product.Prices.PriceWithIgv, product.Prices.FinalPrice,
		product.Prices.PriceWithoutGateway, product.Prices.FinalPriceWithoutGateway,
		variations, product.Stock, byVariation, product.CreatedAt, product.UpdatedAt,
		textnorm.Fold(product.Name),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.getOne(query, id)
}

// GetByStoreAndSKU obtiene un producto por tienda y SKU.
func (r *ProductRepo) GetByStoreAndSKU(storeID, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE store_id = $1 AND sku = $2`
	return r.getOne(query, storeID, sku)
}

// GetForUpdate obtiene un producto y bloquea su fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción (TxRunner).
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

// Update actualiza un producto: datos del catálogo, inputs de costo, precios
// derivados y esquema de variaciones. El stock se actualiza con UpdateStock.
func (r *ProductRepo) Update(product *entity.Product) error {
	variations, _, err := marshalProductJSON(product)
	if err != nil {
		return err
	}
	query := `
		UPDATE products SET
			category_id = $2, supplier_id = $3, name = $4, name_norm = $5, description = $6,
			pricing_mode = $7, cost = $8, packaging = $9, advertising_pct = $10, profit_pct = $11,
			gateway_pct = $12, igv_pct = $13, igv_amount = $14,
			total_cost = $15, advertising_amount = $16, profit_amount = $17, desired_net_income = $18,
			price_without_igv = $19, igv_total = $20, price_with_igv = $21, final_price = $22,
			price_without_gateway = $23, final_price_without_gateway = $24,
			variations = $25, updated_at = $26
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		product.ID, nullIfEmpty(product.CategoryID), nullIfEmpty(product.SupplierID),
		product.Name, textnorm.Fold(product.Name), product.Description,
		string(product.PricingMode), product.Cost, product.Packaging, product.AdvertisingPct,
		product.ProfitPct, product.GatewayPct, product.IgvPct, product.IgvAmount,
		product.Prices.TotalCost, product.Prices.AdvertisingAmount, product.Prices.ProfitAmount,
		product.Prices.DesiredNetIncome, product.Prices.PriceWithoutIgv, product.Prices.IgvAmount,
		product.Prices.PriceWithIgv, product.Prices.FinalPrice, product.Prices.PriceWithoutGateway,
		product.Prices.FinalPriceWithoutGateway, variations, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock actualiza solo el estado de stock (usado por el libro).
func (r *ProductRepo) UpdateStock(productID string, total int64, byVariation stock.Grid) error {
	grid, err := json.Marshal(byVariation)
	if err != nil {
		return fmt.Errorf("marshal stock_by_variation: %w", err)
	}
	_, err = r.q.Exec(context.Background(),
		`UPDATE products SET stock = $2, stock_by_variation = $3, updated_at = now() WHERE id = $1`,
		productID, total, grid,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// ListByStore lista productos por tienda con paginación.
func (r *ProductRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE store_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, storeID, limit, offset)
}

// SearchByName busca por nombre normalizado (sin tildes, sin mayúsculas).
func (r *ProductRepo) SearchByName(storeID, query string, limit int) ([]*entity.Product, error) {
	sql := `SELECT ` + productColumns + `
		FROM products
		WHERE store_id = $1 AND name_norm LIKE '%' || $2 || '%'
		ORDER BY name LIMIT $3`
	return r.list(sql, storeID, textnorm.Fold(query), limit)
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r *ProductRepo) getOne(query string, args ...any) (*entity.Product, error) {
	row := r.q.QueryRow(context.Background(), query, args...)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) list(query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// scanProduct lee una fila con productColumns y decodifica los JSONB.
func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var pricingMode string
	var categoryID, supplierID *string
	var variations, byVariation []byte
	err := row.Scan(
		&p.ID, &p.StoreID, &categoryID, &supplierID, &p.SKU, &p.Name, &p.Description,
		&pricingMode, &p.Cost, &p.Packaging, &p.AdvertisingPct, &p.ProfitPct, &p.GatewayPct,
		&p.IgvPct, &p.IgvAmount,
		&p.Prices.TotalCost, &p.Prices.AdvertisingAmount, &p.Prices.ProfitAmount,
		&p.Prices.DesiredNetIncome, &p.Prices.PriceWithoutIgv,
		&p.Prices.IgvAmount, &p.Prices.PriceWithIgv, &p.Prices.FinalPrice,
		&p.Prices.PriceWithoutGateway, &p.Prices.FinalPriceWithoutGateway,
		&variations, &p.Stock, &byVariation, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.PricingMode = pricing.Mode(pricingMode)
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	if supplierID != nil {
		p.SupplierID = *supplierID
	}
	if len(variations) > 0 {
		if err := json.Unmarshal(variations, &p.Variations); err != nil {
			return nil, fmt.Errorf("unmarshal variations: %w", err)
		}
	}
	if len(byVariation) > 0 {
		if err := json.Unmarshal(byVariation, &p.StockByVariation); err != nil {
			return nil, fmt.Errorf("unmarshal stock_by_variation: %w", err)
		}
	}
	return &p, nil
}

// marshalProductJSON serializa variations y stock_by_variation para JSONB.
func marshalProductJSON(p *entity.Product) ([]byte, []byte, error) {
	variations, err := json.Marshal(p.Variations)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal variations: %w", err)
	}
	byVariation, err := json.Marshal(p.StockByVariation)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal stock_by_variation: %w", err)
	}
	return variations, byVariation, nil
}

// nullIfEmpty permite FKs opcionales ("" → NULL).
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
