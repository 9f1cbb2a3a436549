package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Los campos de precio
// derivados no se reciben: los calcula el motor de precios.
type CreateProductRequest struct {
	CategoryID  string `json:"category_id"`
	SupplierID  string `json:"supplier_id"`
	SKU         string `json:"sku" validate:"required,min=1,max=100"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description"`

	PricingMode    string          `json:"pricing_mode"` // percent_igv (default) | flat_igv
	Cost           decimal.Decimal `json:"cost"`
	Packaging      decimal.Decimal `json:"packaging"`
	AdvertisingPct decimal.Decimal `json:"advertising_pct"`
	ProfitPct      decimal.Decimal `json:"profit_pct"`
	GatewayPct     decimal.Decimal `json:"gateway_pct"`
	IgvPct         decimal.Decimal `json:"igv_pct"`
	IgvAmount      decimal.Decimal `json:"igv_amount"`

	Variations   []VariationAxisDTO `json:"variations"`
	InitialStock *AdjustStockRequest `json:"initial_stock"`
}

// UpdateProductRequest entrada para actualizar un producto. Cualquier cambio
// en un input de costo recalcula todos los campos derivados. El stock no se
// toca aquí: se ajusta vía movimientos (órdenes, ventas o ajuste manual).
type UpdateProductRequest struct {
	CategoryID  *string `json:"category_id"`
	SupplierID  *string `json:"supplier_id"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`

	PricingMode    *string          `json:"pricing_mode"`
	Cost           *decimal.Decimal `json:"cost"`
	Packaging      *decimal.Decimal `json:"packaging"`
	AdvertisingPct *decimal.Decimal `json:"advertising_pct"`
	ProfitPct      *decimal.Decimal `json:"profit_pct"`
	GatewayPct     *decimal.Decimal `json:"gateway_pct"`
	IgvPct         *decimal.Decimal `json:"igv_pct"`
	IgvAmount      *decimal.Decimal `json:"igv_amount"`

	Variations []VariationAxisDTO `json:"variations"`
}

// ProductPricesDTO campos de precio derivados.
type ProductPricesDTO struct {
	TotalCost                decimal.Decimal `json:"total_cost"`
	AdvertisingAmount        decimal.Decimal `json:"advertising_amount"`
	ProfitAmount             decimal.Decimal `json:"profit_amount"`
	DesiredNetIncome         decimal.Decimal `json:"desired_net_income"`
	PriceWithoutIgv          decimal.Decimal `json:"price_without_igv"`
	IgvAmount                decimal.Decimal `json:"igv_amount"`
	PriceWithIgv             decimal.Decimal `json:"price_with_igv"`
	FinalPrice               decimal.Decimal `json:"final_price"`
	PriceWithoutGateway      decimal.Decimal `json:"price_without_gateway"`
	FinalPriceWithoutGateway decimal.Decimal `json:"final_price_without_gateway"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string `json:"id"`
	StoreID     string `json:"store_id"`
	CategoryID  string `json:"category_id,omitempty"`
	SupplierID  string `json:"supplier_id,omitempty"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description"`

	PricingMode    string          `json:"pricing_mode"`
	Cost           decimal.Decimal `json:"cost"`
	Packaging      decimal.Decimal `json:"packaging"`
	AdvertisingPct decimal.Decimal `json:"advertising_pct"`
	ProfitPct      decimal.Decimal `json:"profit_pct"`
	GatewayPct     decimal.Decimal `json:"gateway_pct"`
	IgvPct         decimal.Decimal `json:"igv_pct"`
	IgvAmount      decimal.Decimal `json:"igv_amount"`

	Prices ProductPricesDTO `json:"prices"`

	Variations       []VariationAxisDTO          `json:"variations,omitempty"`
	Stock            int64                       `json:"stock"`
	StockByVariation map[string]map[string]int64 `json:"stock_by_variation,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
