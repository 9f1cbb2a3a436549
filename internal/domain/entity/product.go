package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dquispe/trastienda-api/internal/domain/pricing"
	"github.com/dquispe/trastienda-api/internal/domain/stock"
)

// Product un producto del catálogo.
//
// Los inputs de costo (Cost..IgvAmount) son la fuente de los campos derivados
// en Prices: cada vez que un input de costo cambia se recalculan todos con el
// motor de precios y se persisten tal cual.
//
// Stock y StockByVariation los mantiene el libro de stock: si el producto
// tiene variaciones, Stock es siempre la suma de StockByVariation; si no las
// tiene, Stock es la única fuente de verdad y StockByVariation queda vacío.
type Product struct {
	ID          string
	StoreID     string
	CategoryID  string
	SupplierID  string
	SKU         string
	Name        string
	Description string

	// Inputs de costo
	PricingMode    pricing.Mode
	Cost           decimal.Decimal
	Packaging      decimal.Decimal
	AdvertisingPct decimal.Decimal
	ProfitPct      decimal.Decimal
	GatewayPct     decimal.Decimal
	IgvPct         decimal.Decimal // modo percent_igv
	IgvAmount      decimal.Decimal // modo flat_igv

	// Campos derivados por el motor de precios
	Prices pricing.Result

	// Stock
	Variations       stock.Schema
	Stock            int64
	StockByVariation stock.Grid

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StockState devuelve el estado de stock del producto como valor del libro.
func (p *Product) StockState() stock.State {
	return stock.State{Total: p.Stock, ByVariation: p.StockByVariation}
}

// SetStockState vuelca un estado del libro sobre el producto.
func (p *Product) SetStockState(s stock.State) {
	p.Stock = s.Total
	p.StockByVariation = s.ByVariation
}

// CostInputs arma los inputs del motor de precios desde el producto.
func (p *Product) CostInputs() pricing.Inputs {
	return pricing.Inputs{
		Mode:           p.PricingMode,
		Cost:           p.Cost,
		Packaging:      p.Packaging,
		AdvertisingPct: p.AdvertisingPct,
		ProfitPct:      p.ProfitPct,
		GatewayPct:     p.GatewayPct,
		IgvPct:         p.IgvPct,
		IgvAmount:      p.IgvAmount,
	}
}
