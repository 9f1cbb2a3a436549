// Package pricing implementa el motor de precios de venta (servicio de dominio).
//
// A partir de la estructura de costos de un producto deriva todos los campos de
// precio que se persisten junto al producto. Es una función pura: sin estado,
// sin I/O; el mismo input produce siempre el mismo output.
//
// Existen dos modos de cálculo del IGV, heredados de dos rutas distintas del
// sistema original:
//
//   - ModePercentIgv: el IGV es un porcentaje sobre el precio sin impuesto.
//   - ModeFlatIgv: el IGV es un monto fijo que se suma después de la comisión
//     de pasarela; en este modo no interviene la publicidad.
//
// El redondeo hacia arriba (techo, unidad monetaria entera) se aplica solo a
// FinalPrice y FinalPriceWithoutGateway; los campos intermedios conservan la
// precisión decimal completa.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/dquispe/trastienda-api/internal/domain"
)

// Mode selecciona la fórmula de IGV.
type Mode string

const (
	// ModePercentIgv calcula el IGV como porcentaje del precio sin impuesto.
	ModePercentIgv Mode = "percent_igv"
	// ModeFlatIgv suma un monto fijo de IGV después de la comisión de pasarela.
	ModeFlatIgv Mode = "flat_igv"
)

// Valid indica si el modo es uno de los soportados.
func (m Mode) Valid() bool {
	return m == ModePercentIgv || m == ModeFlatIgv
}

var oneHundred = decimal.NewFromInt(100)

// Inputs estructura de costos de un producto. Todos los montos y porcentajes
// deben ser no negativos; GatewayPct < 100 (100% implicaría división por cero).
type Inputs struct {
	Mode         Mode
	Cost         decimal.Decimal // costo de compra
	Packaging    decimal.Decimal // empaque
	AdvertisingPct decimal.Decimal // % publicidad sobre costo base (solo ModePercentIgv)
	ProfitPct    decimal.Decimal // % ganancia sobre costo total
	GatewayPct   decimal.Decimal // % comisión de la pasarela de pago
	IgvPct       decimal.Decimal // % IGV (ModePercentIgv)
	IgvAmount    decimal.Decimal // monto fijo de IGV (ModeFlatIgv)
}

// Result campos de precio derivados; se persisten tal cual sobre el producto.
type Result struct {
	TotalCost                decimal.Decimal
	AdvertisingAmount        decimal.Decimal
	ProfitAmount             decimal.Decimal
	DesiredNetIncome         decimal.Decimal
	PriceWithoutIgv          decimal.Decimal
	IgvAmount                decimal.Decimal
	PriceWithIgv             decimal.Decimal
	FinalPrice               decimal.Decimal // techo de PriceWithIgv
	PriceWithoutGateway      decimal.Decimal // precio sin comisión, antes de redondear
	FinalPriceWithoutGateway decimal.Decimal // techo de PriceWithoutGateway
}

// Compute deriva los precios de venta a partir de la estructura de costos.
// Retorna domain.ErrInvalidInput si algún input es negativo, si el modo no es
// válido o si GatewayPct >= 100 (nunca retorna Inf/NaN).
func Compute(in Inputs) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}
	switch in.Mode {
	case ModePercentIgv:
		return computePercentIgv(in), nil
	case ModeFlatIgv:
		return computeFlatIgv(in), nil
	}
	return Result{}, domain.ErrInvalidInput
}

func validate(in Inputs) error {
	if !in.Mode.Valid() {
		return domain.ErrInvalidInput
	}
	for _, d := range []decimal.Decimal{
		in.Cost, in.Packaging, in.AdvertisingPct, in.ProfitPct,
		in.GatewayPct, in.IgvPct, in.IgvAmount,
	} {
		if d.IsNegative() {
			return domain.ErrInvalidInput
		}
	}
	// Comisión del 100% dividiría entre cero.
	if in.GatewayPct.GreaterThanOrEqual(oneHundred) {
		return domain.ErrInvalidInput
	}
	return nil
}

// computePercentIgv: publicidad sobre el costo base, IGV porcentual sobre el
// precio sin impuesto.
func computePercentIgv(in Inputs) Result {
	baseCost := in.Cost.Add(in.Packaging)
	advertising := baseCost.Mul(in.AdvertisingPct).Div(oneHundred)
	totalCost := baseCost.Add(advertising)
	profit := totalCost.Mul(in.ProfitPct).Div(oneHundred)
	netIncome := totalCost.Add(profit)

	priceWithoutIgv := netIncome
	if in.GatewayPct.IsPositive() {
		factor := decimal.NewFromInt(1).Sub(in.GatewayPct.Div(oneHundred))
		priceWithoutIgv = netIncome.Div(factor)
	}
	igv := priceWithoutIgv.Mul(in.IgvPct).Div(oneHundred)
	priceWithIgv := priceWithoutIgv.Add(igv)
	priceWithoutGateway := netIncome.Add(igv)

	return Result{
		TotalCost:                totalCost,
		AdvertisingAmount:        advertising,
		ProfitAmount:             profit,
		DesiredNetIncome:         netIncome,
		PriceWithoutIgv:          priceWithoutIgv,
		IgvAmount:                igv,
		PriceWithIgv:             priceWithIgv,
		FinalPrice:               priceWithIgv.Ceil(),
		PriceWithoutGateway:      priceWithoutGateway,
		FinalPriceWithoutGateway: priceWithoutGateway.Ceil(),
	}
}

// computeFlatIgv: sin publicidad; el IGV es un monto fijo que se suma después
// de ajustar por la comisión.
func computeFlatIgv(in Inputs) Result {
	totalCost := in.Cost.Add(in.Packaging)
	profit := totalCost.Mul(in.ProfitPct).Div(oneHundred)
	netIncome := totalCost.Add(profit)

	factor := decimal.NewFromInt(1).Sub(in.GatewayPct.Div(oneHundred))
	priceWithoutIgv := netIncome.Div(factor)
	priceWithIgv := priceWithoutIgv.Add(in.IgvAmount)
	priceWithoutGateway := netIncome.Add(in.IgvAmount)

	return Result{
		TotalCost:                totalCost,
		AdvertisingAmount:        decimal.Zero,
		ProfitAmount:             profit,
		DesiredNetIncome:         netIncome,
		PriceWithoutIgv:          priceWithoutIgv,
		IgvAmount:                in.IgvAmount,
		PriceWithIgv:             priceWithIgv,
		FinalPrice:               priceWithIgv.Ceil(),
		PriceWithoutGateway:      priceWithoutGateway,
		FinalPriceWithoutGateway: priceWithoutGateway.Ceil(),
	}
}
