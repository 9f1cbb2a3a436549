// Package stock implementa el libro de stock (servicio de dominio).
//
// Mantiene el invariante entre el stock agregado y el stock por variación:
// siempre que ByVariation tiene al menos una entrada, Total es igual a la suma
// de todas las cantidades por variación/valor. Las funciones son puras: reciben
// un estado, devuelven uno nuevo y nunca mutan el recibido; la serialización
// por producto (SELECT FOR UPDATE) la aporta la capa de persistencia.
package stock

import (
	"fmt"

	"github.com/dquispe/trastienda-api/internal/domain"
)

// Grid cantidades por variación → valor (ej. Grid{"Talla": {"S": 10, "M": 5}}).
type Grid map[string]map[string]int64

// Clone copia profunda de la grilla. Un Grid nil produce nil.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for name, values := range g {
		vs := make(map[string]int64, len(values))
		for v, q := range values {
			vs[v] = q
		}
		out[name] = vs
	}
	return out
}

// Sum suma todas las cantidades de la grilla.
func (g Grid) Sum() int64 {
	var total int64
	for _, values := range g {
		for _, q := range values {
			total += q
		}
	}
	return total
}

// State estado de stock de un producto: agregado + desglose por variación.
// ByVariation vacío o nil significa producto sin variaciones; en ese caso
// Total es la única fuente de verdad.
type State struct {
	Total       int64
	ByVariation Grid
}

// Line una cantidad (siempre positiva) sobre una variación/valor concreto.
// Las etiquetas JSON fijan las claves con que se persiste en JSONB.
type Line struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Quantity int64  `json:"quantity"`
}

// Delta ajuste atómico de stock. Quantity lleva el signo de la operación
// (positivo entrada, negativo salida); las Lines desglosan esa cantidad por
// variación con cantidades positivas.
type Delta struct {
	Quantity int64
	Lines    []Line
}

// Invert devuelve el delta inverso: mismo desglose, signo opuesto. Aplicar un
// delta y luego su inverso restaura el estado original siempre que ninguna
// cantidad haya sido recortada en cero por el camino.
func Invert(d Delta) Delta {
	return Delta{Quantity: -d.Quantity, Lines: d.Lines}
}

// Apply aplica un delta y devuelve el nuevo estado. Nunca falla:
//
//   - Sin Lines: ajusta solo Total (recortado en cero); ByVariation no se toca.
//     Este camino es para productos sin variaciones.
//   - Con Lines: cada variación/valor se ajusta con el signo del delta,
//     recortada en cero, creando entradas intermedias según haga falta; luego
//     Total se recalcula completo desde la grilla. El recálculo hace al
//     agregado autoritativo y corrige cualquier deriva previa.
//
// El recorte en cero es política deliberada: una sobre-resta se absorbe en
// silencio, no es error. El control "no vender más de lo disponible" vive en
// ValidateForSale, no aquí.
func Apply(s State, d Delta) State {
	if len(d.Lines) == 0 {
		total := s.Total + d.Quantity
		if total < 0 {
			total = 0
		}
		return State{Total: total, ByVariation: s.ByVariation.Clone()}
	}

	sign := int64(1)
	if d.Quantity < 0 {
		sign = -1
	}
	grid := s.ByVariation.Clone()
	if grid == nil {
		grid = make(Grid)
	}
	for _, line := range d.Lines {
		values := grid[line.Name]
		if values == nil {
			values = make(map[string]int64)
			grid[line.Name] = values
		}
		q := values[line.Value] + sign*line.Quantity
		if q < 0 {
			q = 0
		}
		values[line.Value] = q
	}
	return State{Total: grid.Sum(), ByVariation: grid}
}

// SaleRequest precondición de venta: cantidad total solicitada y, si el
// producto tiene variaciones, su desglose.
type SaleRequest struct {
	Quantity int64
	Lines    []Line
}

// InsufficientStockError detalle estructurado de un rechazo por falta de
// stock. Variation/Value vacíos indican rechazo por agregado.
type InsufficientStockError struct {
	Variation string
	Value     string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	if e.Variation == "" {
		return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
	}
	return fmt.Sprintf("stock insuficiente en %s=%s: disponible %d, solicitado %d",
		e.Variation, e.Value, e.Available, e.Requested)
}

// Unwrap permite errors.Is(err, domain.ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return domain.ErrInsufficientStock }

// ValidateForSale verifica, sin efectos secundarios, que el estado cubre la
// venta solicitada. Primero el agregado; luego, si hay desglose, la primera
// variación/valor que no alcanza. Debe invocarse (y aprobar) antes de aplicar
// el delta de salida correspondiente.
func ValidateForSale(s State, r SaleRequest) error {
	if r.Quantity > s.Total {
		return &InsufficientStockError{Available: s.Total, Requested: r.Quantity}
	}
	for _, line := range r.Lines {
		available := s.ByVariation[line.Name][line.Value]
		if available < line.Quantity {
			return &InsufficientStockError{
				Variation: line.Name,
				Value:     line.Value,
				Available: available,
				Requested: line.Quantity,
			}
		}
	}
	return nil
}
