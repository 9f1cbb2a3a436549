package stock_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquispe/trastienda-api/internal/domain"
	"github.com/dquispe/trastienda-api/internal/domain/stock"
)

func estadoTallas() stock.State {
	return stock.State{
		Total: 15,
		ByVariation: stock.Grid{
			"Talla": {"S": 10, "M": 5},
		},
	}
}

// Apply sin desglose ajusta solo el agregado (producto sin variaciones).
func TestApply_SinLineas_AjustaAgregado(t *testing.T) {
	s := stock.Apply(stock.State{Total: 7}, stock.Delta{Quantity: 3})
	assert.Equal(t, int64(10), s.Total)

	s = stock.Apply(s, stock.Delta{Quantity: -4})
	assert.Equal(t, int64(6), s.Total)
}

// Una sobre-resta se recorta en cero, nunca queda negativa.
func TestApply_SinLineas_RecortaEnCero(t *testing.T) {
	s := stock.Apply(stock.State{Total: 2}, stock.Delta{Quantity: -5})
	assert.Equal(t, int64(0), s.Total)
}

// Con desglose, cada línea se ajusta y el agregado se recalcula completo
// desde la grilla.
func TestApply_ConLineas_RecalculaTotal(t *testing.T) {
	s := stock.Apply(estadoTallas(), stock.Delta{
		Quantity: -3,
		Lines:    []stock.Line{{Name: "Talla", Value: "S", Quantity: 3}},
	})

	assert.Equal(t, int64(7), s.ByVariation["Talla"]["S"])
	assert.Equal(t, int64(5), s.ByVariation["Talla"]["M"])
	assert.Equal(t, int64(12), s.Total)
}

// El recorte en cero también aplica por variación: restar 5 donde hay 2 deja 0
// y el agregado refleja la grilla resultante.
func TestApply_ConLineas_RecortaPorVariacion(t *testing.T) {
	inicial := stock.State{
		Total:       2,
		ByVariation: stock.Grid{"Talla": {"S": 2}},
	}
	s := stock.Apply(inicial, stock.Delta{
		Quantity: -5,
		Lines:    []stock.Line{{Name: "Talla", Value: "S", Quantity: 5}},
	})

	assert.Equal(t, int64(0), s.ByVariation["Talla"]["S"])
	assert.Equal(t, int64(0), s.Total)
}

// El recálculo desde la grilla es autoritativo: si el agregado venía
// desfasado, un Apply con líneas lo corrige.
func TestApply_ConLineas_CorrigeDeriva(t *testing.T) {
	desfasado := stock.State{
		Total:       99, // deriva artificial
		ByVariation: stock.Grid{"Talla": {"S": 10, "M": 5}},
	}
	s := stock.Apply(desfasado, stock.Delta{
		Quantity: 2,
		Lines:    []stock.Line{{Name: "Talla", Value: "M", Quantity: 2}},
	})

	assert.Equal(t, int64(17), s.Total, "Total debe salir de la grilla, no del valor previo")
}

// Apply crea entradas de grilla que no existían (ej. primer ingreso de una
// variación nueva).
func TestApply_ConLineas_CreaEntradas(t *testing.T) {
	s := stock.Apply(stock.State{}, stock.Delta{
		Quantity: 4,
		Lines: []stock.Line{
			{Name: "Color", Value: "Rojo", Quantity: 3},
			{Name: "Color", Value: "Azul", Quantity: 1},
		},
	})

	assert.Equal(t, int64(3), s.ByVariation["Color"]["Rojo"])
	assert.Equal(t, int64(1), s.ByVariation["Color"]["Azul"])
	assert.Equal(t, int64(4), s.Total)
}

// Apply no muta el estado recibido: trabaja sobre una copia de la grilla.
func TestApply_NoMutaElEstadoOriginal(t *testing.T) {
	original := estadoTallas()
	_ = stock.Apply(original, stock.Delta{
		Quantity: -3,
		Lines:    []stock.Line{{Name: "Talla", Value: "S", Quantity: 3}},
	})

	assert.Equal(t, int64(10), original.ByVariation["Talla"]["S"])
	assert.Equal(t, int64(15), original.Total)
}

// Invariante: con desglose presente, Total == suma de la grilla tras cualquier
// secuencia de deltas.
func TestApply_InvarianteTotalIgualSuma(t *testing.T) {
	s := estadoTallas()
	deltas := []stock.Delta{
		{Quantity: 5, Lines: []stock.Line{{Name: "Talla", Value: "M", Quantity: 5}}},
		{Quantity: -8, Lines: []stock.Line{{Name: "Talla", Value: "S", Quantity: 8}}},
		{Quantity: -20, Lines: []stock.Line{{Name: "Talla", Value: "M", Quantity: 20}}},
		{Quantity: 1, Lines: []stock.Line{{Name: "Talla", Value: "S", Quantity: 1}}},
	}
	for _, d := range deltas {
		s = stock.Apply(s, d)
		assert.Equal(t, s.ByVariation.Sum(), s.Total)
	}
}

// Aplicar un delta y su inverso restaura el estado, siempre que nada se haya
// recortado en cero por el camino.
func TestInvert_RoundTrip(t *testing.T) {
	d := stock.Delta{
		Quantity: -4,
		Lines:    []stock.Line{{Name: "Talla", Value: "S", Quantity: 4}},
	}
	inicial := estadoTallas()
	intermedio := stock.Apply(inicial, d)
	final := stock.Apply(intermedio, stock.Invert(d))

	assert.Equal(t, inicial.Total, final.Total)
	assert.Equal(t, inicial.ByVariation["Talla"]["S"], final.ByVariation["Talla"]["S"])
	assert.Equal(t, inicial.ByVariation["Talla"]["M"], final.ByVariation["Talla"]["M"])
}

// ── ValidateForSale ───────────────────────────────────────────────────────────

func TestValidateForSale_Suficiente(t *testing.T) {
	err := stock.ValidateForSale(estadoTallas(), stock.SaleRequest{
		Quantity: 3,
		Lines:    []stock.Line{{Name: "Talla", Value: "S", Quantity: 3}},
	})
	assert.NoError(t, err)
}

// El agregado se verifica primero: pedir 8 con total 5 rechaza por agregado,
// sin detalle de variación.
func TestValidateForSale_AgregadoInsuficiente(t *testing.T) {
	s := stock.State{Total: 5}
	err := stock.ValidateForSale(s, stock.SaleRequest{Quantity: 8})
	require.Error(t, err)

	var detail *stock.InsufficientStockError
	require.True(t, errors.As(err, &detail))
	assert.Empty(t, detail.Variation)
	assert.Equal(t, int64(5), detail.Available)
	assert.Equal(t, int64(8), detail.Requested)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Con agregado suficiente pero variación corta, el detalle señala la primera
// línea que no alcanza.
func TestValidateForSale_VariacionInsuficiente(t *testing.T) {
	err := stock.ValidateForSale(estadoTallas(), stock.SaleRequest{
		Quantity: 7,
		Lines:    []stock.Line{{Name: "Talla", Value: "M", Quantity: 7}},
	})
	require.Error(t, err)

	var detail *stock.InsufficientStockError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "Talla", detail.Variation)
	assert.Equal(t, "M", detail.Value)
	assert.Equal(t, int64(5), detail.Available)
	assert.Equal(t, int64(7), detail.Requested)
}

// Pedir una variación que no existe en la grilla equivale a disponible 0.
func TestValidateForSale_VariacionInexistente(t *testing.T) {
	err := stock.ValidateForSale(estadoTallas(), stock.SaleRequest{
		Quantity: 1,
		Lines:    []stock.Line{{Name: "Talla", Value: "XL", Quantity: 1}},
	})
	require.Error(t, err)

	var detail *stock.InsufficientStockError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, int64(0), detail.Available)
}

// ValidateForSale es de solo lectura: no modifica el estado.
func TestValidateForSale_NoModificaEstado(t *testing.T) {
	s := estadoTallas()
	_ = stock.ValidateForSale(s, stock.SaleRequest{
		Quantity: 3,
		Lines:    []stock.Line{{Name: "Talla", Value: "S", Quantity: 3}},
	})

	assert.Equal(t, int64(15), s.Total)
	assert.Equal(t, int64(10), s.ByVariation["Talla"]["S"])
}
