package stock

import (
	"github.com/dquispe/trastienda-api/internal/domain"
)

// Axis un eje de variación de un producto (ej. Talla) con sus valores
// permitidos (ej. S, M, L).
type Axis struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Schema lista ordenada de ejes de variación de un producto.
type Schema []Axis

// Contains indica si el esquema admite el par variación/valor.
func (s Schema) Contains(name, value string) bool {
	for _, axis := range s {
		if axis.Name != name {
			continue
		}
		for _, v := range axis.Values {
			if v == value {
				return true
			}
		}
	}
	return false
}

// CheckDeltaShape valida la forma de un delta contra el esquema del producto:
// un producto con variaciones exige desglose (si no, agregado y desglose
// derivarían); uno sin variaciones lo prohíbe. Cada línea debe ser positiva,
// pertenecer al esquema y la suma de líneas debe igualar |quantity|.
func CheckDeltaShape(s Schema, quantity int64, lines []Line) error {
	if len(s) == 0 {
		if len(lines) > 0 {
			return domain.ErrInvalidInput
		}
		return nil
	}
	if len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	var sum int64
	for _, line := range lines {
		if line.Quantity <= 0 || !s.Contains(line.Name, line.Value) {
			return domain.ErrInvalidInput
		}
		sum += line.Quantity
	}
	abs := quantity
	if abs < 0 {
		abs = -abs
	}
	if sum != abs {
		return domain.ErrInvalidInput
	}
	return nil
}

// Validate verifica el esquema: nombres de eje únicos y no vacíos, valores
// únicos y no vacíos dentro de cada eje, y al menos un valor por eje.
func (s Schema) Validate() error {
	names := make(map[string]struct{}, len(s))
	for _, axis := range s {
		if axis.Name == "" || len(axis.Values) == 0 {
			return domain.ErrInvalidInput
		}
		if _, dup := names[axis.Name]; dup {
			return domain.ErrInvalidInput
		}
		names[axis.Name] = struct{}{}

		values := make(map[string]struct{}, len(axis.Values))
		for _, v := range axis.Values {
			if v == "" {
				return domain.ErrInvalidInput
			}
			if _, dup := values[v]; dup {
				return domain.ErrInvalidInput
			}
			values[v] = struct{}{}
		}
	}
	return nil
}
