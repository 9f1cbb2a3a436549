package dto

import "github.com/dquispe/trastienda-api/internal/domain/stock"

// ToStockLines convierte líneas DTO a líneas del libro de stock.
func ToStockLines(in []VariationLineDTO) []stock.Line {
	if len(in) == 0 {
		return nil
	}
	out := make([]stock.Line, 0, len(in))
	for _, l := range in {
		out = append(out, stock.Line{Name: l.Name, Value: l.Value, Quantity: l.Quantity})
	}
	return out
}

// FromStockLines convierte líneas del libro de stock a DTO.
func FromStockLines(in []stock.Line) []VariationLineDTO {
	if len(in) == 0 {
		return nil
	}
	out := make([]VariationLineDTO, 0, len(in))
	for _, l := range in {
		out = append(out, VariationLineDTO{Name: l.Name, Value: l.Value, Quantity: l.Quantity})
	}
	return out
}

// ToSchema convierte ejes DTO al esquema de variaciones del dominio.
func ToSchema(in []VariationAxisDTO) stock.Schema {
	if len(in) == 0 {
		return nil
	}
	out := make(stock.Schema, 0, len(in))
	for _, a := range in {
		out = append(out, stock.Axis{Name: a.Name, Values: a.Values})
	}
	return out
}

// FromSchema convierte el esquema de variaciones a DTO.
func FromSchema(in stock.Schema) []VariationAxisDTO {
	if len(in) == 0 {
		return nil
	}
	out := make([]VariationAxisDTO, 0, len(in))
	for _, a := range in {
		out = append(out, VariationAxisDTO{Name: a.Name, Values: a.Values})
	}
	return out
}
