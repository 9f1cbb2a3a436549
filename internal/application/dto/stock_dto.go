package dto

import "time"

// VariationAxisDTO un eje de variación con sus valores permitidos.
type VariationAxisDTO struct {
	Name   string   `json:"name" validate:"required"`
	Values []string `json:"values" validate:"required,min=1"`
}

// VariationLineDTO una cantidad sobre una variación/valor concreto.
type VariationLineDTO struct {
	Name     string `json:"name" validate:"required"`
	Value    string `json:"value" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}

// AdjustStockRequest ajuste manual de stock desde el catálogo. Quantity lleva
// el signo (positivo entrada, negativo salida); Lines desglosa por variación.
type AdjustStockRequest struct {
	Quantity int64              `json:"quantity"`
	Lines    []VariationLineDTO `json:"lines"`
}

// StockMovementResponse un movimiento del historial de stock.
type StockMovementResponse struct {
	ID          string             `json:"id"`
	StoreID     string             `json:"store_id"`
	ProductID   string             `json:"product_id"`
	Type        string             `json:"type"`
	Quantity    int64              `json:"quantity"`
	Lines       []VariationLineDTO `json:"lines,omitempty"`
	ReferenceID string             `json:"reference_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}
