package dto

// ErrorResponse respuesta de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Detail carga estructurada opcional (ej. detalle de stock insuficiente).
	Detail any `json:"detail,omitempty"`
}

// PageResponse datos de paginación.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// InsufficientStockDetail detalle de un rechazo por stock insuficiente.
// Variation/Value vacíos indican rechazo por stock agregado.
type InsufficientStockDetail struct {
	ProductID string `json:"product_id"`
	Variation string `json:"variation,omitempty"`
	Value     string `json:"value,omitempty"`
	Available int64  `json:"available"`
	Requested int64  `json:"requested"`
}
