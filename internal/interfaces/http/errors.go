package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dquispe/trastienda-api/internal/application/dto"
	"github.com/dquispe/trastienda-api/internal/application/sales"
	"github.com/dquispe/trastienda-api/internal/domain"
	"github.com/dquispe/trastienda-api/internal/domain/stock"
)

// respondError traduce errores de dominio a respuestas HTTP. El rechazo por
// stock insuficiente viaja con detalle estructurado para que el cliente sepa
// qué variación falló y cuánto había disponible.
func respondError(c *fiber.Ctx, err error) error {
	var saleErr *sales.InsufficientStockError
	if errors.As(err, &saleErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: err.Error(),
			Detail: dto.InsufficientStockDetail{
				ProductID: saleErr.ProductID,
				Variation: saleErr.Detail.Variation,
				Value:     saleErr.Detail.Value,
				Available: saleErr.Detail.Available,
				Requested: saleErr.Detail.Requested,
			},
		})
	}
	var stockErr *stock.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: err.Error(),
			Detail: dto.InsufficientStockDetail{
				Variation: stockErr.Variation,
				Value:     stockErr.Value,
				Available: stockErr.Available,
				Requested: stockErr.Requested,
			},
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: message})
}
