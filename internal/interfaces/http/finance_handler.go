package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dquispe/trastienda-api/internal/application/dto"
	"github.com/dquispe/trastienda-api/internal/application/usecase"
)

// FinanceHandler maneja las peticiones HTTP del libro financiero.
type FinanceHandler struct {
	uc *usecase.FinanceUseCase
}

// NewFinanceHandler construye el handler.
func NewFinanceHandler(uc *usecase.FinanceUseCase) *FinanceHandler {
	return &FinanceHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar asiento manual (ingreso o egreso)
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        store_id  path  string  true  "ID de la tienda"
// @Param        body      body  dto.CreateFinanceEntryRequest  true  "Asiento"
// @Success      201  {object}  dto.FinanceEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stores/{store_id}/finance [post]
func (h *FinanceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFinanceEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.Params("store_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar asientos del libro financiero
// @Tags         finance
// @Produce      json
// @Param        store_id  path   string  true   "ID de la tienda"
// @Param        from      query  string  false  "Desde (RFC 3339 o YYYY-MM-DD)"
// @Param        to        query  string  false  "Hasta (RFC 3339 o YYYY-MM-DD)"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.FinanceEntryResponse
// @Router       /api/stores/{store_id}/finance [get]
func (h *FinanceHandler) List(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return badRequest(c, "VALIDATION", "from/to inválidos")
	}
	limit, offset := pagination(c)
	out, err := h.uc.List(c.Params("store_id"), from, to, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Balance godoc
// @Summary      Balance de ingresos y egresos de la tienda
// @Tags         finance
// @Produce      json
// @Param        store_id  path  string  true  "ID de la tienda"
// @Success      200  {object}  dto.FinanceBalanceResponse
// @Router       /api/stores/{store_id}/finance/balance [get]
func (h *FinanceHandler) Balance(c *fiber.Ctx) error {
	out, err := h.uc.Balance(c.Params("store_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
