package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dquispe/trastienda-api/internal/application/dto"
	"github.com/dquispe/trastienda-api/internal/application/orders"
)

// OrderHandler maneja las peticiones HTTP para órdenes de compra. Crear una
// orden ingresa stock; editarla o anularla reversa las cantidades originales.
type OrderHandler struct {
	uc *orders.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar orden de compra recibida
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        store_id  path  string  true  "ID de la tienda"
// @Param        body      body  dto.CreateOrderRequest  true  "Orden de compra"
// @Success      201  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{store_id}/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if len(in.Items) == 0 {
		return badRequest(c, "VALIDATION", "items es requerido")
	}
	out, err := h.uc.Create(c.UserContext(), c.Params("store_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden por ID
// @Tags         orders
// @Produce      json
// @Param        store_id  path  string  true  "ID de la tienda"
// @Param        id        path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{store_id}/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("store_id"), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "orden no encontrada")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar orden de compra
// @Description  Reversa las cantidades originales y aplica las nuevas.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        store_id  path  string  true  "ID de la tienda"
// @Param        id        path  string  true  "ID de la orden"
// @Param        body      body  dto.UpdateOrderRequest  true  "Datos a actualizar"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{store_id}/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if len(in.Items) == 0 {
		return badRequest(c, "VALIDATION", "items es requerido")
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("store_id"), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "orden no encontrada")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         orders
// @Produce      json
// @Param        store_id  path   string  true   "ID de la tienda"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/stores/{store_id}/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	out, err := h.uc.List(c.Params("store_id"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Anular orden de compra
// @Description  Reversa el stock ingresado y elimina el egreso asociado.
// @Tags         orders
// @Param        store_id  path  string  true  "ID de la tienda"
// @Param        id        path  string  true  "ID de la orden"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{store_id}/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("store_id"), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
