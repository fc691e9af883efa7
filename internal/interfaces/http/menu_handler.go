package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lanchonete-api/internal/application/dto"
	"github.com/jhoicas/lanchonete-api/internal/application/inventory"
	"github.com/jhoicas/lanchonete-api/internal/application/usecase"
)

const defaultStockLogLimit = 50

// MenuHandler cardápio y reposición de stock (protegido).
type MenuHandler struct {
	uc        *usecase.MenuUseCase
	replenish *inventory.ReplenishUseCase
}

// NewMenuHandler construye el handler.
func NewMenuHandler(uc *usecase.MenuUseCase, replenish *inventory.ReplenishUseCase) *MenuHandler {
	return &MenuHandler{uc: uc, replenish: replenish}
}

// List godoc
// @Summary      Listar ítems del cardápio
// @Tags         menu-items
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.MenuItemResponse
// @Router       /api/menu-items [get]
func (h *MenuHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener ítem por ID
// @Tags         menu-items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.MenuItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/menu-items/{id} [get]
func (h *MenuHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear ítem
// @Tags         menu-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMenuItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.MenuItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/menu-items [post]
func (h *MenuHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMenuItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Reemplazar ítem
// @Description  Reemplazo completo; es la vía de corrección manual del costo.
// @Tags         menu-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.UpdateMenuItemRequest  true  "Datos del ítem"
// @Success      200   {object}  dto.MenuItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/menu-items/{id} [put]
func (h *MenuHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMenuItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SetVisibility godoc
// @Summary      Mostrar u ocultar ítem en el cardápio público
// @Tags         menu-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.SetVisibilityRequest  true  "Visibilidad"
// @Success      200   {object}  dto.MenuItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/menu-items/{id}/visibility [patch]
func (h *MenuHandler) SetVisibility(c *fiber.Ctx) error {
	var in dto.SetVisibilityRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.SetVisibility(c.UserContext(), c.Params("id"), in.Visible)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ítem
// @Tags         menu-items
// @Security     Bearer
// @Param        id   path  string  true  "ID del ítem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/menu-items/{id} [delete]
func (h *MenuHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Replenish godoc
// @Summary      Reponer stock
// @Description  Suma unidades y recalcula el costo promedio ponderado. Sin batch_cost se usa el costo actual.
// @Tags         menu-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.ReplenishRequest  true  "Cantidad y costo del lote"
// @Success      200   {object}  dto.ReplenishResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/menu-items/{id}/replenish [post]
func (h *MenuHandler) Replenish(c *fiber.Ctx) error {
	var in dto.ReplenishRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.replenish.Replenish(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// StockLog godoc
// @Summary      Historial de reposiciones del ítem
// @Tags         menu-items
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del ítem"
// @Param        limit  query  int     false  "Límite"  default(50)
// @Success      200    {array}   dto.StockLogEntryResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/menu-items/{id}/stock-log [get]
func (h *MenuHandler) StockLog(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultStockLogLimit)
	if limit <= 0 || limit > 500 {
		limit = defaultStockLogLimit
	}
	out, err := h.replenish.History(c.UserContext(), c.Params("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
