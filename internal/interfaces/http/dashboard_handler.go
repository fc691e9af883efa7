package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/lanchonete-api/internal/application/analytics"
	"github.com/jhoicas/lanchonete-api/internal/application/dto"
)

// DashboardHandler métricas de ventas.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Get godoc
// @Summary      Dashboard de ventas
// @Description  Solo pedidos completed. Sin range se consideran todos.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        range  query  string  false  "today|7d|30d|custom|all"
// @Param        start  query  string  false  "YYYY-MM-DD (custom)"
// @Param        end    query  string  false  "YYYY-MM-DD (custom)"
// @Param        tz     query  string  false  "Zona IANA; por defecto APP_TIMEZONE"
// @Success      200    {object}  dto.DashboardResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	var req dto.DashboardRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.uc.GetDashboard(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
