package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lanchonete-api/internal/application/dto"
)

// PublicMenuSource vista pública del cardápio (lo implementa el cache del feed o el caso de uso).
type PublicMenuSource interface {
	Get(ctx context.Context) ([]dto.PublicMenuItemResponse, error)
}

// PublicHandler endpoints sin autenticación.
type PublicHandler struct {
	menu PublicMenuSource
}

func NewPublicHandler(menu PublicMenuSource) *PublicHandler {
	return &PublicHandler{menu: menu}
}

// Menu godoc
// @Summary      Cardápio público
// @Description  Solo ítems visibles, ordenados por nombre. Sin costo ni stock.
// @Tags         public
// @Produce      json
// @Success      200  {array}  dto.PublicMenuItemResponse
// @Router       /api/public/menu [get]
func (h *PublicHandler) Menu(c *fiber.Ctx) error {
	out, err := h.menu.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}
