package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lanchonete-api/internal/application/dto"
)

// Pinger comprueba el almacenamiento (*pgxpool.Pool lo cumple). nil = memoria.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store  string
	pinger Pinger
}

func NewHealthHandler(store string, pinger Pinger) *HealthHandler {
	return &HealthHandler{store: store, pinger: pinger}
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "degraded", Store: h.store})
		}
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Store: h.store})
}
