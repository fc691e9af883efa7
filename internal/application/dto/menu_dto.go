package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMenuItemRequest entrada para crear un ítem del cardápio.
type CreateMenuItemRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	CostPrice   *decimal.Decimal `json:"cost_price"` // opcional, 0 por defecto
	Stock       int              `json:"stock"`
	Visible     *bool            `json:"visible"` // opcional, true por defecto
}

// UpdateMenuItemRequest reemplazo completo del ítem (excepto ID).
// Es la vía de corrección manual de CostPrice.
type UpdateMenuItemRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Stock       int             `json:"stock"`
	Visible     bool            `json:"visible"`
}

// SetVisibilityRequest entrada de PATCH /api/menu-items/:id/visibility.
type SetVisibilityRequest struct {
	Visible bool `json:"visible"`
}

// MenuItemResponse salida de un ítem (vista interna, incluye costo y stock).
type MenuItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Stock       int             `json:"stock"`
	Visible     bool            `json:"visible"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PublicMenuItemResponse vista pública: sin costo.
type PublicMenuItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"` // stock > 0
}
