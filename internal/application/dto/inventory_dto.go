package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReplenishRequest entrada de POST /api/menu-items/:id/replenish.
// Sin batch_cost se usa el costo actual del ítem.
type ReplenishRequest struct {
	Quantity  int              `json:"quantity"`
	BatchCost *decimal.Decimal `json:"batch_cost"`
}

// StockLogEntryResponse registro de reposición.
type StockLogEntryResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	ItemName       string          `json:"item_name"`
	Type           string          `json:"type"`
	Quantity       int             `json:"quantity"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	NewAverageCost decimal.Decimal `json:"new_average_cost"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ReplenishResponse ítem actualizado más el registro generado.
type ReplenishResponse struct {
	Item  MenuItemResponse      `json:"item"`
	Entry StockLogEntryResponse `json:"entry"`
}
