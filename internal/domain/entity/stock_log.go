package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de entrada en el log de stock.
const (
	StockLogTypeEntry = "entry"
)

// StockLogEntry registro inmutable de una reposición.
// CostPrice es el costo del lote; NewAverageCost el promedio resultante.
type StockLogEntry struct {
	ID             string
	ItemID         string
	ItemName       string
	Type           string
	Quantity       int
	CostPrice      decimal.Decimal
	NewAverageCost decimal.Decimal
	CreatedAt      time.Time
}
