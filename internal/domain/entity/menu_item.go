package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity tope de stock y de cantidad por línea (columna INTEGER en PostgreSQL).
const MaxQuantity = math.MaxInt32

// Escalas de dinero: precios con 2 decimales, costos con 4.
const (
	PriceScale = 2
	CostScale  = 4
)

// HasScale indica si v no tiene más decimales que scale.
func HasScale(v decimal.Decimal, scale int32) bool {
	return v.Equal(v.Truncate(scale))
}

// MenuItem representa un producto del cardápio.
// CostPrice es promedio ponderado: solo cambia por reposición o corrección manual desde el catálogo.
type MenuItem struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	CostPrice   decimal.Decimal // costo promedio ponderado (inicia en 0)
	Stock       int
	Visible     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snapshot copia los datos que el pedido congela al momento de la venta.
func (m *MenuItem) Snapshot() MenuItemSnapshot {
	return MenuItemSnapshot{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		CostPrice:   m.CostPrice,
	}
}
