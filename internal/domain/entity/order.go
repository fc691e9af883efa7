package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del pedido en cocina.
type OrderStatus string

// Estados del pedido. No hay estado terminal: completed puede volver a preparing.
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusCompleted OrderStatus = "completed"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPreparing},
	OrderStatusPreparing: {OrderStatusCompleted, OrderStatusPending},
	OrderStatusCompleted: {OrderStatusPreparing},
}

// Valid indica si el literal es un estado conocido.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo indica si el cambio s -> target está permitido.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// PaymentMethod forma de pago. Vacío significa no informado.
type PaymentMethod string

const (
	PaymentPix    PaymentMethod = "pix"
	PaymentMoney  PaymentMethod = "money"
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
)

// PaymentMethods en el orden fijo usado por los reportes.
var PaymentMethods = []PaymentMethod{PaymentPix, PaymentMoney, PaymentCredit, PaymentDebit}

// Valid indica si es uno de los cuatro métodos.
func (p PaymentMethod) Valid() bool {
	for _, m := range PaymentMethods {
		if p == m {
			return true
		}
	}
	return false
}

// MenuItemSnapshot copia del ítem al momento del pedido; no cambia si el catálogo cambia.
type MenuItemSnapshot struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	CostPrice   decimal.Decimal
}

// OrderLine línea del pedido.
type OrderLine struct {
	MenuItem MenuItemSnapshot
	Quantity int
}

// Subtotal precio × cantidad de la línea.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.MenuItem.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order pedido. Total se fija al crear y nunca se recalcula.
type Order struct {
	ID            string
	Items         []OrderLine
	Total         decimal.Decimal
	Status        OrderStatus
	Observation   string
	IsPaid        bool
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
}

// ShortNumber número corto mostrado en cocina y recibo: # + últimos 4 caracteres del ID.
func (o *Order) ShortNumber() string {
	if len(o.ID) <= 4 {
		return "#" + o.ID
	}
	return "#" + o.ID[len(o.ID)-4:]
}

// LinesTotal suma los subtotales de las líneas.
func LinesTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
