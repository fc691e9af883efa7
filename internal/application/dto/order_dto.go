package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea pedida.
type OrderLineRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// CreateOrderRequest entrada de POST /api/orders.
type CreateOrderRequest struct {
	Items         []OrderLineRequest `json:"items"`
	Observation   string             `json:"observation"`
	IsPaid        bool               `json:"is_paid"`
	PaymentMethod string             `json:"payment_method"` // pix|money|credit|debit, opcional
}

// UpdateOrderStatusRequest entrada de PATCH /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// RecordPaymentRequest entrada de PATCH /api/orders/:id/payment.
// payment_method ausente conserva el anterior.
type RecordPaymentRequest struct {
	IsPaid        bool    `json:"is_paid"`
	PaymentMethod *string `json:"payment_method"`
}

// OrderLineResponse línea con el snapshot del ítem.
type OrderLineResponse struct {
	MenuItemID  string          `json:"menu_item_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID            string              `json:"id"`
	Number        string              `json:"number"` // #abcd
	Items         []OrderLineResponse `json:"items"`
	Total         decimal.Decimal     `json:"total"`
	Status        string              `json:"status"`
	Observation   string              `json:"observation,omitempty"`
	IsPaid        bool                `json:"is_paid"`
	PaymentMethod string              `json:"payment_method,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// BoardColumn columna del tablero de cocina.
type BoardColumn struct {
	Status string          `json:"status"`
	Orders []OrderResponse `json:"orders"`
}

// KitchenBoardResponse salida de GET /api/kitchen/board.
type KitchenBoardResponse struct {
	Pending   BoardColumn `json:"pending"`
	Preparing BoardColumn `json:"preparing"`
	Completed BoardColumn `json:"completed"`
	Paid      int         `json:"paid"`   // completados pagos
	Unpaid    int         `json:"unpaid"` // completados pendientes de pago
}
