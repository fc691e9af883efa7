package repository

import (
	"context"

	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
)

// OrderFilter filtros de listado. Status vacío = todos.
type OrderFilter struct {
	Status entity.OrderStatus
}

// OrderRepository define el puerto de persistencia para Order.
// Total e Items no se modifican después de Create.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea el pedido hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// List devuelve los pedidos más recientes primero.
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error
	UpdatePayment(ctx context.Context, id string, isPaid bool, method entity.PaymentMethod) error
}
