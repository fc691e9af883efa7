package ordering

import (
	"context"
	"time"

	"github.com/jhoicas/lanchonete-api/internal/application/realtime"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una unidad atómica con repos atados a ella.
// Si fn devuelve error no se aplica ningún cambio.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		menuRepo repository.MenuItemRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// EventPublisher notificaciones best-effort tras el commit.
type EventPublisher interface {
	Publish(ev realtime.Event) error
}

// ReceiptInfo datos del local impresos en el recibo.
type ReceiptInfo struct {
	StoreName string
	Location  *time.Location
}

// ReceiptGenerator renderiza el recibo del pedido (PDF).
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, order *entity.Order, info ReceiptInfo) ([]byte, error)
}
