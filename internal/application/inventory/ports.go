package inventory

import (
	"context"

	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de costos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		menuRepo repository.MenuItemRepository,
		stockLogRepo repository.StockLogRepository,
	) error) error
}
