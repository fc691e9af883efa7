package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/lanchonete-api/internal/application/inventory"
	"github.com/jhoicas/lanchonete-api/internal/application/ordering"
	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ ordering.TxRunner  = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Los NOTIFY emitidos por los repos se entregan solo si hay Commit.
type TxRunner struct {
	pool    *pgxpool.Pool
	channel string
}

// NewTxRunner construye el runner con el pool y el canal de notificaciones.
func NewTxRunner(pool *pgxpool.Pool, channel string) *TxRunner {
	return &TxRunner{pool: pool, channel: channel}
}

// Run transacción del motor de costos: ítems + stock_log.
func (r *TxRunner) Run(ctx context.Context, fn func(
	menuRepo repository.MenuItemRepository,
	stockLogRepo repository.StockLogRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewMenuItemRepository(tx, r.channel), NewStockLogRepository(tx, r.channel))
	})
}

// RunOrder transacción de pedidos: ítems (descuento de stock) + pedidos.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	menuRepo repository.MenuItemRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewMenuItemRepository(tx, r.channel), NewOrderRepository(tx, r.channel))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Persistence("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Persistence("commit transaction", err)
	}
	return nil
}
