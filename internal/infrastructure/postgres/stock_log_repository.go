package postgres

import (
	"context"

	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
)

var _ repository.StockLogRepository = (*StockLogRepo)(nil)

// StockLogRepo registro append-only de entradas de stock.
type StockLogRepo struct {
	q       Querier
	channel string
}

// NewStockLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLogRepository(q Querier, channel string) *StockLogRepo {
	return &StockLogRepo{q: q, channel: channel}
}

// Append inserta una entrada. Nunca se actualiza ni se borra.
func (r *StockLogRepo) Append(ctx context.Context, e *entity.StockLogEntry) error {
	query := `
		INSERT INTO stock_log (id, item_id, item_name, type, quantity, cost_price, new_average_cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, e.ID, e.ItemID, e.ItemName, e.Type, e.Quantity, e.CostPrice, e.NewAverageCost, e.CreatedAt)
	if err != nil {
		return mapErr("registrar entrada", "entrada", e.ID, err)
	}
	return domain.Persistence("registrar entrada", notify(ctx, r.q, r.channel, repository.CollectionStockLog))
}

// ListByItem últimas entradas del ítem, más recientes primero. limit <= 0 devuelve todas.
func (r *StockLogRepo) ListByItem(ctx context.Context, itemID string, limit int) ([]*entity.StockLogEntry, error) {
	list := make([]*entity.StockLogEntry, 0)
	if !validID(itemID) {
		return list, nil
	}
	query := `
		SELECT id, item_id, item_name, type, quantity, cost_price, new_average_cost, created_at
		FROM stock_log
		WHERE item_id = $1
		ORDER BY created_at DESC, id DESC`
	args := []any{itemID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Persistence("listar entradas", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e entity.StockLogEntry
		if err := rows.Scan(&e.ID, &e.ItemID, &e.ItemName, &e.Type, &e.Quantity, &e.CostPrice, &e.NewAverageCost, &e.CreatedAt); err != nil {
			return nil, domain.Persistence("listar entradas", err)
		}
		list = append(list, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("listar entradas", err)
	}
	return list, nil
}
