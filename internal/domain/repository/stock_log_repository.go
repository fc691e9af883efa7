package repository

import (
	"context"

	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
)

// StockLogRepository log de reposiciones (solo inserción).
type StockLogRepository interface {
	Append(ctx context.Context, entry *entity.StockLogEntry) error
	// ListByItem más reciente primero; limit <= 0 sin límite.
	ListByItem(ctx context.Context, itemID string, limit int) ([]*entity.StockLogEntry, error)
}
