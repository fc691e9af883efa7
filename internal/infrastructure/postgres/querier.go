package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx: los repos funcionan igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// notify emite pg_notify en el mismo Querier: dentro de una tx solo se entrega al hacer Commit.
func notify(ctx context.Context, q Querier, channel, collection string) error {
	if channel == "" {
		return nil
	}
	if _, err := q.Exec(ctx, `SELECT pg_notify($1, $2)`, channel, collection); err != nil {
		return fmt.Errorf("notify %s: %w", collection, err)
	}
	return nil
}
