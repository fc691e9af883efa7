package postgres

import (
	"context"

	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

type TransactionRepo struct {
	q       Querier
	channel string
}

func NewTransactionRepository(q Querier, channel string) *TransactionRepo {
	return &TransactionRepo{q: q, channel: channel}
}

func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, description, amount, type, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, t.ID, t.Description, t.Amount, string(t.Type), t.Category, t.CreatedAt)
	if err != nil {
		return mapErr("crear movimiento", "movimiento", t.ID, err)
	}
	return domain.Persistence("crear movimiento", notify(ctx, r.q, r.channel, repository.CollectionTransactions))
}

// List movimientos más recientes primero.
func (r *TransactionRepo) List(ctx context.Context) ([]*entity.Transaction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, description, amount, type, category, created_at
		FROM transactions
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, domain.Persistence("listar movimientos", err)
	}
	defer rows.Close()
	list := make([]*entity.Transaction, 0)
	for rows.Next() {
		var (
			t   entity.Transaction
			typ string
		)
		if err := rows.Scan(&t.ID, &t.Description, &t.Amount, &typ, &t.Category, &t.CreatedAt); err != nil {
			return nil, domain.Persistence("listar movimientos", err)
		}
		t.Type = entity.TransactionType(typ)
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("listar movimientos", err)
	}
	return list, nil
}

func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound("movimiento", id)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return domain.Persistence("eliminar movimiento", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("movimiento", id)
	}
	return domain.Persistence("eliminar movimiento", notify(ctx, r.q, r.channel, repository.CollectionTransactions))
}
