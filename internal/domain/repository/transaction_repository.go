package repository

import (
	"context"

	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
)

// TransactionRepository libro de caja: solo alta y baja.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	// List más reciente primero.
	List(ctx context.Context) ([]*entity.Transaction, error)
	Delete(ctx context.Context, id string) error
}
