package repository

import (
	"context"

	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
)

// MenuItemRepository define el puerto de persistencia para MenuItem (DIP).
type MenuItemRepository interface {
	Create(ctx context.Context, item *entity.MenuItem) error
	GetByID(ctx context.Context, id string) (*entity.MenuItem, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.MenuItem, error)
	GetByName(ctx context.Context, name string) (*entity.MenuItem, error)
	List(ctx context.Context) ([]*entity.MenuItem, error)
	Update(ctx context.Context, item *entity.MenuItem) error
	Delete(ctx context.Context, id string) error
}
