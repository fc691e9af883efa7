package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
)

var _ repository.MenuItemRepository = (*MenuItemRepo)(nil)

const menuItemColumns = `id, name, description, price, cost_price, stock, visible, created_at, updated_at`

// MenuItemRepo implementación de MenuItemRepository sobre PostgreSQL (usable con pool o tx).
type MenuItemRepo struct {
	q       Querier
	channel string
}

// NewMenuItemRepository construye el adaptador. Pasar pool o tx (Querier) y el canal de NOTIFY.
func NewMenuItemRepository(q Querier, channel string) *MenuItemRepo {
	return &MenuItemRepo{q: q, channel: channel}
}

func scanMenuItem(row pgx.Row) (*entity.MenuItem, error) {
	var m entity.MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.CostPrice, &m.Stock, &m.Visible, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta un ítem.
func (r *MenuItemRepo) Create(ctx context.Context, m *entity.MenuItem) error {
	query := `
		INSERT INTO menu_items (` + menuItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, m.ID, m.Name, m.Description, m.Price, m.CostPrice, m.Stock, m.Visible, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return mapErr("crear ítem", "ítem", m.ID, err)
	}
	return domain.Persistence("crear ítem", notify(ctx, r.q, r.channel, repository.CollectionMenuItems))
}

// GetByID obtiene un ítem por ID.
func (r *MenuItemRepo) GetByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	return r.get(ctx, id, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`)
}

// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE).
func (r *MenuItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.MenuItem, error) {
	return r.get(ctx, id, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1 FOR UPDATE`)
}

func (r *MenuItemRepo) get(ctx context.Context, id, query string) (*entity.MenuItem, error) {
	if !validID(id) {
		return nil, notFound("ítem", id)
	}
	m, err := scanMenuItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapErr("obtener ítem", "ítem", id, err)
	}
	return m, nil
}

// GetByName primer ítem con ese nombre exacto.
func (r *MenuItemRepo) GetByName(ctx context.Context, name string) (*entity.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE name = $1 ORDER BY created_at LIMIT 1`
	m, err := scanMenuItem(r.q.QueryRow(ctx, query, name))
	if err != nil {
		return nil, mapErr("obtener ítem por nombre", "ítem", name, err)
	}
	return m, nil
}

// List todos los ítems por nombre.
func (r *MenuItemRepo) List(ctx context.Context) ([]*entity.MenuItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+menuItemColumns+` FROM menu_items ORDER BY name, id`)
	if err != nil {
		return nil, domain.Persistence("listar ítems", err)
	}
	defer rows.Close()
	list := make([]*entity.MenuItem, 0)
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, domain.Persistence("listar ítems", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("listar ítems", err)
	}
	return list, nil
}

// Update reemplaza todos los campos editables. El CHECK stock >= 0 lo garantiza la tabla.
func (r *MenuItemRepo) Update(ctx context.Context, m *entity.MenuItem) error {
	if !validID(m.ID) {
		return notFound("ítem", m.ID)
	}
	query := `
		UPDATE menu_items
		SET name = $2, description = $3, price = $4, cost_price = $5, stock = $6, visible = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, m.ID, m.Name, m.Description, m.Price, m.CostPrice, m.Stock, m.Visible, m.UpdatedAt)
	if err != nil {
		return domain.Persistence("actualizar ítem", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("ítem", m.ID)
	}
	return domain.Persistence("actualizar ítem", notify(ctx, r.q, r.channel, repository.CollectionMenuItems))
}

// Delete elimina el ítem; stock_log y pedidos conservan sus copias.
func (r *MenuItemRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound("ítem", id)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return domain.Persistence("eliminar ítem", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("ítem", id)
	}
	return domain.Persistence("eliminar ítem", notify(ctx, r.q, r.channel, repository.CollectionMenuItems))
}
