package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, items, total, status, observation, is_paid, payment_method, created_at`

// orderLineRow forma persistida de cada línea en la columna JSONB items.
type orderLineRow struct {
	ItemID      string          `json:"item_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Quantity    int             `json:"quantity"`
}

// OrderRepo implementación de OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q       Querier
	channel string
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier, channel string) *OrderRepo {
	return &OrderRepo{q: q, channel: channel}
}

func encodeLines(lines []entity.OrderLine) ([]byte, error) {
	rows := make([]orderLineRow, len(lines))
	for i, l := range lines {
		rows[i] = orderLineRow{
			ItemID:      l.MenuItem.ID,
			Name:        l.MenuItem.Name,
			Description: l.MenuItem.Description,
			Price:       l.MenuItem.Price,
			CostPrice:   l.MenuItem.CostPrice,
			Quantity:    l.Quantity,
		}
	}
	return json.Marshal(rows)
}

func decodeLines(raw []byte) ([]entity.OrderLine, error) {
	var rows []orderLineRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	lines := make([]entity.OrderLine, len(rows))
	for i, r := range rows {
		lines[i] = entity.OrderLine{
			MenuItem: entity.MenuItemSnapshot{
				ID:          r.ItemID,
				Name:        r.Name,
				Description: r.Description,
				Price:       r.Price,
				CostPrice:   r.CostPrice,
			},
			Quantity: r.Quantity,
		}
	}
	return lines, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o      entity.Order
		items  []byte
		status string
		method string
	)
	if err := row.Scan(&o.ID, &items, &o.Total, &status, &o.Observation, &o.IsPaid, &method, &o.CreatedAt); err != nil {
		return nil, err
	}
	lines, err := decodeLines(items)
	if err != nil {
		return nil, err
	}
	o.Items = lines
	o.Status = entity.OrderStatus(status)
	o.PaymentMethod = entity.PaymentMethod(method)
	return &o, nil
}

// Create inserta el pedido con sus líneas.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	items, err := encodeLines(o.Items)
	if err != nil {
		return domain.Persistence("crear pedido", err)
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.q.Exec(ctx, query, o.ID, items, o.Total, string(o.Status), o.Observation, o.IsPaid, string(o.PaymentMethod), o.CreatedAt)
	if err != nil {
		return mapErr("crear pedido", "pedido", o.ID, err)
	}
	return domain.Persistence("crear pedido", notify(ctx, r.q, r.channel, repository.CollectionOrders))
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, id, `SELECT `+orderColumns+` FROM orders WHERE id = $1`)
}

// GetForUpdate obtiene el pedido bloqueando la fila.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, id, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`)
}

func (r *OrderRepo) get(ctx context.Context, id, query string) (*entity.Order, error) {
	if !validID(id) {
		return nil, notFound("pedido", id)
	}
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapErr("obtener pedido", "pedido", id, err)
	}
	return o, nil
}

// List pedidos más recientes primero, opcionalmente filtrados por estado.
func (r *OrderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Persistence("listar pedidos", err)
	}
	defer rows.Close()
	list := make([]*entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, domain.Persistence("listar pedidos", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("listar pedidos", err)
	}
	return list, nil
}

// UpdateStatus cambia el estado. La validación de la transición es del caso de uso.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	return r.exec(ctx, "actualizar estado", id, `UPDATE orders SET status = $2 WHERE id = $1`, string(status))
}

// UpdatePayment registra el pago.
func (r *OrderRepo) UpdatePayment(ctx context.Context, id string, isPaid bool, method entity.PaymentMethod) error {
	return r.exec(ctx, "registrar pago", id, `UPDATE orders SET is_paid = $2, payment_method = $3 WHERE id = $1`, isPaid, string(method))
}

func (r *OrderRepo) exec(ctx context.Context, op, id, query string, args ...any) error {
	if !validID(id) {
		return notFound("pedido", id)
	}
	tag, err := r.q.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return domain.Persistence(op, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("pedido", id)
	}
	return domain.Persistence(op, notify(ctx, r.q, r.channel, repository.CollectionOrders))
}
