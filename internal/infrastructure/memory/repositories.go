package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
)

var (
	_ repository.MenuItemRepository    = (*MenuItemRepository)(nil)
	_ repository.OrderRepository       = (*OrderRepository)(nil)
	_ repository.StockLogRepository    = (*StockLogRepository)(nil)
	_ repository.TransactionRepository = (*TransactionRepository)(nil)
)

var errNegativeStock = errors.New("menu_items_stock_check: stock negativo")

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, id)
}

// MenuItemRepository implementa repository.MenuItemRepository.
type MenuItemRepository struct{ sc scope }

func (r *MenuItemRepository) Create(ctx context.Context, item *entity.MenuItem) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.menu[item.ID]; ok {
			return domain.Persistence("crear ítem", fmt.Errorf("id duplicado %s", item.ID))
		}
		if item.Stock < 0 {
			return domain.Persistence("crear ítem", errNegativeStock)
		}
		st.menu[item.ID] = *item
		return nil
	}, repository.CollectionMenuItems)
}

func (r *MenuItemRepository) GetByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	var out *entity.MenuItem
	err := r.sc.read(func(st *state) error {
		m, ok := st.menu[id]
		if !ok {
			return notFound("ítem", id)
		}
		out = &m
		return nil
	})
	return out, err
}

// GetForUpdate en memoria la transacción ya tiene el lock exclusivo del store.
func (r *MenuItemRepository) GetForUpdate(ctx context.Context, id string) (*entity.MenuItem, error) {
	return r.GetByID(ctx, id)
}

func (r *MenuItemRepository) GetByName(ctx context.Context, name string) (*entity.MenuItem, error) {
	var out *entity.MenuItem
	err := r.sc.read(func(st *state) error {
		for _, m := range st.menu {
			if m.Name == name {
				m := m
				out = &m
				return nil
			}
		}
		return notFound("ítem", name)
	})
	return out, err
}

func (r *MenuItemRepository) List(ctx context.Context) ([]*entity.MenuItem, error) {
	var out []*entity.MenuItem
	err := r.sc.read(func(st *state) error {
		out = make([]*entity.MenuItem, 0, len(st.menu))
		for _, m := range st.menu {
			m := m
			out = append(out, &m)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *MenuItemRepository) Update(ctx context.Context, item *entity.MenuItem) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.menu[item.ID]; !ok {
			return notFound("ítem", item.ID)
		}
		if item.Stock < 0 {
			return domain.Persistence("actualizar ítem", errNegativeStock)
		}
		st.menu[item.ID] = *item
		return nil
	}, repository.CollectionMenuItems)
}

func (r *MenuItemRepository) Delete(ctx context.Context, id string) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.menu[id]; !ok {
			return notFound("ítem", id)
		}
		delete(st.menu, id)
		return nil
	}, repository.CollectionMenuItems)
}

// OrderRepository implementa repository.OrderRepository.
type OrderRepository struct{ sc scope }

func copyOrder(o entity.Order) *entity.Order {
	o.Items = append([]entity.OrderLine(nil), o.Items...)
	return &o
}

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.orders[order.ID]; ok {
			return domain.Persistence("crear pedido", fmt.Errorf("id duplicado %s", order.ID))
		}
		st.orders[order.ID] = *copyOrder(*order)
		return nil
	}, repository.CollectionOrders)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.sc.read(func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return notFound("pedido", id)
		}
		out = copyOrder(o)
		return nil
	})
	return out, err
}

func (r *OrderRepository) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.sc.read(func(st *state) error {
		out = make([]*entity.Order, 0, len(st.orders))
		for _, o := range st.orders {
			if filter.Status != "" && o.Status != filter.Status {
				continue
			}
			out = append(out, copyOrder(o))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	return r.sc.write(func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return notFound("pedido", id)
		}
		o.Status = status
		st.orders[id] = o
		return nil
	}, repository.CollectionOrders)
}

func (r *OrderRepository) UpdatePayment(ctx context.Context, id string, isPaid bool, method entity.PaymentMethod) error {
	return r.sc.write(func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return notFound("pedido", id)
		}
		o.IsPaid = isPaid
		o.PaymentMethod = method
		st.orders[id] = o
		return nil
	}, repository.CollectionOrders)
}

// StockLogRepository implementa repository.StockLogRepository.
type StockLogRepository struct{ sc scope }

func (r *StockLogRepository) Append(ctx context.Context, entry *entity.StockLogEntry) error {
	return r.sc.write(func(st *state) error {
		st.stockLog = append(st.stockLog, *entry)
		return nil
	}, repository.CollectionStockLog)
}

func (r *StockLogRepository) ListByItem(ctx context.Context, itemID string, limit int) ([]*entity.StockLogEntry, error) {
	var out []*entity.StockLogEntry
	err := r.sc.read(func(st *state) error {
		out = make([]*entity.StockLogEntry, 0)
		// recorrido inverso: más reciente primero
		for i := len(st.stockLog) - 1; i >= 0; i-- {
			e := st.stockLog[i]
			if e.ItemID != itemID {
				continue
			}
			out = append(out, &e)
			if limit > 0 && len(out) == limit {
				break
			}
		}
		return nil
	})
	return out, err
}

// TransactionRepository implementa repository.TransactionRepository.
type TransactionRepository struct{ sc scope }

func (r *TransactionRepository) Create(ctx context.Context, t *entity.Transaction) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.txs[t.ID]; ok {
			return domain.Persistence("crear movimiento", fmt.Errorf("id duplicado %s", t.ID))
		}
		st.txs[t.ID] = *t
		return nil
	}, repository.CollectionTransactions)
}

func (r *TransactionRepository) List(ctx context.Context) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	err := r.sc.read(func(st *state) error {
		out = make([]*entity.Transaction, 0, len(st.txs))
		for _, t := range st.txs {
			t := t
			out = append(out, &t)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.txs[id]; !ok {
			return notFound("movimiento", id)
		}
		delete(st.txs, id)
		return nil
	}, repository.CollectionTransactions)
}
