// Package memory implementa los repositorios en memoria. Las transacciones trabajan sobre una
// copia del estado y la publican entera al confirmar.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/lanchonete-api/internal/application/inventory"
	"github.com/jhoicas/lanchonete-api/internal/application/ordering"
	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*Store)(nil)
	_ ordering.TxRunner  = (*Store)(nil)
)

// ChangeFunc recibe las colecciones modificadas después de cada commit.
type ChangeFunc func(collections ...string)

type state struct {
	menu     map[string]entity.MenuItem
	orders   map[string]entity.Order
	stockLog []entity.StockLogEntry
	txs      map[string]entity.Transaction
}

func newState() *state {
	return &state{
		menu:   make(map[string]entity.MenuItem),
		orders: make(map[string]entity.Order),
		txs:    make(map[string]entity.Transaction),
	}
}

func (s *state) clone() *state {
	c := &state{
		menu:     make(map[string]entity.MenuItem, len(s.menu)),
		orders:   make(map[string]entity.Order, len(s.orders)),
		stockLog: append([]entity.StockLogEntry(nil), s.stockLog...),
		txs:      make(map[string]entity.Transaction, len(s.txs)),
	}
	for k, v := range s.menu {
		c.menu[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.txs {
		c.txs[k] = v
	}
	return c
}

// scope acceso al estado: directo sobre el store (con locks) o dentro de una transacción.
type scope interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error, collections ...string) error
}

// Store estado completo en memoria. Escrituras serializadas.
type Store struct {
	mu       sync.RWMutex
	st       *state
	onChange ChangeFunc
}

// Option configura el Store.
type Option func(*Store)

// WithChangeFunc registra el callback de cambios (ej. realtime.Feed.Notify).
func WithChangeFunc(fn ChangeFunc) Option {
	return func(s *Store) { s.onChange = fn }
}

// NewStore construye un store vacío.
func NewStore(opts ...Option) *Store {
	s := &Store{st: newState()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

// write opera sobre una copia: si fn falla el estado no cambia.
func (s *Store) write(fn func(st *state) error, collections ...string) error {
	s.mu.Lock()
	next := s.st.clone()
	if err := fn(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.st = next
	s.mu.Unlock()
	s.notify(collections)
	return nil
}

func (s *Store) notify(collections []string) {
	if s.onChange != nil && len(collections) > 0 {
		s.onChange(collections...)
	}
}

// txScope estado privado de una transacción en curso (el Store ya tiene el lock).
type txScope struct {
	st      *state
	touched map[string]struct{}
	order   []string
}

func (t *txScope) read(fn func(st *state) error) error { return fn(t.st) }

func (t *txScope) write(fn func(st *state) error, collections ...string) error {
	if err := fn(t.st); err != nil {
		return err
	}
	for _, c := range collections {
		if _, ok := t.touched[c]; !ok {
			t.touched[c] = struct{}{}
			t.order = append(t.order, c)
		}
	}
	return nil
}

// atomic ejecuta fn con una copia del estado y la publica solo si fn no devuelve error.
func (s *Store) atomic(ctx context.Context, fn func(sc scope) error) error {
	if err := ctx.Err(); err != nil {
		return domain.Persistence("begin transaction", err)
	}
	s.mu.Lock()
	tx := &txScope{st: s.st.clone(), touched: make(map[string]struct{})}
	if err := fn(tx); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return domain.Persistence("commit transaction", err)
	}
	s.st = tx.st
	s.mu.Unlock()
	s.notify(tx.order)
	return nil
}

// Run unidad atómica para reposición de stock.
func (s *Store) Run(ctx context.Context, fn func(
	menuRepo repository.MenuItemRepository,
	stockLogRepo repository.StockLogRepository,
) error) error {
	return s.atomic(ctx, func(sc scope) error {
		return fn(&MenuItemRepository{sc: sc}, &StockLogRepository{sc: sc})
	})
}

// RunOrder unidad atómica para pedidos.
func (s *Store) RunOrder(ctx context.Context, fn func(
	menuRepo repository.MenuItemRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return s.atomic(ctx, func(sc scope) error {
		return fn(&MenuItemRepository{sc: sc}, &OrderRepository{sc: sc})
	})
}

// MenuItems repositorio fuera de transacción.
func (s *Store) MenuItems() *MenuItemRepository { return &MenuItemRepository{sc: s} }

// Orders repositorio fuera de transacción.
func (s *Store) Orders() *OrderRepository { return &OrderRepository{sc: s} }

// StockLog repositorio fuera de transacción.
func (s *Store) StockLog() *StockLogRepository { return &StockLogRepository{sc: s} }

// Transactions repositorio fuera de transacción.
func (s *Store) Transactions() *TransactionRepository { return &TransactionRepository{sc: s} }
