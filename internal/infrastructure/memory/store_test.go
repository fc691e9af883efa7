package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
	"github.com/jhoicas/lanchonete-api/internal/infrastructure/memory"
)

type changes struct {
	mu   sync.Mutex
	seen [][]string
}

func (c *changes) record(collections ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, collections)
}

func (c *changes) all() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]string(nil), c.seen...)
}

func item(id, name string, stock int) *entity.MenuItem {
	return &entity.MenuItem{ID: id, Name: name, Price: decimal.NewFromInt(10), Stock: stock, Visible: true}
}

func TestStore_RunOrderConfirmaYNotifica(t *testing.T) {
	ch := &changes{}
	s := memory.NewStore(memory.WithChangeFunc(ch.record))
	ctx := context.Background()
	require.NoError(t, s.MenuItems().Create(ctx, item("a", "X-Bacon", 5)))

	err := s.RunOrder(ctx, func(menu repository.MenuItemRepository, orders repository.OrderRepository) error {
		it, err := menu.GetForUpdate(ctx, "a")
		if err != nil {
			return err
		}
		it.Stock -= 2
		if err := menu.Update(ctx, it); err != nil {
			return err
		}
		return orders.Create(ctx, &entity.Order{ID: "o1", Status: entity.OrderStatusPending, CreatedAt: time.Now()})
	})
	require.NoError(t, err)

	got, err := s.MenuItems().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)
	_, err = s.Orders().GetByID(ctx, "o1")
	assert.NoError(t, err)

	assert.Equal(t, [][]string{
		{repository.CollectionMenuItems},
		{repository.CollectionMenuItems, repository.CollectionOrders},
	}, ch.all())
}

func TestStore_RollbackNoDejaRastro(t *testing.T) {
	ch := &changes{}
	s := memory.NewStore(memory.WithChangeFunc(ch.record))
	ctx := context.Background()
	require.NoError(t, s.MenuItems().Create(ctx, item("a", "X-Bacon", 5)))

	boom := errors.New("boom")
	err := s.RunOrder(ctx, func(menu repository.MenuItemRepository, orders repository.OrderRepository) error {
		it, _ := menu.GetForUpdate(ctx, "a")
		it.Stock = 0
		_ = menu.Update(ctx, it)
		_ = orders.Create(ctx, &entity.Order{ID: "o1"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.MenuItems().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
	_, err = s.Orders().GetByID(ctx, "o1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, ch.all(), 1, "solo la creación del ítem notifica")
}

func TestStore_StockNegativoEsFalloDePersistencia(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.MenuItems().Create(ctx, item("a", "X-Bacon", 1)))

	it, err := s.MenuItems().GetByID(ctx, "a")
	require.NoError(t, err)
	it.Stock = -1
	assert.ErrorIs(t, s.MenuItems().Update(ctx, it), domain.ErrPersistence)
}

func TestStore_CopiasIndependientes(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	lines := []entity.OrderLine{{MenuItem: entity.MenuItemSnapshot{Name: "Hot Dog"}, Quantity: 1}}
	require.NoError(t, s.Orders().Create(ctx, &entity.Order{ID: "o1", Items: lines}))

	lines[0].Quantity = 99
	got, err := s.Orders().GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Items[0].Quantity)

	got.Items[0].Quantity = 50
	again, _ := s.Orders().GetByID(ctx, "o1")
	assert.Equal(t, 1, again.Items[0].Quantity)
}

func TestStore_ListadosOrdenados(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"o1", "o2", "o3"} {
		status := entity.OrderStatusPending
		if i == 1 {
			status = entity.OrderStatusCompleted
		}
		require.NoError(t, s.Orders().Create(ctx, &entity.Order{ID: id, Status: status, CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	all, err := s.Orders().List(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "o3", all[0].ID)
	assert.Equal(t, "o1", all[2].ID)

	done, err := s.Orders().List(ctx, repository.OrderFilter{Status: entity.OrderStatusCompleted})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "o2", done[0].ID)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.StockLog().Append(ctx, &entity.StockLogEntry{ID: string(rune('a' + i)), ItemID: "x", Quantity: i + 1}))
	}
	log, err := s.StockLog().ListByItem(ctx, "x", 2)
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, 3, log[0].Quantity)
	assert.Equal(t, 2, log[1].Quantity)
}

func TestStore_ContextoCancelado(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := s.Run(ctx, func(repository.MenuItemRepository, repository.StockLogRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.False(t, called)
}

func TestStore_CancelacionDuranteLaUnidadNoConfirma(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := s.RunOrder(ctx, func(menu repository.MenuItemRepository, _ repository.OrderRepository) error {
		require.NoError(t, menu.Create(ctx, &entity.MenuItem{ID: "x", Name: "X-Bacon", Price: decimal.NewFromInt(22)}))
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.MenuItems().GetByID(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
