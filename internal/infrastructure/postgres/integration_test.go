//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/lanchonete-api/internal/application/dto"
	"github.com/jhoicas/lanchonete-api/internal/application/inventory"
	"github.com/jhoicas/lanchonete-api/internal/application/ordering"
	"github.com/jhoicas/lanchonete-api/internal/application/usecase"
	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
	"github.com/jhoicas/lanchonete-api/internal/infrastructure/postgres"
	"github.com/jhoicas/lanchonete-api/pkg/logger"
)

const testChannel = "lanchonete_test"

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("lanchonete_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, postgres.MigrateUp(dsn))
	// idempotente
	require.NoError(t, postgres.MigrateUp(dsn))

	pool, err := postgres.OpenDSN(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

type recordingNotifier struct {
	mu   sync.Mutex
	seen map[string]int
}

func (r *recordingNotifier) Notify(collections ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range collections {
		r.seen[c]++
	}
}

func (r *recordingNotifier) count(c string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen[c]
}

func TestPostgres_FlujoCompleto(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	log := logger.Nop()

	notifier := &recordingNotifier{seen: map[string]int{}}
	listenCtx, stopListener := context.WithCancel(ctx)
	defer stopListener()
	go postgres.NewListener(pool, testChannel, notifier, log).Run(listenCtx)

	txRunner := postgres.NewTxRunner(pool, testChannel)
	menuRepo := postgres.NewMenuItemRepository(pool, testChannel)
	orderRepo := postgres.NewOrderRepository(pool, testChannel)
	stockLogRepo := postgres.NewStockLogRepository(pool, testChannel)

	menuUC := usecase.NewMenuUseCase(menuRepo)
	orderUC := ordering.NewOrderUseCase(txRunner, orderRepo, nil, log)
	replenishUC := inventory.NewReplenishUseCase(txRunner, menuRepo, stockLogRepo)

	// Espera a que el LISTEN esté activo antes de generar cambios.
	time.Sleep(300 * time.Millisecond)

	cost := decimal.NewFromInt(10)
	bacon, err := menuUC.Create(ctx, dto.CreateMenuItemRequest{
		Name:      "X-Bacon",
		Price:     decimal.RequireFromString("22.00"),
		CostPrice: &cost,
		Stock:     2,
	})
	require.NoError(t, err)

	t.Run("id inexistente o no uuid es not found", func(t *testing.T) {
		_, err := menuRepo.GetByID(ctx, "nada")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = menuRepo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("pedidos concurrentes no sobrevenden", func(t *testing.T) {
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			ok, fail int
		)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := orderUC.CreateOrder(ctx, dto.CreateOrderRequest{
					Items: []dto.OrderLineRequest{{MenuItemID: bacon.ID, Quantity: 1}},
				})
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					ok++
					return
				}
				if errors.Is(err, domain.ErrInsufficientStock) {
					fail++
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 2, ok)
		assert.Equal(t, 2, fail)

		item, err := menuRepo.GetByID(ctx, bacon.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, item.Stock)
	})

	t.Run("pedido conserva snapshot y transiciones", func(t *testing.T) {
		orders, err := orderUC.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, orders, 2)
		o := orders[0]
		assert.Equal(t, "X-Bacon", o.Items[0].Name)
		assert.True(t, decimal.RequireFromString("22").Equal(o.Total))

		moved, err := orderUC.TransitionStatus(ctx, o.ID, "preparing")
		require.NoError(t, err)
		assert.Equal(t, "preparing", moved.Status)

		_, err = orderUC.TransitionStatus(ctx, o.ID, "preparing")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		pix := "pix"
		paid, err := orderUC.RecordPayment(ctx, o.ID, dto.RecordPaymentRequest{IsPaid: true, PaymentMethod: &pix})
		require.NoError(t, err)
		assert.True(t, paid.IsPaid)
		assert.Equal(t, "pix", paid.PaymentMethod)
	})

	t.Run("reposición recalcula costo promedio", func(t *testing.T) {
		batch := decimal.NewFromInt(12)
		res, err := replenishUC.Replenish(ctx, bacon.ID, dto.ReplenishRequest{Quantity: 10, BatchCost: &batch})
		require.NoError(t, err)
		assert.Equal(t, 10, res.Item.Stock)
		// stock 0: el costo pasa a ser el del lote
		assert.True(t, batch.Equal(res.Item.CostPrice), res.Item.CostPrice.String())

		batch = decimal.NewFromInt(14)
		res, err = replenishUC.Replenish(ctx, bacon.ID, dto.ReplenishRequest{Quantity: 10, BatchCost: &batch})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(13).Equal(res.Item.CostPrice), res.Item.CostPrice.String())

		history, err := replenishUC.History(ctx, bacon.ID, 1)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.True(t, batch.Equal(history[0].CostPrice))
	})

	t.Run("stock negativo lo rechaza la tabla", func(t *testing.T) {
		item, err := menuRepo.GetByID(ctx, bacon.ID)
		require.NoError(t, err)
		item.Stock = -1
		err = menuRepo.Update(ctx, item)
		assert.ErrorIs(t, err, domain.ErrPersistence)
	})

	t.Run("los cambios llegan por NOTIFY", func(t *testing.T) {
		assert.Eventually(t, func() bool {
			return notifier.count(repository.CollectionOrders) > 0 &&
				notifier.count(repository.CollectionMenuItems) > 0 &&
				notifier.count(repository.CollectionStockLog) > 0
		}, 5*time.Second, 50*time.Millisecond)
	})
}

func TestPostgres_RollbackDevuelveErrorDelCallback(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	txRunner := postgres.NewTxRunner(pool, testChannel)
	boom := errors.New("boom")
	err := txRunner.RunOrder(ctx, func(menuRepo repository.MenuItemRepository, _ repository.OrderRepository) error {
		items, err := menuRepo.List(ctx)
		if err != nil {
			return err
		}
		assert.Empty(t, items)
		return boom
	})
	assert.ErrorIs(t, err, boom)
}
