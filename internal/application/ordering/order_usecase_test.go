package ordering_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lanchonete-api/internal/application/dto"
	"github.com/jhoicas/lanchonete-api/internal/application/ordering"
	"github.com/jhoicas/lanchonete-api/internal/application/realtime"
	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
	"github.com/jhoicas/lanchonete-api/internal/infrastructure/memory"
	"github.com/jhoicas/lanchonete-api/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.Event
	err    error
}

func (p *recordingPublisher) Publish(ev realtime.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type fixture struct {
	store *memory.Store
	uc    *ordering.OrderUseCase
	pub   *recordingPublisher
}

func newFixture(t *testing.T, items ...*entity.MenuItem) *fixture {
	t.Helper()
	store := memory.NewStore()
	for _, it := range items {
		require.NoError(t, store.MenuItems().Create(context.Background(), it))
	}
	pub := &recordingPublisher{}
	return &fixture{
		store: store,
		uc:    ordering.NewOrderUseCase(store, store.Orders(), pub, logger.Nop()),
		pub:   pub,
	}
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	it, err := f.store.MenuItems().GetByID(context.Background(), id)
	require.NoError(t, err)
	return it.Stock
}

func burger() *entity.MenuItem {
	return &entity.MenuItem{ID: "burger", Name: "X-Burger Clássico", Price: d("18.50"), CostPrice: d("8.00"), Stock: 50, Visible: true}
}

func bacon() *entity.MenuItem {
	return &entity.MenuItem{ID: "bacon", Name: "X-Bacon", Price: d("22.00"), CostPrice: d("10.00"), Stock: 2, Visible: true}
}

func fries() *entity.MenuItem {
	return &entity.MenuItem{ID: "fries", Name: "Batata Frita", Price: d("15.00"), Stock: 35, Visible: true}
}

func TestCreateOrder_DescuentaStockSoloDeLosItemsPedidos(t *testing.T) {
	f := newFixture(t, burger(), bacon(), fries())
	ctx := context.Background()

	order, err := f.uc.CreateOrder(ctx, dto.CreateOrderRequest{
		Items: []dto.OrderLineRequest{
			{MenuItemID: "burger", Quantity: 2},
			{MenuItemID: "bacon", Quantity: 1},
		},
		Observation:   "sem cebola",
		PaymentMethod: "pix",
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", order.Status)
	assert.True(t, d("59.00").Equal(order.Total), "total %s", order.Total)
	assert.Equal(t, "sem cebola", order.Observation)
	assert.Equal(t, "#"+order.ID[len(order.ID)-4:], order.Number)
	assert.Equal(t, 48, f.stock(t, "burger"))
	assert.Equal(t, 1, f.stock(t, "bacon"))
	assert.Equal(t, 35, f.stock(t, "fries"))

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, realtime.EventOrderCreated, f.pub.events[0].Type)
	assert.Equal(t, realtime.TopicOrders, f.pub.events[0].Topic)
}

func TestCreateOrder_TodoONada(t *testing.T) {
	f := newFixture(t, burger(), bacon())
	ctx := context.Background()

	_, err := f.uc.CreateOrder(ctx, dto.CreateOrderRequest{
		Items: []dto.OrderLineRequest{
			{MenuItemID: "burger", Quantity: 1},
			{MenuItemID: "bacon", Quantity: 3},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var detail *domain.InsufficientStockError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "X-Bacon", detail.ItemName)
	assert.Equal(t, 3, detail.Requested)
	assert.Equal(t, 2, detail.Available)

	assert.Equal(t, 50, f.stock(t, "burger"))
	assert.Equal(t, 2, f.stock(t, "bacon"))
	orders, err := f.store.Orders().List(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, f.pub.events)
}

func TestCreateOrder_LineasRepetidasSeSuman(t *testing.T) {
	f := newFixture(t, bacon())

	_, err := f.uc.CreateOrder(context.Background(), dto.CreateOrderRequest{
		Items: []dto.OrderLineRequest{
			{MenuItemID: "bacon", Quantity: 1},
			{MenuItemID: "bacon", Quantity: 2},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "1+2 supera el stock de 2")

	order, err := f.uc.CreateOrder(context.Background(), dto.CreateOrderRequest{
		Items: []dto.OrderLineRequest{
			{MenuItemID: "bacon", Quantity: 1},
			{MenuItemID: "bacon", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 0, f.stock(t, "bacon"))
}

func TestCreateOrder_CantidadesFueraDeRango(t *testing.T) {
	f := newFixture(t, burger())
	ctx := context.Background()

	_, err := f.uc.CreateOrder(ctx, dto.CreateOrderRequest{
		Items: []dto.OrderLineRequest{
			{MenuItemID: "burger", Quantity: math.MaxInt},
			{MenuItemID: "burger", Quantity: math.MaxInt - 8},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.uc.CreateOrder(ctx, dto.CreateOrderRequest{
		Items: []dto.OrderLineRequest{
			{MenuItemID: "burger", Quantity: entity.MaxQuantity},
			{MenuItemID: "burger", Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	assert.Equal(t, 50, f.stock(t, "burger"))
	orders, err := f.store.Orders().List(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreateOrder_Validaciones(t *testing.T) {
	f := newFixture(t, burger())
	ctx := context.Background()

	_, err := f.uc.CreateOrder(ctx, dto.CreateOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)

	_, err = f.uc.CreateOrder(ctx, dto.CreateOrderRequest{Items: []dto.OrderLineRequest{{MenuItemID: "burger", Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.uc.CreateOrder(ctx, dto.CreateOrderRequest{Items: []dto.OrderLineRequest{{MenuItemID: "nada", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.CreateOrder(ctx, dto.CreateOrderRequest{
		Items:         []dto.OrderLineRequest{{MenuItemID: "burger", Quantity: 1}},
		PaymentMethod: "boleto",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, 50, f.stock(t, "burger"))
}

// failingRunner envuelve el store y hace fallar la baja de stock del segundo ítem.
type failingRunner struct {
	store *memory.Store
}

type failingMenuRepo struct {
	repository.MenuItemRepository
	updates int
}

func (r *failingMenuRepo) Update(ctx context.Context, item *entity.MenuItem) error {
	r.updates++
	if r.updates == 2 {
		return domain.Persistence("actualizar ítem", errors.New("connection reset"))
	}
	return r.MenuItemRepository.Update(ctx, item)
}

func (r failingRunner) RunOrder(ctx context.Context, fn func(repository.MenuItemRepository, repository.OrderRepository) error) error {
	return r.store.RunOrder(ctx, func(menu repository.MenuItemRepository, orders repository.OrderRepository) error {
		return fn(&failingMenuRepo{MenuItemRepository: menu}, orders)
	})
}

func TestCreateOrder_FalloDePersistenciaNoAplicaNada(t *testing.T) {
	f := newFixture(t, burger(), fries())
	uc := ordering.NewOrderUseCase(failingRunner{store: f.store}, f.store.Orders(), nil, logger.Nop())

	_, err := uc.CreateOrder(context.Background(), dto.CreateOrderRequest{
		Items: []dto.OrderLineRequest{{MenuItemID: "burger", Quantity: 1}, {MenuItemID: "fries", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)

	assert.Equal(t, 50, f.stock(t, "burger"))
	assert.Equal(t, 35, f.stock(t, "fries"))
	orders, _ := f.store.Orders().List(context.Background(), repository.OrderFilter{})
	assert.Empty(t, orders)
}

func TestCreateOrder_TotalNoCambiaConElCatalogo(t *testing.T) {
	f := newFixture(t, burger())
	ctx := context.Background()

	order, err := f.uc.CreateOrder(ctx, dto.CreateOrderRequest{Items: []dto.OrderLineRequest{{MenuItemID: "burger", Quantity: 1}}})
	require.NoError(t, err)

	it, err := f.store.MenuItems().GetByID(ctx, "burger")
	require.NoError(t, err)
	it.Price = d("99.00")
	it.Name = "X-Burger Premium"
	require.NoError(t, f.store.MenuItems().Update(ctx, it))

	got, err := f.uc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, d("18.50").Equal(got.Total))
	assert.Equal(t, "X-Burger Clássico", got.Items[0].Name)

	require.NoError(t, f.store.MenuItems().Delete(ctx, "burger"))
	got, err = f.uc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, d("18.50").Equal(got.Total))
}

func TestCreateOrder_PublicacionFallidaNoEsError(t *testing.T) {
	f := newFixture(t, burger())
	f.pub.err = realtime.ErrFeedClosed

	_, err := f.uc.CreateOrder(context.Background(), dto.CreateOrderRequest{Items: []dto.OrderLineRequest{{MenuItemID: "burger", Quantity: 1}}})
	assert.NoError(t, err)
	assert.Equal(t, 49, f.stock(t, "burger"))
}

func TestCreateOrder_ConcurrenciaNoSobrevende(t *testing.T) {
	f := newFixture(t, bacon())

	var wg sync.WaitGroup
	results := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CreateOrder(context.Background(), dto.CreateOrderRequest{Items: []dto.OrderLineRequest{{MenuItemID: "bacon", Quantity: 1}}})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok, rejected := 0, 0
	for err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			rejected++
		}
	}
	assert.Equal(t, 2, ok)
	assert.Equal(t, 3, rejected)
	assert.Equal(t, 0, f.stock(t, "bacon"))
}

func TestTransitionStatus(t *testing.T) {
	f := newFixture(t, burger())
	ctx := context.Background()
	order, err := f.uc.CreateOrder(ctx, dto.CreateOrderRequest{Items: []dto.OrderLineRequest{{MenuItemID: "burger", Quantity: 1}}})
	require.NoError(t, err)

	_, err = f.uc.TransitionStatus(ctx, order.ID, "completed")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "pending -> completed no está permitido")

	for _, step := range []string{"preparing", "pending", "preparing", "completed", "preparing", "completed"} {
		got, err := f.uc.TransitionStatus(ctx, order.ID, step)
		require.NoError(t, err, step)
		assert.Equal(t, step, got.Status)
	}

	_, err = f.uc.TransitionStatus(ctx, order.ID, "pending")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.TransitionStatus(ctx, order.ID, "cancelled")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.TransitionStatus(ctx, "nada", "preparing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.uc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, d("18.50").Equal(got.Total))
	assert.Equal(t, 49, f.stock(t, "burger"), "las transiciones no tocan stock")
}

func TestRecordPayment(t *testing.T) {
	f := newFixture(t, burger())
	ctx := context.Background()
	order, err := f.uc.CreateOrder(ctx, dto.CreateOrderRequest{
		Items:         []dto.OrderLineRequest{{MenuItemID: "burger", Quantity: 1}},
		PaymentMethod: "money",
	})
	require.NoError(t, err)
	assert.False(t, order.IsPaid)

	got, err := f.uc.RecordPayment(ctx, order.ID, dto.RecordPaymentRequest{IsPaid: true})
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
	assert.Equal(t, "money", got.PaymentMethod, "sin método se conserva el anterior")

	credit := "credit"
	got, err = f.uc.RecordPayment(ctx, order.ID, dto.RecordPaymentRequest{IsPaid: true, PaymentMethod: &credit})
	require.NoError(t, err)
	assert.Equal(t, "credit", got.PaymentMethod, "ya pago, el método se sobrescribe")

	bad := "cheque"
	_, err = f.uc.RecordPayment(ctx, order.ID, dto.RecordPaymentRequest{IsPaid: true, PaymentMethod: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RecordPayment(ctx, "nada", dto.RecordPaymentRequest{IsPaid: true})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListYBoard(t *testing.T) {
	f := newFixture(t, burger(), fries())
	ctx := context.Background()

	create := func(id string) string {
		o, err := f.uc.CreateOrder(ctx, dto.CreateOrderRequest{Items: []dto.OrderLineRequest{{MenuItemID: id, Quantity: 1}}})
		require.NoError(t, err)
		return o.ID
	}
	first := create("burger")
	second := create("fries")
	third := create("burger")

	_, err := f.uc.TransitionStatus(ctx, second, "preparing")
	require.NoError(t, err)
	_, err = f.uc.TransitionStatus(ctx, third, "preparing")
	require.NoError(t, err)
	_, err = f.uc.TransitionStatus(ctx, third, "completed")
	require.NoError(t, err)
	_, err = f.uc.RecordPayment(ctx, third, dto.RecordPaymentRequest{IsPaid: true})
	require.NoError(t, err)

	pending, err := f.uc.List(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first, pending[0].ID)

	_, err = f.uc.List(ctx, "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	board, err := f.uc.Board(ctx)
	require.NoError(t, err)
	assert.Len(t, board.Pending.Orders, 1)
	assert.Len(t, board.Preparing.Orders, 1)
	assert.Len(t, board.Completed.Orders, 1)
	assert.Equal(t, 1, board.Paid)
	assert.Equal(t, 0, board.Unpaid)
}
