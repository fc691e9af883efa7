// Package ordering contiene el ciclo de vida del pedido: creación con baja de stock,
// transiciones de estado en cocina y registro de pago.
package ordering

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/lanchonete-api/internal/application/dto"
	"github.com/jhoicas/lanchonete-api/internal/application/realtime"
	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
	"github.com/jhoicas/lanchonete-api/pkg/logger"
)

// OrderUseCase casos de uso de pedidos.
type OrderUseCase struct {
	txRunner  TxRunner
	orderRepo repository.OrderRepository
	publisher EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewOrderUseCase construye el caso de uso. publisher puede ser nil.
func NewOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	publisher EventPublisher,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:  txRunner,
		orderRepo: orderRepo,
		publisher: publisher,
		log:       log.Named("ordering"),
		now:       time.Now,
	}
}

type mergedLine struct {
	itemID   string
	quantity int
}

// CreateOrder valida las líneas, y en una sola transacción bloquea los ítems, verifica stock,
// guarda el pedido en pending y descuenta el stock. Todo o nada.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	method := entity.PaymentMethod(in.PaymentMethod)
	if method != "" && !method.Valid() {
		return nil, fmt.Errorf("%w: forma de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}

	lines, err := mergeLines(in.Items)
	if err != nil {
		return nil, err
	}

	order := &entity.Order{
		ID:            uuid.New().String(),
		Status:        entity.OrderStatusPending,
		Observation:   in.Observation,
		IsPaid:        in.IsPaid,
		PaymentMethod: method,
		CreatedAt:     uc.now(),
	}

	err = uc.txRunner.RunOrder(ctx, func(
		menuRepo repository.MenuItemRepository,
		orderRepo repository.OrderRepository,
	) error {
		// Bloquear en orden de ID para no cruzar locks con otro pedido concurrente
		ids := make([]string, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.itemID)
		}
		sort.Strings(ids)
		locked := make(map[string]*entity.MenuItem, len(ids))
		for _, id := range ids {
			item, err := menuRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			locked[id] = item
		}

		order.Items = make([]entity.OrderLine, 0, len(lines))
		for _, l := range lines {
			item := locked[l.itemID]
			if l.quantity > item.Stock {
				return &domain.InsufficientStockError{
					ItemID:    item.ID,
					ItemName:  item.Name,
					Requested: l.quantity,
					Available: item.Stock,
				}
			}
			order.Items = append(order.Items, entity.OrderLine{MenuItem: item.Snapshot(), Quantity: l.quantity})
		}
		order.Total = entity.LinesTotal(order.Items)

		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		for _, l := range lines {
			item := locked[l.itemID]
			item.Stock -= l.quantity
			item.UpdatedAt = order.CreatedAt
			if err := menuRepo.Update(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := dto.NewOrderResponse(order)
	uc.notifyCreated(resp)
	return &resp, nil
}

// mergeLines une líneas del mismo ítem conservando la posición de la primera.
func mergeLines(in []dto.OrderLineRequest) ([]mergedLine, error) {
	index := make(map[string]int, len(in))
	out := make([]mergedLine, 0, len(in))
	for _, l := range in {
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if l.MenuItemID == "" {
			return nil, fmt.Errorf("%w: menu_item_id requerido", domain.ErrInvalidInput)
		}
		if l.Quantity > entity.MaxQuantity {
			return nil, fmt.Errorf("%w: máximo %d por línea", domain.ErrInvalidQuantity, entity.MaxQuantity)
		}
		if i, ok := index[l.MenuItemID]; ok {
			if l.Quantity > entity.MaxQuantity-out[i].quantity {
				return nil, fmt.Errorf("%w: máximo %d por ítem", domain.ErrInvalidQuantity, entity.MaxQuantity)
			}
			out[i].quantity += l.Quantity
			continue
		}
		index[l.MenuItemID] = len(out)
		out = append(out, mergedLine{itemID: l.MenuItemID, quantity: l.Quantity})
	}
	return out, nil
}

func (uc *OrderUseCase) notifyCreated(order dto.OrderResponse) {
	if uc.publisher == nil {
		return
	}
	err := uc.publisher.Publish(realtime.Event{
		Topic: realtime.TopicOrders,
		Type:  realtime.EventOrderCreated,
		Data:  order,
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("order_id", order.ID).Msg("no se pudo notificar el nuevo pedido")
	}
}

// TransitionStatus cambia el estado según la máquina de estados del pedido.
func (uc *OrderUseCase) TransitionStatus(ctx context.Context, orderID, status string) (*dto.OrderResponse, error) {
	target := entity.OrderStatus(status)
	if !target.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	var updated *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(_ repository.MenuItemRepository, orderRepo repository.OrderRepository) error {
		order, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, target)
		}
		if err := orderRepo.UpdateStatus(ctx, orderID, target); err != nil {
			return err
		}
		order.Status = target
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := dto.NewOrderResponse(updated)
	return &resp, nil
}

// RecordPayment guarda isPaid y, si viene, la forma de pago (sobrescribe aunque ya esté pago).
func (uc *OrderUseCase) RecordPayment(ctx context.Context, orderID string, in dto.RecordPaymentRequest) (*dto.OrderResponse, error) {
	var method *entity.PaymentMethod
	if in.PaymentMethod != nil {
		m := entity.PaymentMethod(*in.PaymentMethod)
		if !m.Valid() {
			return nil, fmt.Errorf("%w: forma de pago %q", domain.ErrInvalidInput, *in.PaymentMethod)
		}
		method = &m
	}
	var updated *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(_ repository.MenuItemRepository, orderRepo repository.OrderRepository) error {
		order, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		order.IsPaid = in.IsPaid
		if method != nil {
			order.PaymentMethod = *method
		}
		if err := orderRepo.UpdatePayment(ctx, orderID, order.IsPaid, order.PaymentMethod); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := dto.NewOrderResponse(updated)
	return &resp, nil
}

// Get obtiene un pedido por ID.
func (uc *OrderUseCase) Get(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewOrderResponse(order)
	return &resp, nil
}

// List lista pedidos, más recientes primero. status vacío = todos.
func (uc *OrderUseCase) List(ctx context.Context, status string) ([]dto.OrderResponse, error) {
	filter := repository.OrderFilter{Status: entity.OrderStatus(status)}
	if status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	orders, err := uc.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewOrderList(orders), nil
}

// Board tablero de cocina: pedidos por estado, más antiguos primero.
func (uc *OrderUseCase) Board(ctx context.Context) (*dto.KitchenBoardResponse, error) {
	orders, err := uc.orderRepo.List(ctx, repository.OrderFilter{})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})

	board := &dto.KitchenBoardResponse{
		Pending:   dto.BoardColumn{Status: string(entity.OrderStatusPending), Orders: []dto.OrderResponse{}},
		Preparing: dto.BoardColumn{Status: string(entity.OrderStatusPreparing), Orders: []dto.OrderResponse{}},
		Completed: dto.BoardColumn{Status: string(entity.OrderStatusCompleted), Orders: []dto.OrderResponse{}},
	}
	for _, o := range orders {
		resp := dto.NewOrderResponse(o)
		switch o.Status {
		case entity.OrderStatusPending:
			board.Pending.Orders = append(board.Pending.Orders, resp)
		case entity.OrderStatusPreparing:
			board.Preparing.Orders = append(board.Preparing.Orders, resp)
		case entity.OrderStatusCompleted:
			board.Completed.Orders = append(board.Completed.Orders, resp)
			if o.IsPaid {
				board.Paid++
			} else {
				board.Unpaid++
			}
		}
	}
	return board, nil
}
