package realtime

import (
	"context"

	"github.com/jhoicas/lanchonete-api/internal/application/dto"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
)

// Tópicos publicados.
const (
	TopicMenuItems    = "menu_items"
	TopicPublicMenu   = "public_menu"
	TopicOrders       = "orders"
	TopicTransactions = "transactions"
)

// Tipos de evento.
const (
	EventOrderCreated = "order.created"
)

// PublicTopics tópicos accesibles sin token.
var PublicTopics = map[string]bool{TopicPublicMenu: true}

// Sources lecturas usadas por los loaders de los tópicos estándar.
type Sources struct {
	MenuItems    repository.MenuItemRepository
	Orders       repository.OrderRepository
	Transactions repository.TransactionRepository
	PublicMenu   func(ctx context.Context) ([]dto.PublicMenuItemResponse, error)
}

// RegisterStandardTopics registra menu_items, public_menu, orders y transactions.
// orders y menu_items cargan entidades (para los caches) y se presentan como DTO.
func RegisterStandardTopics(f *Feed, src Sources) {
	f.Register(Topic{
		Name:        TopicMenuItems,
		Collections: []string{repository.CollectionMenuItems},
		Load: func(ctx context.Context) (any, error) {
			return src.MenuItems.List(ctx)
		},
		Present: func(v any) any {
			return dto.NewMenuItemList(v.([]*entity.MenuItem))
		},
	})
	f.Register(Topic{
		Name:        TopicPublicMenu,
		Collections: []string{repository.CollectionMenuItems},
		Load: func(ctx context.Context) (any, error) {
			return src.PublicMenu(ctx)
		},
	})
	f.Register(Topic{
		Name:        TopicOrders,
		Collections: []string{repository.CollectionOrders},
		Load: func(ctx context.Context) (any, error) {
			return src.Orders.List(ctx, repository.OrderFilter{})
		},
		Present: func(v any) any {
			return dto.NewOrderList(v.([]*entity.Order))
		},
	})
	f.Register(Topic{
		Name:        TopicTransactions,
		Collections: []string{repository.CollectionTransactions},
		Load: func(ctx context.Context) (any, error) {
			return src.Transactions.List(ctx)
		},
		Present: func(v any) any {
			return dto.NewTransactionList(v.([]*entity.Transaction))
		},
	})
}
