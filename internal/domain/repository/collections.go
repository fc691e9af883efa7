package repository

// Nombres de colecciones usados en las notificaciones de cambio de los stores.
const (
	CollectionMenuItems    = "menu_items"
	CollectionOrders       = "orders"
	CollectionStockLog     = "stock_log"
	CollectionTransactions = "transactions"
)
