package dto

import "github.com/jhoicas/lanchonete-api/internal/domain/entity"

// NewMenuItemResponse convierte la entidad a la vista interna.
func NewMenuItemResponse(m *entity.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		CostPrice:   m.CostPrice,
		Stock:       m.Stock,
		Visible:     m.Visible,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// NewMenuItemList convierte una lista de ítems.
func NewMenuItemList(items []*entity.MenuItem) []MenuItemResponse {
	out := make([]MenuItemResponse, 0, len(items))
	for _, m := range items {
		out = append(out, NewMenuItemResponse(m))
	}
	return out
}

// NewPublicMenuItem vista pública del ítem.
func NewPublicMenuItem(m *entity.MenuItem) PublicMenuItemResponse {
	return PublicMenuItemResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Available:   m.Stock > 0,
	}
}

// NewStockLogEntryResponse convierte un registro de reposición.
func NewStockLogEntryResponse(e *entity.StockLogEntry) StockLogEntryResponse {
	return StockLogEntryResponse{
		ID:             e.ID,
		ItemID:         e.ItemID,
		ItemName:       e.ItemName,
		Type:           e.Type,
		Quantity:       e.Quantity,
		CostPrice:      e.CostPrice,
		NewAverageCost: e.NewAverageCost,
		CreatedAt:      e.CreatedAt,
	}
}

// NewOrderResponse convierte un pedido con sus líneas.
func NewOrderResponse(o *entity.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Items))
	for _, l := range o.Items {
		lines = append(lines, OrderLineResponse{
			MenuItemID:  l.MenuItem.ID,
			Name:        l.MenuItem.Name,
			Description: l.MenuItem.Description,
			Price:       l.MenuItem.Price,
			CostPrice:   l.MenuItem.CostPrice,
			Quantity:    l.Quantity,
			Subtotal:    l.Subtotal(),
		})
	}
	return OrderResponse{
		ID:            o.ID,
		Number:        o.ShortNumber(),
		Items:         lines,
		Total:         o.Total,
		Status:        string(o.Status),
		Observation:   o.Observation,
		IsPaid:        o.IsPaid,
		PaymentMethod: string(o.PaymentMethod),
		CreatedAt:     o.CreatedAt,
	}
}

// NewOrderList convierte una lista de pedidos.
func NewOrderList(orders []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}

// NewTransactionResponse convierte un movimiento de caja.
func NewTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount,
		Type:        string(t.Type),
		Category:    t.Category,
		CreatedAt:   t.CreatedAt,
	}
}

// NewTransactionList convierte una lista de movimientos.
func NewTransactionList(list []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, NewTransactionResponse(t))
	}
	return out
}
