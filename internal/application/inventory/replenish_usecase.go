// Package inventory contiene la reposición de stock con recálculo del costo promedio ponderado.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/lanchonete-api/internal/application/dto"
	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/inventory"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
)

// ReplenishUseCase registra entradas de stock de forma transaccional con bloqueo de fila
// (SELECT FOR UPDATE) y Commit/Rollback.
type ReplenishUseCase struct {
	txRunner     TxRunner
	stockLogRepo repository.StockLogRepository
	menuRepo     repository.MenuItemRepository
	now          func() time.Time
}

// NewReplenishUseCase construye el caso de uso.
func NewReplenishUseCase(
	txRunner TxRunner,
	menuRepo repository.MenuItemRepository,
	stockLogRepo repository.StockLogRepository,
) *ReplenishUseCase {
	return &ReplenishUseCase{
		txRunner:     txRunner,
		menuRepo:     menuRepo,
		stockLogRepo: stockLogRepo,
		now:          time.Now,
	}
}

// Replenish suma qty al stock del ítem, recalcula CostPrice con CostCalculator y agrega
// un registro al log. Sin BatchCost se usa el costo actual del ítem.
func (uc *ReplenishUseCase) Replenish(ctx context.Context, itemID string, in dto.ReplenishRequest) (*dto.ReplenishResponse, error) {
	if in.Quantity <= 0 || in.Quantity > entity.MaxQuantity {
		return nil, domain.ErrInvalidQuantity
	}
	if in.BatchCost != nil && in.BatchCost.IsNegative() {
		return nil, fmt.Errorf("%w: batch_cost negativo", domain.ErrInvalidInput)
	}
	if in.BatchCost != nil && !entity.HasScale(*in.BatchCost, entity.CostScale) {
		return nil, fmt.Errorf("%w: batch_cost admite %d decimales", domain.ErrInvalidInput, entity.CostScale)
	}

	now := uc.now()
	var (
		item  *entity.MenuItem
		entry *entity.StockLogEntry
	)

	// Inicia transacción; Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace)
	err := uc.txRunner.Run(ctx, func(
		menuRepo repository.MenuItemRepository,
		stockLogRepo repository.StockLogRepository,
	) error {
		locked, err := menuRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if in.Quantity > entity.MaxQuantity-locked.Stock {
			return fmt.Errorf("%w: stock máximo %d", domain.ErrInvalidQuantity, entity.MaxQuantity)
		}
		batchCost := locked.CostPrice
		if in.BatchCost != nil {
			batchCost = *in.BatchCost
		}
		newCost := inventory.CostCalculator(locked.Stock, locked.CostPrice, in.Quantity, batchCost).Round(entity.CostScale)

		locked.Stock += in.Quantity
		locked.CostPrice = newCost
		locked.UpdatedAt = now
		if err := menuRepo.Update(ctx, locked); err != nil {
			return err
		}

		e := &entity.StockLogEntry{
			ID:             uuid.New().String(),
			ItemID:         locked.ID,
			ItemName:       locked.Name,
			Type:           entity.StockLogTypeEntry,
			Quantity:       in.Quantity,
			CostPrice:      batchCost,
			NewAverageCost: newCost,
			CreatedAt:      now,
		}
		if err := stockLogRepo.Append(ctx, e); err != nil {
			return err
		}
		item, entry = locked, e
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.ReplenishResponse{
		Item:  dto.NewMenuItemResponse(item),
		Entry: dto.NewStockLogEntryResponse(entry),
	}, nil
}

// History log de reposiciones del ítem, más reciente primero.
func (uc *ReplenishUseCase) History(ctx context.Context, itemID string, limit int) ([]dto.StockLogEntryResponse, error) {
	if _, err := uc.menuRepo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	entries, err := uc.stockLogRepo.ListByItem(ctx, itemID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockLogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.NewStockLogEntryResponse(e))
	}
	return out, nil
}
