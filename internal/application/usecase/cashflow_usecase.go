package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/lanchonete-api/internal/application/dto"
	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
)

// CashflowUseCase libro de caja: ingresos extra y gastos, más el resumen financiero.
type CashflowUseCase struct {
	txRepo    repository.TransactionRepository
	orderRepo repository.OrderRepository
	now       func() time.Time
}

// NewCashflowUseCase construye el caso de uso.
func NewCashflowUseCase(txRepo repository.TransactionRepository, orderRepo repository.OrderRepository) *CashflowUseCase {
	return &CashflowUseCase{txRepo: txRepo, orderRepo: orderRepo, now: time.Now}
}

// Create registra un movimiento. Amount > 0; el tipo define el signo.
func (uc *CashflowUseCase) Create(ctx context.Context, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	typ := entity.TransactionType(in.Type)
	switch {
	case strings.TrimSpace(in.Description) == "":
		return nil, fmt.Errorf("%w: description requerido", domain.ErrInvalidInput)
	case strings.TrimSpace(in.Category) == "":
		return nil, fmt.Errorf("%w: category requerido", domain.ErrInvalidInput)
	case !in.Amount.IsPositive():
		return nil, fmt.Errorf("%w: amount debe ser mayor que 0", domain.ErrInvalidInput)
	case !typ.Valid():
		return nil, fmt.Errorf("%w: type debe ser income o expense", domain.ErrInvalidInput)
	}
	t := &entity.Transaction{
		ID:          uuid.New().String(),
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Type:        typ,
		Category:    strings.TrimSpace(in.Category),
		CreatedAt:   uc.now(),
	}
	if err := uc.txRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	resp := dto.NewTransactionResponse(t)
	return &resp, nil
}

// List movimientos, más recientes primero.
func (uc *CashflowUseCase) List(ctx context.Context) ([]dto.TransactionResponse, error) {
	list, err := uc.txRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewTransactionList(list), nil
}

// Delete elimina un movimiento.
func (uc *CashflowUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRepo.Delete(ctx, id)
}

// Summary ventas de pedidos completed + ingresos extra - gastos. Carga pedidos y movimientos en paralelo.
func (uc *CashflowUseCase) Summary(ctx context.Context) (*dto.CashflowSummaryResponse, error) {
	var (
		orders []*entity.Order
		txs    []*entity.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = uc.orderRepo.List(gctx, repository.OrderFilter{Status: entity.OrderStatusCompleted})
		if err != nil {
			return fmt.Errorf("resumen: pedidos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		txs, err = uc.txRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("resumen: movimientos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sales, income, expenses := decimal.Zero, decimal.Zero, decimal.Zero
	for _, o := range orders {
		sales = sales.Add(o.Total)
	}
	for _, t := range txs {
		switch t.Type {
		case entity.TransactionIncome:
			income = income.Add(t.Amount)
		case entity.TransactionExpense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return &dto.CashflowSummaryResponse{
		TotalSales:  sales.Round(2),
		ExtraIncome: income.Round(2),
		Expenses:    expenses.Round(2),
		Balance:     sales.Add(income).Sub(expenses).Round(2),
	}, nil
}
