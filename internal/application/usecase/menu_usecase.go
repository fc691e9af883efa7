package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/lanchonete-api/internal/application/dto"
	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
)

// MenuUseCase casos de uso CRUD del cardápio. Stock y CostPrice cambian vía pedidos y reposiciones;
// Update es la única corrección manual.
type MenuUseCase struct {
	repo repository.MenuItemRepository
	now  func() time.Time

	collatorMu sync.Mutex
	collator   *collate.Collator
}

// NewMenuUseCase construye el caso de uso.
func NewMenuUseCase(repo repository.MenuItemRepository) *MenuUseCase {
	return &MenuUseCase{
		repo:     repo,
		now:      time.Now,
		collator: collate.New(language.BrazilianPortuguese, collate.IgnoreCase),
	}
}

// Create crea un ítem. CostPrice inicia en 0 si no viene; Visible en true.
func (uc *MenuUseCase) Create(ctx context.Context, in dto.CreateMenuItemRequest) (*dto.MenuItemResponse, error) {
	cost := decimal.Zero
	if in.CostPrice != nil {
		cost = *in.CostPrice
	}
	visible := true
	if in.Visible != nil {
		visible = *in.Visible
	}
	if err := validateItem(in.Name, in.Price, cost, in.Stock); err != nil {
		return nil, err
	}
	now := uc.now()
	item := &entity.MenuItem{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		CostPrice:   cost,
		Stock:       in.Stock,
		Visible:     visible,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	resp := dto.NewMenuItemResponse(item)
	return &resp, nil
}

// Get obtiene un ítem por ID.
func (uc *MenuUseCase) Get(ctx context.Context, id string) (*dto.MenuItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewMenuItemResponse(item)
	return &resp, nil
}

// List todos los ítems (visibles y ocultos) ordenados por nombre.
func (uc *MenuUseCase) List(ctx context.Context) ([]dto.MenuItemResponse, error) {
	items, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	uc.sortByName(items)
	return dto.NewMenuItemList(items), nil
}

// Update reemplaza todos los campos excepto ID y CreatedAt.
func (uc *MenuUseCase) Update(ctx context.Context, id string, in dto.UpdateMenuItemRequest) (*dto.MenuItemResponse, error) {
	if err := validateItem(in.Name, in.Price, in.CostPrice, in.Stock); err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Name = strings.TrimSpace(in.Name)
	item.Description = in.Description
	item.Price = in.Price
	item.CostPrice = in.CostPrice
	item.Stock = in.Stock
	item.Visible = in.Visible
	item.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	resp := dto.NewMenuItemResponse(item)
	return &resp, nil
}

// SetVisibility muestra u oculta el ítem en el cardápio público.
func (uc *MenuUseCase) SetVisibility(ctx context.Context, id string, visible bool) (*dto.MenuItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Visible = visible
	item.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	resp := dto.NewMenuItemResponse(item)
	return &resp, nil
}

// Delete elimina el ítem. Los pedidos conservan su snapshot.
func (uc *MenuUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// PublicMenu ítems visibles, ordenados por nombre según el idioma (pt-BR, sin distinguir mayúsculas).
func (uc *MenuUseCase) PublicMenu(ctx context.Context) ([]dto.PublicMenuItemResponse, error) {
	items, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]*entity.MenuItem, 0, len(items))
	for _, it := range items {
		if it.Visible {
			visible = append(visible, it)
		}
	}
	uc.sortByName(visible)
	out := make([]dto.PublicMenuItemResponse, 0, len(visible))
	for _, it := range visible {
		out = append(out, dto.NewPublicMenuItem(it))
	}
	return out, nil
}

// sortByName el Collator no es seguro para uso concurrente.
func (uc *MenuUseCase) sortByName(items []*entity.MenuItem) {
	uc.collatorMu.Lock()
	defer uc.collatorMu.Unlock()
	sortStable(items, func(a, b *entity.MenuItem) bool {
		return uc.collator.CompareString(a.Name, b.Name) < 0
	})
}

func validateItem(name string, price, cost decimal.Decimal, stock int) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name requerido", domain.ErrInvalidInput)
	case price.IsNegative():
		return fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	case cost.IsNegative():
		return fmt.Errorf("%w: cost_price no puede ser negativo", domain.ErrInvalidInput)
	case !entity.HasScale(price, entity.PriceScale):
		return fmt.Errorf("%w: price admite %d decimales", domain.ErrInvalidInput, entity.PriceScale)
	case !entity.HasScale(cost, entity.CostScale):
		return fmt.Errorf("%w: cost_price admite %d decimales", domain.ErrInvalidInput, entity.CostScale)
	case stock < 0:
		return fmt.Errorf("%w: stock no puede ser negativo", domain.ErrInvalidInput)
	case stock > entity.MaxQuantity:
		return fmt.Errorf("%w: stock máximo %d", domain.ErrInvalidInput, entity.MaxQuantity)
	}
	return nil
}
