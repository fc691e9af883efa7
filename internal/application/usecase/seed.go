package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lanchonete-api/internal/application/dto"
	"github.com/jhoicas/lanchonete-api/internal/domain"
)

// DefaultMenu cardápio inicial de la lanchonete.
func DefaultMenu() []dto.CreateMenuItemRequest {
	item := func(name, desc, price string, stock int) dto.CreateMenuItemRequest {
		return dto.CreateMenuItemRequest{
			Name:        name,
			Description: desc,
			Price:       decimal.RequireFromString(price),
			Stock:       stock,
		}
	}
	return []dto.CreateMenuItemRequest{
		item("X-Burger Clássico", "Hambúrguer, queijo, alface, tomate e molho especial", "18.50", 50),
		item("X-Bacon", "Hambúrguer, bacon, queijo, alface e tomate", "22.00", 40),
		item("Hot Dog Completo", "Salsicha, purê, batata palha, milho, ervilha e molhos", "12.00", 60),
		item("Refrigerante Lata", "Coca-Cola, Guaraná ou Fanta", "5.00", 100),
		item("Batata Frita", "Porção grande com molho", "15.00", 35),
	}
}

// Seed crea los ítems que todavía no existen (por nombre). Devuelve cuántos creó.
func (uc *MenuUseCase) Seed(ctx context.Context, items []dto.CreateMenuItemRequest) (int, error) {
	created := 0
	for _, in := range items {
		_, err := uc.repo.GetByName(ctx, in.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, err
		}
		if _, err := uc.Create(ctx, in); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
