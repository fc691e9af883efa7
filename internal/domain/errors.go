package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrEmptyOrder        = errors.New("el pedido no tiene ítems")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrPersistence       = errors.New("fallo de persistencia")
)

// InsufficientStockError detalla qué ítem no alcanza. errors.Is(err, ErrInsufficientStock) es true.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: solicitado %d, disponible %d", e.ItemName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Persistence envuelve un error del almacenamiento: coincide con ErrPersistence y con la causa.
// Los errores de dominio se devuelven tal cual.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrInsufficientStock, ErrEmptyOrder,
		ErrInvalidQuantity, ErrInvalidTransition, ErrPersistence,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
