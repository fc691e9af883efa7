package ordering

import (
	"context"
	"fmt"

	"github.com/jhoicas/lanchonete-api/internal/domain/repository"
)

// ReceiptUseCase genera el recibo en PDF de un pedido.
type ReceiptUseCase struct {
	orderRepo repository.OrderRepository
	generator ReceiptGenerator
	info      ReceiptInfo
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(orderRepo repository.OrderRepository, generator ReceiptGenerator, info ReceiptInfo) *ReceiptUseCase {
	return &ReceiptUseCase{orderRepo: orderRepo, generator: generator, info: info}
}

// Receipt devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *ReceiptUseCase) Receipt(ctx context.Context, orderID string) ([]byte, string, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateReceipt(ctx, order, uc.info)
	if err != nil {
		return nil, "", fmt.Errorf("recibo %s: %w", order.ShortNumber(), err)
	}
	filename := fmt.Sprintf("pedido-%s.pdf", order.ShortNumber()[1:])
	return pdf, filename, nil
}
