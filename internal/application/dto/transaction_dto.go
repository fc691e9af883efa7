package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest entrada de POST /api/transactions.
type CreateTransactionRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"` // income|expense
	Category    string          `json:"category"`
}

// TransactionResponse movimiento de caja.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CashflowSummaryResponse resumen financiero.
// Balance = TotalSales + ExtraIncome - Expenses.
type CashflowSummaryResponse struct {
	TotalSales  decimal.Decimal `json:"total_sales"`
	ExtraIncome decimal.Decimal `json:"extra_income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Balance     decimal.Decimal `json:"balance"`
}
