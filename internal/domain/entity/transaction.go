package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType entrada o salida de caja.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Valid indica si el tipo es conocido.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction movimiento manual del libro de caja (ingreso extra o gasto).
type Transaction struct {
	ID          string
	Description string
	Amount      decimal.Decimal // siempre > 0; el signo lo da Type
	Type        TransactionType
	Category    string
	CreatedAt   time.Time
}
