package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/lanchonete-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostCalculator(t *testing.T) {
	tests := []struct {
		name  string
		stock int
		cost  decimal.Decimal
		qty   int
		batch decimal.Decimal
		want  decimal.Decimal
	}{
		{"promedio simple", 10, d("2.00"), 10, d("4.00"), d("3.00")},
		{"stock cero toma el lote", 0, d("9.99"), 5, d("4.50"), d("4.50")},
		{"mismo costo no cambia", 7, d("3.20"), 3, d("3.20"), d("3.20")},
		{"ponderado desigual", 30, d("1.00"), 10, d("5.00"), d("2.00")},
		{"denominador cero", 0, d("1.00"), 0, d("7.00"), d("7.00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inventory.CostCalculator(tt.stock, tt.cost, tt.qty, tt.batch)
			assert.True(t, tt.want.Equal(got), "esperado %s, obtenido %s", tt.want, got)
		})
	}
}
