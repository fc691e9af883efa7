package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Sin unidades (denominador 0) el costo es el del lote.
func CostCalculator(stockActual int, costoActual decimal.Decimal, cantEntrada int, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual + cantEntrada
	if sum <= 0 {
		return costoEntrada
	}
	stock := decimal.NewFromInt(int64(stockActual))
	cant := decimal.NewFromInt(int64(cantEntrada))
	num := stock.Mul(costoActual).Add(cant.Mul(costoEntrada))
	return num.Div(decimal.NewFromInt(int64(sum)))
}
