// Package reporting calcula las métricas del dashboard a partir de los pedidos.
// Es puro: no guarda estado y se recalcula en cada consulta.
package reporting

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
)

// TopProductsLimit cantidad de productos en el ranking por volumen.
const TopProductsLimit = 5

// WeekdayLabels Domingo primero, igual que time.Weekday.
var WeekdayLabels = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

var hundred = decimal.NewFromInt(100)

// PaymentCount pedidos por forma de pago.
type PaymentCount struct {
	Method entity.PaymentMethod
	Count  int
}

// WeekdayRevenue facturación de un día de la semana.
type WeekdayRevenue struct {
	Label   string
	Revenue decimal.Decimal
}

// ProductVolume unidades vendidas de un producto; Share es % sobre el total de unidades.
type ProductVolume struct {
	Name     string
	Quantity int
	Share    decimal.Decimal
}

// ProductProfit lucro de un producto; Bar 0–100 relativo al mayor lucro.
type ProductProfit struct {
	Name   string
	Profit decimal.Decimal
	Bar    decimal.Decimal
}

// Report resultado agregado.
type Report struct {
	Revenue        decimal.Decimal
	Profit         decimal.Decimal
	OrderCount     int
	AverageTicket  decimal.Decimal
	Payments       []PaymentCount
	Weekdays       [7]WeekdayRevenue
	TopProducts    []ProductVolume
	ProductProfits []ProductProfit
}

// Aggregate filtra pedidos completed dentro del período y calcula el reporte.
func Aggregate(orders []*entity.Order, period Period) Report {
	loc := period.Loc
	if loc == nil {
		loc = period.From.Location()
	}

	r := Report{
		Revenue:       decimal.Zero,
		Profit:        decimal.Zero,
		AverageTicket: decimal.Zero,
	}
	for i, label := range WeekdayLabels {
		r.Weekdays[i] = WeekdayRevenue{Label: label, Revenue: decimal.Zero}
	}

	payments := make(map[entity.PaymentMethod]int)
	volumes := newAccumulator[int]()
	profits := newAccumulator[decimal.Decimal]()

	for _, o := range orders {
		if o.Status != entity.OrderStatusCompleted || !period.Contains(o.CreatedAt) {
			continue
		}
		r.OrderCount++
		r.Revenue = r.Revenue.Add(o.Total)

		method := o.PaymentMethod
		if method == "" {
			method = entity.PaymentPix
		}
		payments[method]++

		wd := o.CreatedAt.In(loc).Weekday()
		r.Weekdays[wd].Revenue = r.Weekdays[wd].Revenue.Add(o.Total)

		for _, line := range o.Items {
			qty := decimal.NewFromInt(int64(line.Quantity))
			lineProfit := line.MenuItem.Price.Sub(line.MenuItem.CostPrice).Mul(qty)
			r.Profit = r.Profit.Add(lineProfit)

			name := line.MenuItem.Name
			volumes.add(name, line.Quantity, func(a, b int) int { return a + b })
			profits.add(name, lineProfit, decimal.Decimal.Add)
		}
	}

	if r.OrderCount > 0 {
		r.AverageTicket = r.Revenue.Div(decimal.NewFromInt(int64(r.OrderCount))).Round(2)
	}
	r.Revenue = r.Revenue.Round(2)
	r.Profit = r.Profit.Round(2)

	for _, m := range entity.PaymentMethods {
		if n := payments[m]; n > 0 {
			r.Payments = append(r.Payments, PaymentCount{Method: m, Count: n})
		}
	}

	r.TopProducts = topProducts(volumes)
	r.ProductProfits = productProfits(profits)
	return r
}

func topProducts(acc *accumulator[int]) []ProductVolume {
	totalUnits := 0
	for _, e := range acc.entries {
		totalUnits += e.value
	}
	entries := acc.sorted(func(a, b int) bool { return a > b })
	if len(entries) > TopProductsLimit {
		entries = entries[:TopProductsLimit]
	}
	out := make([]ProductVolume, 0, len(entries))
	for _, e := range entries {
		share := decimal.Zero
		if totalUnits > 0 {
			share = decimal.NewFromInt(int64(e.value)).Mul(hundred).Div(decimal.NewFromInt(int64(totalUnits))).Round(2)
		}
		out = append(out, ProductVolume{Name: e.name, Quantity: e.value, Share: share})
	}
	return out
}

func productProfits(acc *accumulator[decimal.Decimal]) []ProductProfit {
	entries := acc.sorted(func(a, b decimal.Decimal) bool { return a.GreaterThan(b) })
	out := make([]ProductProfit, 0, len(entries))
	if len(entries) == 0 {
		return out
	}
	top := entries[0].value
	for _, e := range entries {
		bar := decimal.Zero
		if top.IsPositive() && e.value.IsPositive() {
			bar = e.value.Mul(hundred).Div(top).Round(2)
		}
		out = append(out, ProductProfit{Name: e.name, Profit: e.value.Round(2), Bar: bar})
	}
	return out
}

// accumulator suma valores por nombre conservando el orden de primera aparición.
type accumulator[V any] struct {
	index   map[string]int
	entries []accEntry[V]
}

type accEntry[V any] struct {
	name  string
	value V
}

func newAccumulator[V any]() *accumulator[V] {
	return &accumulator[V]{index: make(map[string]int)}
}

func (a *accumulator[V]) add(name string, v V, sum func(V, V) V) {
	if i, ok := a.index[name]; ok {
		a.entries[i].value = sum(a.entries[i].value, v)
		return
	}
	a.index[name] = len(a.entries)
	a.entries = append(a.entries, accEntry[V]{name: name, value: v})
}

// sorted orden descendente estable: empates quedan en orden de inserción.
func (a *accumulator[V]) sorted(greater func(V, V) bool) []accEntry[V] {
	out := make([]accEntry[V], len(a.entries))
	copy(out, a.entries)
	sort.SliceStable(out, func(i, j int) bool { return greater(out[i].value, out[j].value) })
	return out
}
