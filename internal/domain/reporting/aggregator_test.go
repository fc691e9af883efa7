package reporting_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/reporting"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(name, price, cost string, qty int) entity.OrderLine {
	return entity.OrderLine{
		MenuItem: entity.MenuItemSnapshot{ID: name, Name: name, Price: d(price), CostPrice: d(cost)},
		Quantity: qty,
	}
}

func order(status entity.OrderStatus, at time.Time, method entity.PaymentMethod, lines ...entity.OrderLine) *entity.Order {
	return &entity.Order{
		ID:            at.Format(time.RFC3339Nano),
		Items:         lines,
		Total:         entity.LinesTotal(lines),
		Status:        status,
		PaymentMethod: method,
		CreatedAt:     at,
	}
}

var all = reporting.Period{Loc: time.UTC}

func TestAggregate_SoloCompletados(t *testing.T) {
	// domingo 2024-06-02
	sunday := time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)
	orders := []*entity.Order{
		order(entity.OrderStatusCompleted, sunday, entity.PaymentPix, line("X-Burger Clássico", "18.50", "8.00", 1)),
		order(entity.OrderStatusCompleted, sunday.Add(time.Hour), entity.PaymentMoney, line("X-Bacon", "22.00", "10.00", 1)),
		order(entity.OrderStatusPending, sunday, entity.PaymentPix, line("Hot Dog Completo", "12.00", "4.00", 1)),
	}

	r := reporting.Aggregate(orders, all)

	assert.True(t, d("40.50").Equal(r.Revenue), "revenue %s", r.Revenue)
	assert.Equal(t, 2, r.OrderCount)
	assert.True(t, d("20.25").Equal(r.AverageTicket), "ticket %s", r.AverageTicket)
	assert.True(t, d("22.50").Equal(r.Profit), "profit %s", r.Profit)
	assert.Equal(t, []reporting.PaymentCount{
		{Method: entity.PaymentPix, Count: 1},
		{Method: entity.PaymentMoney, Count: 1},
	}, r.Payments)
	assert.Equal(t, "Dom", r.Weekdays[0].Label)
	assert.True(t, d("40.50").Equal(r.Weekdays[0].Revenue))
	for i := 1; i < 7; i++ {
		assert.True(t, r.Weekdays[i].Revenue.IsZero())
	}
}

func TestAggregate_Vacio(t *testing.T) {
	r := reporting.Aggregate(nil, all)
	assert.Zero(t, r.OrderCount)
	assert.True(t, r.Revenue.IsZero())
	assert.True(t, r.AverageTicket.IsZero())
	assert.Empty(t, r.Payments)
	assert.Empty(t, r.TopProducts)
	assert.Empty(t, r.ProductProfits)
	assert.Equal(t, "Sáb", r.Weekdays[6].Label)
}

func TestAggregate_MetodoVacioCuentaComoPix(t *testing.T) {
	at := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	orders := []*entity.Order{
		order(entity.OrderStatusCompleted, at, "", line("Batata Frita", "15.00", "5.00", 1)),
		order(entity.OrderStatusCompleted, at, entity.PaymentDebit, line("Batata Frita", "15.00", "5.00", 1)),
	}
	r := reporting.Aggregate(orders, all)
	assert.Equal(t, []reporting.PaymentCount{
		{Method: entity.PaymentPix, Count: 1},
		{Method: entity.PaymentDebit, Count: 1},
	}, r.Payments)
}

func TestAggregate_TopProductosEmpatePorInsercion(t *testing.T) {
	at := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	orders := []*entity.Order{
		order(entity.OrderStatusCompleted, at, entity.PaymentPix,
			line("Zeta", "1.00", "0", 2),
			line("Alfa", "1.00", "0", 2),
			line("Refrigerante Lata", "5.00", "2.00", 4),
		),
		order(entity.OrderStatusCompleted, at, entity.PaymentPix,
			line("Beta", "1.00", "0", 1),
			line("Gama", "1.00", "0", 1),
			line("Delta", "1.00", "0", 1),
		),
	}

	r := reporting.Aggregate(orders, all)
	require.Len(t, r.TopProducts, reporting.TopProductsLimit)

	names := make([]string, 0, len(r.TopProducts))
	for _, p := range r.TopProducts {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Refrigerante Lata", "Zeta", "Alfa", "Beta", "Gama"}, names)
	// 4 de 11 unidades
	assert.True(t, d("36.36").Equal(r.TopProducts[0].Share), "share %s", r.TopProducts[0].Share)
}

func TestAggregate_LucroPorProducto(t *testing.T) {
	at := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	orders := []*entity.Order{
		order(entity.OrderStatusCompleted, at, entity.PaymentPix,
			line("Hot Dog Completo", "12.00", "4.00", 1), // 8
			line("X-Bacon", "22.00", "6.00", 1),          // 16
			line("Brinde", "0.00", "1.00", 1),            // -1
		),
	}
	r := reporting.Aggregate(orders, all)
	require.Len(t, r.ProductProfits, 3)

	assert.Equal(t, "X-Bacon", r.ProductProfits[0].Name)
	assert.True(t, d("100").Equal(r.ProductProfits[0].Bar))
	assert.Equal(t, "Hot Dog Completo", r.ProductProfits[1].Name)
	assert.True(t, d("50").Equal(r.ProductProfits[1].Bar))
	assert.Equal(t, "Brinde", r.ProductProfits[2].Name)
	assert.True(t, r.ProductProfits[2].Bar.IsZero())
}

func TestAggregate_FiltraPorPeriodoEnZonaLocal(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, loc)

	// 2024-06-10 01:00 UTC es 2024-06-09 22:00 en BRT: ayer
	yesterdayLate := time.Date(2024, 6, 10, 1, 0, 0, 0, time.UTC)
	todayMorning := time.Date(2024, 6, 10, 9, 0, 0, 0, loc)
	old := now.AddDate(0, 0, -10)

	orders := []*entity.Order{
		order(entity.OrderStatusCompleted, yesterdayLate, entity.PaymentPix, line("A", "10.00", "0", 1)),
		order(entity.OrderStatusCompleted, todayMorning, entity.PaymentPix, line("B", "5.00", "0", 1)),
		order(entity.OrderStatusCompleted, old, entity.PaymentPix, line("C", "1.00", "0", 1)),
	}

	today, err := reporting.ResolvePeriod(reporting.RangeToday, "", "", now, loc)
	require.NoError(t, err)
	r := reporting.Aggregate(orders, today)
	assert.Equal(t, 1, r.OrderCount)
	assert.True(t, d("5").Equal(r.Revenue))

	week, err := reporting.ResolvePeriod(reporting.Range7Days, "", "", now, loc)
	require.NoError(t, err)
	assert.Equal(t, 2, reporting.Aggregate(orders, week).OrderCount)

	everything, err := reporting.ResolvePeriod(reporting.RangeAll, "", "", now, loc)
	require.NoError(t, err)
	assert.Equal(t, 3, reporting.Aggregate(orders, everything).OrderCount)

	custom, err := reporting.ResolvePeriod(reporting.RangeCustom, "2024-05-31", "2024-06-09", now, loc)
	require.NoError(t, err)
	assert.Equal(t, 2, reporting.Aggregate(orders, custom).OrderCount)
}

func TestResolvePeriod_Invalidos(t *testing.T) {
	now := time.Now()
	_, err := reporting.ResolvePeriod("semana", "", "", now, time.UTC)
	assert.Error(t, err)
	_, err = reporting.ResolvePeriod(reporting.RangeCustom, "10/06/2024", "", now, time.UTC)
	assert.Error(t, err)
	_, err = reporting.ResolvePeriod(reporting.RangeCustom, "2024-06-10", "2024-06-01", now, time.UTC)
	assert.Error(t, err)
}
