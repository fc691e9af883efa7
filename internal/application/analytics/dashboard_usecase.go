// Package analytics contiene el caso de uso del Dashboard de gestión.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/lanchonete-api/internal/application/dto"
	"github.com/jhoicas/lanchonete-api/internal/domain"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
	"github.com/jhoicas/lanchonete-api/internal/domain/reporting"
)

// OrderSource lectura de todos los pedidos (cache en memoria con fallback al repositorio).
type OrderSource interface {
	Get(ctx context.Context) ([]*entity.Order, error)
}

// DashboardUseCase calcula las métricas sobre los pedidos completed del período.
//
// Fuente de datos: el cache del tópico orders. No guarda estado propio; recalcula en cada consulta.
type DashboardUseCase struct {
	orders      OrderSource
	defaultZone *time.Location
	now         func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(orders OrderSource, defaultZone *time.Location) *DashboardUseCase {
	if defaultZone == nil {
		defaultZone = time.UTC
	}
	return &DashboardUseCase{orders: orders, defaultZone: defaultZone, now: time.Now}
}

// GetDashboard resuelve rango y zona horaria y agrega los pedidos.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, req dto.DashboardRequest) (*dto.DashboardResponse, error) {
	loc := uc.defaultZone
	if req.Timezone != "" {
		l, err := time.LoadLocation(req.Timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: tz %q", domain.ErrInvalidInput, req.Timezone)
		}
		loc = l
	}
	rangeKind := req.Range
	if rangeKind == "" {
		rangeKind = reporting.RangeAll
	}

	now := uc.now()
	period, err := reporting.ResolvePeriod(rangeKind, req.Start, req.End, now, loc)
	if err != nil {
		return nil, err
	}

	orders, err := uc.orders.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: pedidos: %w", err)
	}

	r := reporting.Aggregate(orders, period)
	return toDashboardResponse(r, rangeKind, period, now), nil
}

func toDashboardResponse(r reporting.Report, rangeKind string, p reporting.Period, now time.Time) *dto.DashboardResponse {
	resp := &dto.DashboardResponse{
		Period: dto.DashboardPeriodDTO{
			Range:    rangeKind,
			From:     formatDay(p.From),
			To:       formatDay(p.To),
			Timezone: p.Loc.String(),
			AsOf:     now.In(p.Loc),
		},
		Revenue:        r.Revenue,
		Profit:         r.Profit,
		OrderCount:     r.OrderCount,
		AverageTicket:  r.AverageTicket,
		Payments:       make([]dto.PaymentCountDTO, 0, len(r.Payments)),
		Weekdays:       make([]dto.WeekdayRevenueDTO, 0, len(r.Weekdays)),
		TopProducts:    make([]dto.ProductVolumeDTO, 0, len(r.TopProducts)),
		ProductProfits: make([]dto.ProductProfitDTO, 0, len(r.ProductProfits)),
	}
	for _, pc := range r.Payments {
		resp.Payments = append(resp.Payments, dto.PaymentCountDTO{Method: string(pc.Method), Count: pc.Count})
	}
	for _, w := range r.Weekdays {
		resp.Weekdays = append(resp.Weekdays, dto.WeekdayRevenueDTO{Day: w.Label, Revenue: w.Revenue.Round(2)})
	}
	for _, tp := range r.TopProducts {
		resp.TopProducts = append(resp.TopProducts, dto.ProductVolumeDTO{Name: tp.Name, Quantity: tp.Quantity, Share: tp.Share})
	}
	for _, pp := range r.ProductProfits {
		resp.ProductProfits = append(resp.ProductProfits, dto.ProductProfitDTO{Name: pp.Name, Profit: pp.Profit, Bar: pp.Bar})
	}
	return resp
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
