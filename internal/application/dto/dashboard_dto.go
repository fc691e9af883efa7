package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardRequest parámetros de GET /api/dashboard.
type DashboardRequest struct {
	Range    string `query:"range"` // today|7d|30d|custom|all
	Start    string `query:"start"` // YYYY-MM-DD (custom)
	End      string `query:"end"`   // YYYY-MM-DD (custom)
	Timezone string `query:"tz"`    // IANA; vacío = APP_TIMEZONE
}

// DashboardResponse métricas sobre pedidos completed del período.
type DashboardResponse struct {
	Period         DashboardPeriodDTO  `json:"period"`
	Revenue        decimal.Decimal     `json:"revenue"`
	Profit         decimal.Decimal     `json:"profit"`
	OrderCount     int                 `json:"order_count"`
	AverageTicket  decimal.Decimal     `json:"average_ticket"`
	Payments       []PaymentCountDTO   `json:"payments"`
	Weekdays       []WeekdayRevenueDTO `json:"weekdays"`
	TopProducts    []ProductVolumeDTO  `json:"top_products"`
	ProductProfits []ProductProfitDTO  `json:"product_profits"`
}

// DashboardPeriodDTO período resuelto; fechas vacías = sin límite.
type DashboardPeriodDTO struct {
	Range    string    `json:"range"`
	From     string    `json:"from,omitempty"`
	To       string    `json:"to,omitempty"`
	Timezone string    `json:"timezone"`
	AsOf     time.Time `json:"as_of"`
}

// PaymentCountDTO pedidos por forma de pago.
type PaymentCountDTO struct {
	Method string `json:"method"`
	Count  int    `json:"count"`
}

// WeekdayRevenueDTO facturación por día de la semana (Dom..Sáb).
type WeekdayRevenueDTO struct {
	Day     string          `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ProductVolumeDTO producto más vendido; share en % del total de unidades.
type ProductVolumeDTO struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Share    decimal.Decimal `json:"share"`
}

// ProductProfitDTO lucro por producto con barra relativa 0–100.
type ProductProfitDTO struct {
	Name   string          `json:"name"`
	Profit decimal.Decimal `json:"profit"`
	Bar    decimal.Decimal `json:"bar"`
}
