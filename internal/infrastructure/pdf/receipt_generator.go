// Package pdf genera el comprobante del pedido en formato ticket (80 mm).
//
//	┌──────────────────────────┐
//	│ Lanchonete    Pedido #ab │
//	│ fecha y hora local       │
//	│ ──────────────────────── │
//	│ 2x X-Burger     R$ 37,00 │
//	│ ──────────────────────── │
//	│ TOTAL           R$ 37,00 │
//	│ Pago: PIX                │
//	│ Obs.                     │
//	│ QR (id del pedido)       │
//	└──────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lanchonete-api/internal/application/ordering"
	"github.com/jhoicas/lanchonete-api/internal/domain/entity"
)

var _ ordering.ReceiptGenerator = (*ReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 180, Green: 60, Blue: 20}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Ancho de bobina térmica en mm; el alto crece con las líneas.
const (
	ticketWidth      = 80
	ticketBaseHeight = 130
	ticketLineHeight = 6
)

var paymentLabels = map[entity.PaymentMethod]string{
	entity.PaymentPix:    "PIX",
	entity.PaymentMoney:  "Dinheiro",
	entity.PaymentCredit: "Crédito",
	entity.PaymentDebit:  "Débito",
}

// ReceiptGenerator implementa ordering.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct{}

func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// GenerateReceipt renderiza el ticket y devuelve los bytes del PDF.
func (g *ReceiptGenerator) GenerateReceipt(_ context.Context, order *entity.Order, info ordering.ReceiptInfo) ([]byte, error) {
	if order == nil {
		return nil, fmt.Errorf("pdf: pedido nil")
	}
	height := float64(ticketBaseHeight + ticketLineHeight*len(order.Items))
	cfg := config.NewBuilder().
		WithDimensions(ticketWidth, height).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Pedido "+order.ShortNumber(), true).
		WithAuthor(info.StoreName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order, info))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))
	m.AddRows(itemRows(order.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))
	m.AddRows(totalRow(order))
	m.AddRows(paymentRow(order))
	if obs := strings.TrimSpace(order.Observation); obs != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Obs.: "+obs, props.Text{Size: 8, Top: 1, Style: fontstyle.Italic}),
		)))
	}
	m.AddRows(row.New(3))
	m.AddRows(row.New(30).Add(
		col.New(3),
		col.New(6).Add(code.NewQr(order.ID, props.Rect{Percent: 95, Center: true})),
		col.New(3),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(order *entity.Order, info ordering.ReceiptInfo) core.Row {
	created := order.CreatedAt
	if info.Location != nil {
		created = created.In(info.Location)
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(nonEmpty(info.StoreName, "Lanchonete"), props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 1,
			}),
			text.New(created.Format("02/01/2006 15:04"), props.Text{
				Size: 7, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Pedido", props.Text{Size: 7, Align: align.Right, Top: 1, Color: colorGray}),
			text.New(order.ShortNumber(), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 5,
			}),
		),
	)
}

func itemRows(lines []entity.OrderLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, row.New(ticketLineHeight).Add(
			col.New(8).Add(text.New(
				fmt.Sprintf("%dx %s", l.Quantity, l.MenuItem.Name),
				props.Text{Size: 8, Top: 1},
			)),
			col.New(4).Add(text.New(
				formatBRL(l.Subtotal()),
				props.Text{Size: 8, Align: align.Right, Top: 1},
			)),
		))
	}
	return rows
}

func totalRow(order *entity.Order) core.Row {
	style := props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 1}
	right := style
	right.Align = align.Right
	return row.New(8).Add(
		col.New(6).Add(text.New("TOTAL", style)),
		col.New(6).Add(text.New(formatBRL(order.Total), right)),
	)
}

func paymentRow(order *entity.Order) core.Row {
	label := "Pagamento pendente"
	if order.IsPaid {
		label = "Pago"
		if m, ok := paymentLabels[order.PaymentMethod]; ok {
			label += ": " + m
		}
	}
	return row.New(6).Add(col.New(12).Add(
		text.New(label, props.Text{Size: 8, Top: 1, Color: colorGray}),
	))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatBRL formatea en reales: 1234.5 → "R$ 1.234,50".
func formatBRL(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := "R$ " + string(buf) + "," + frac
	if neg {
		return "-" + out
	}
	return out
}
