// Package pdf genera el reporte de ventas en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + rango de fechas │ fecha de generación     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: ventas / unidades / ingresos                       │
//	│  POR REGIÓN: ingresos por región                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID | Fecha | Producto | Cant | Total | Cliente ...   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"slices"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sales-dashboard-api/internal/application/ports"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ ports.SalesPDFGenerator = (*MarotoSalesReport)(nil)

// MarotoSalesReport implementa ports.SalesPDFGenerator.
type MarotoSalesReport struct {
	title string
}

// NewMarotoSalesReport construye el generador. title aparece en el encabezado y en los metadatos.
func NewMarotoSalesReport(title string) *MarotoSalesReport {
	if title == "" {
		title = "Sales Report"
	}
	return &MarotoSalesReport{title: title}
}

// GenerateSalesReport genera el PDF y devuelve sus bytes.
func (g *MarotoSalesReport) GenerateSalesReport(ctx context.Context, report ports.SalesReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report.Sales))
	m.AddRows(regionRows(report.Sales)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(report.Sales) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No sales in the selected range.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	m.AddRows(tableDetailRows(report.Sales)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoSalesReport) headerRow(report ports.SalesReport) core.Row {
	period := "All sales"
	if report.Range != nil {
		period = fmt.Sprintf("%s to %s", report.Range.From.Format(dateLayout), report.Range.To.Format(dateLayout))
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New(g.title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Period: "+period, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generated", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.GeneratedAt.Format(dateTimeLayout)+" UTC", props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

// summaryRow: totales del conjunto exportado.
func summaryRow(views []entity.SaleView) core.Row {
	units := 0
	revenue := decimal.Zero
	for _, v := range views {
		units += v.Quantity
		revenue = revenue.Add(v.TotalAmount)
	}
	cell := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(value, props.Text{Size: 11, Top: 6}),
		)
	}
	return row.New(14).Add(
		cell("SALES", fmt.Sprintf("%d", len(views))),
		cell("UNITS", fmt.Sprintf("%d", units)),
		cell("REVENUE", "$"+formatMoney(revenue)),
	)
}

// regionRows: ingresos agrupados por región, ordenados por nombre.
func regionRows(views []entity.SaleView) []core.Row {
	if len(views) == 0 {
		return nil
	}
	byRegion := map[string]decimal.Decimal{}
	for _, v := range views {
		r := nonEmpty(v.Region, "Unknown")
		byRegion[r] = byRegion[r].Add(v.TotalAmount)
	}
	regions := make([]string, 0, len(byRegion))
	for r := range byRegion {
		regions = append(regions, r)
	}
	slices.Sort(regions)

	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("REVENUE BY REGION", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
	}
	for _, r := range regions {
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(r, props.Text{Size: 8, Left: 2})),
			col.New(3).Add(text.New("$"+formatMoney(byRegion[r]), props.Text{Size: 8, Align: align.Right})),
			col.New(6),
		))
	}
	return rows
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Left),
		h("Date", 2, align.Left),
		h("Product", 2, align.Left),
		h("Qty", 1, align.Center),
		h("Total", 2, align.Right),
		h("Customer", 2, align.Left),
		h("Region", 1, align.Left),
		h("Payment", 1, align.Left),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableDetailRows(views []entity.SaleView) []core.Row {
	rows := make([]core.Row, 0, len(views))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, v := range views {
		rows = append(rows, row.New(6).Add(
			cell(fmt.Sprintf("%d", v.ID), 1, align.Left),
			cell(v.SaleDate.UTC().Format(dateTimeLayout), 2, align.Left),
			cell(nonEmpty(v.ProductName, "-"), 2, align.Left),
			cell(fmt.Sprintf("%d", v.Quantity), 1, align.Center),
			cell("$"+formatMoney(v.TotalAmount), 2, align.Right),
			cell(v.CustomerName, 2, align.Left),
			cell(v.Region, 1, align.Left),
			cell(v.PaymentMethod, 1, align.Left),
		))
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney redondea a 2 decimales e inserta comas de miles.
// Ej: 1234567.5 -> "1,234,567.50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	if n <= 3 {
		return sign + intPart + "." + frac
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "." + frac
}
