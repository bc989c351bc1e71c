package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sales-dashboard-api/internal/application/dto"
	"github.com/jhoicas/sales-dashboard-api/internal/application/ports"
	"github.com/jhoicas/sales-dashboard-api/internal/domain"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/sales"
	"github.com/jhoicas/sales-dashboard-api/internal/infrastructure/csvexport"
)

var jan15 = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func mustQuery(t *testing.T, p sales.Params) sales.Query {
	t.Helper()
	q, err := sales.NewQuery(p)
	require.NoError(t, err)
	return q
}

func TestSaleUseCase_CreateDevuelveLosCamposEnviados(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Laptop", "Electronics", "899.99")

	req := saleRequest(p.ID, 2, "1799.98", jan15)
	out := f.sale(t, req)

	assert.NotZero(t, out.ID)
	assert.Equal(t, p.ID, out.ProductID)
	assert.Equal(t, "Laptop", out.ProductName)
	assert.Equal(t, "Electronics", out.ProductCategory)
	assert.Equal(t, 2, out.Quantity)
	assert.True(t, out.TotalAmount.Equal(decimal.RequireFromString("1799.98")))
	assert.True(t, out.SaleDate.Equal(jan15))
	assert.Equal(t, req.CustomerName, out.CustomerName)
	assert.Equal(t, req.Region, out.Region)
	assert.Equal(t, req.PaymentMethod, out.PaymentMethod)

	got, err := f.sales.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ID, got.ID)
	assert.Equal(t, "Laptop", got.ProductName)
}

func TestSaleUseCase_TotalNoSeDerivaDelPrecio(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Laptop", "Electronics", "100")

	out := f.sale(t, saleRequest(p.ID, 3, "250", jan15))
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(250)), "el total es el enviado por el caller")
}

func TestSaleUseCase_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Laptop", "Electronics", "10")
	s := f.sale(t, saleRequest(p.ID, 1, "10", jan15))

	_, err := f.sales.Create(context.Background(), saleRequest(99, 1, "10", jan15))
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "Product not found with id: 99")

	_, err = f.sales.Update(context.Background(), s.ID, saleRequest(99, 1, "10", jan15))
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "Product not found with id: 99")
}

func TestSaleUseCase_VentaInexistente(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Laptop", "Electronics", "10")

	_, err := f.sales.GetByID(context.Background(), 7)
	assert.EqualError(t, err, "Sale not found with id: 7")

	_, err = f.sales.Update(context.Background(), 7, saleRequest(p.ID, 1, "10", jan15))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaleUseCase_EscenarioEnero2024(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Widget", "Tools", "10.00")
	s := f.sale(t, saleRequest(p.ID, 3, "30.00", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))

	page, err := f.sales.List(context.Background(), mustQuery(t, sales.Params{StartDate: "2024-01-01", EndDate: "2024-01-31"}))
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, s.ID, page.Content[0].ID)
	assert.Equal(t, int64(1), page.TotalElements)

	page, err = f.sales.List(context.Background(), mustQuery(t, sales.Params{StartDate: "2024-02-01", EndDate: "2024-02-29"}))
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.True(t, page.Empty)
	assert.Zero(t, page.TotalElements)
}

func TestSaleUseCase_RangoInvertidoVacio(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Widget", "Tools", "10")
	f.sale(t, saleRequest(p.ID, 1, "10", jan15))

	page, err := f.sales.List(context.Background(), mustQuery(t, sales.Params{StartDate: "2024-01-31", EndDate: "2024-01-01"}))
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Zero(t, page.TotalElements)
}

func TestSaleUseCase_UpdateRedesnormaliza(t *testing.T) {
	f := newFixture(t)
	laptop := f.product(t, "Laptop", "Electronics", "10")
	shirt := f.product(t, "T-Shirt", "Clothing", "5")
	s := f.sale(t, saleRequest(laptop.ID, 1, "10", jan15))

	out, err := f.sales.Update(context.Background(), s.ID, saleRequest(shirt.ID, 4, "20", jan15))
	require.NoError(t, err)
	assert.Equal(t, s.ID, out.ID)
	assert.Equal(t, shirt.ID, out.ProductID)
	assert.Equal(t, "T-Shirt", out.ProductName)
	assert.Equal(t, "Clothing", out.ProductCategory)
	assert.Equal(t, 4, out.Quantity)

	got, err := f.sales.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "T-Shirt", got.ProductName)
}

func TestSaleUseCase_DeleteDosVeces(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Widget", "Tools", "10")
	s := f.sale(t, saleRequest(p.ID, 1, "10", jan15))

	require.NoError(t, f.sales.Delete(context.Background(), s.ID))
	err := f.sales.Delete(context.Background(), s.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, fmt.Sprintf("Sale not found with id: %d", s.ID))
}

func TestSaleUseCase_ListPaginaYMetadatos(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Widget", "Tools", "10")
	for i := 0; i < 12; i++ {
		f.sale(t, saleRequest(p.ID, i+1, "10", jan15.Add(time.Duration(i)*time.Hour)))
	}

	page, err := f.sales.List(context.Background(), mustQuery(t, sales.Params{Page: "1", Size: "5", SortBy: "quantity", SortDir: "ASC"}))
	require.NoError(t, err)
	require.Len(t, page.Content, 5)
	assert.Equal(t, 6, page.Content[0].Quantity)
	assert.Equal(t, 10, page.Content[4].Quantity)
	assert.Equal(t, int64(12), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 5, page.Size)
	assert.Equal(t, 5, page.NumberOfElements)
	assert.False(t, page.First)
	assert.False(t, page.Last)
	assert.False(t, page.Empty)
}

// El CSV contiene exactamente el conjunto filtrado, sin importar la paginación.
func TestSaleUseCase_ExportCSVIgualAlConjuntoFiltrado(t *testing.T) {
	f := newFixture(t)
	widget := f.product(t, "Widget", "Tools", "10")
	gadget := f.product(t, "Gadget", "Tools", "20")
	regions := []string{"North", "South", "East", "West"}
	for i := 0; i < 23; i++ {
		req := saleRequest(widget.ID, i%5+1, fmt.Sprintf("%d.50", 10+i), jan15.AddDate(0, 0, i-10))
		if i%3 == 0 {
			req.ProductID = ptr(gadget.ID)
		}
		req.Region = regions[i%len(regions)]
		req.CustomerName = fmt.Sprintf("Customer, %d", i)
		f.sale(t, req)
	}
	params := sales.Params{StartDate: "2024-01-08", EndDate: "2024-01-20", Size: "4"}

	type tuple struct {
		id, qty, total, date, customer, region, payment string
	}
	want := map[tuple]bool{}
	for page := 0; ; page++ {
		params.Page = fmt.Sprint(page)
		res, err := f.sales.List(context.Background(), mustQuery(t, params))
		require.NoError(t, err)
		for _, s := range res.Content {
			want[tuple{
				fmt.Sprint(s.ID), fmt.Sprint(s.Quantity), s.TotalAmount.String(),
				s.SaleDate.Format(csvexport.DateLayout), s.CustomerName, s.Region, s.PaymentMethod,
			}] = true
		}
		if res.Last {
			break
		}
	}
	require.NotEmpty(t, want)

	rng, err := sales.ParseDateRange(params.StartDate, params.EndDate)
	require.NoError(t, err)
	body, err := f.sales.ExportCSV(context.Background(), rng)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Equal(t, csvexport.Header, records[0])

	got := map[tuple]bool{}
	for _, r := range records[1:] {
		got[tuple{r[0], r[3], r[4], r[5], r[6], r[7], r[8]}] = true
	}
	assert.Equal(t, want, got)
	assert.Len(t, records[1:], len(want))
}

func TestSaleUseCase_ExportCSVOrdenMasRecientePrimero(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Widget", "Tools", "10")
	older := f.sale(t, saleRequest(p.ID, 1, "10", jan15))
	newer := f.sale(t, saleRequest(p.ID, 1, "10", jan15.Add(time.Hour)))

	body, err := f.sales.ExportCSV(context.Background(), nil)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, fmt.Sprint(newer.ID), records[1][0])
	assert.Equal(t, fmt.Sprint(older.ID), records[2][0])
	assert.Equal(t, "Widget", records[1][1])
	assert.Equal(t, "Tools", records[1][2])
}

func TestSaleUseCase_ExportFallaEsErrExport(t *testing.T) {
	f := newFixtureWith(t, failingCSV{}, failingPDF{})
	_, err := f.sales.ExportCSV(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrExport)

	_, err = f.sales.ExportPDF(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrExport)
}

func TestSaleUseCase_ExportPDFRecibeConjuntoYRango(t *testing.T) {
	var last ports.SalesReport
	f := newFixtureWith(t, csvexport.NewSalesWriter(), stubPDF{last: &last})
	p := f.product(t, "Widget", "Tools", "10")
	f.sale(t, saleRequest(p.ID, 1, "10", jan15))
	f.sale(t, saleRequest(p.ID, 1, "10", jan15.AddDate(0, 1, 0)))

	rng, err := sales.ParseDateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	doc, err := f.sales.ExportPDF(context.Background(), rng)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	require.Len(t, last.Sales, 1)
	assert.Equal(t, "Widget", last.Sales[0].ProductName)
	assert.Equal(t, rng, last.Range)
	assert.False(t, last.GeneratedAt.IsZero())
}

func TestSaleUseCase_ListVacioDevuelveContenidoNoNulo(t *testing.T) {
	f := newFixture(t)
	page, err := f.sales.List(context.Background(), mustQuery(t, sales.Params{}))
	require.NoError(t, err)
	assert.NotNil(t, page.Content)
	assert.Equal(t, dto.PageResponse{Number: 0, Size: 10, First: true, Last: true, Empty: true}, page.PageResponse)
}
