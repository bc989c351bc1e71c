package usecase_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sales-dashboard-api/internal/application/dto"
	"github.com/jhoicas/sales-dashboard-api/internal/application/ports"
	"github.com/jhoicas/sales-dashboard-api/internal/application/usecase"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/sales-dashboard-api/internal/infrastructure/csvexport"
	"github.com/jhoicas/sales-dashboard-api/internal/infrastructure/memory"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	store    *memory.Store
	products *usecase.ProductUseCase
	sales    *usecase.SaleUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, csvexport.NewSalesWriter(), stubPDF{})
}

func newFixtureWith(t *testing.T, csv ports.SalesCSVWriter, pdf ports.SalesPDFGenerator) *fixture {
	t.Helper()
	st := memory.NewStore()
	return &fixture{
		store:    st,
		products: usecase.NewProductUseCase(st.Products(), st),
		sales:    usecase.NewSaleUseCase(st.Sales(), st.Products(), csv, pdf),
	}
}

func (f *fixture) product(t *testing.T, name, category, price string) *dto.ProductResponse {
	t.Helper()
	out, err := f.products.Create(context.Background(), dto.ProductRequest{
		Name: name, Category: category, Price: ptr(decimal.RequireFromString(price)),
	})
	require.NoError(t, err)
	return out
}

func saleRequest(productID int64, qty int, total string, at time.Time) dto.SaleRequest {
	return dto.SaleRequest{
		ProductID:     ptr(productID),
		Quantity:      ptr(qty),
		TotalAmount:   ptr(decimal.RequireFromString(total)),
		SaleDate:      ptr(dto.NewLocalDateTime(at)),
		CustomerName:  "John Doe",
		Region:        "North",
		PaymentMethod: "Credit Card",
	}
}

func (f *fixture) sale(t *testing.T, req dto.SaleRequest) *dto.SaleResponse {
	t.Helper()
	out, err := f.sales.Create(context.Background(), req)
	require.NoError(t, err)
	return out
}

// stubPDF devuelve un PDF mínimo y registra el último reporte recibido.
type stubPDF struct {
	last *ports.SalesReport
}

func (s stubPDF) GenerateSalesReport(_ context.Context, r ports.SalesReport) ([]byte, error) {
	if s.last != nil {
		*s.last = r
	}
	return []byte("%PDF-1.3 stub"), nil
}

type failingPDF struct{}

func (failingPDF) GenerateSalesReport(context.Context, ports.SalesReport) ([]byte, error) {
	return nil, errors.New("fuente no disponible")
}

type failingCSV struct{}

func (failingCSV) WriteSales(io.Writer, []entity.SaleView) error {
	return errors.New("disco lleno")
}
