package ports

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/sales"
)

// SalesCSVWriter serializa un conjunto de ventas ya filtrado a CSV.
// Debe ser función pura de su entrada: mismo conjunto, mismos bytes.
type SalesCSVWriter interface {
	WriteSales(w io.Writer, views []entity.SaleView) error
}

// SalesReport datos de entrada del reporte PDF.
type SalesReport struct {
	Range       *sales.DateRange // nil = todas las ventas
	Sales       []entity.SaleView
	GeneratedAt time.Time
}

// SalesPDFGenerator genera la representación PDF del reporte de ventas.
type SalesPDFGenerator interface {
	GenerateSalesReport(ctx context.Context, report SalesReport) ([]byte, error)
}
