// Package csvexport serializa ventas desnormalizadas a CSV (RFC 4180).
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jhoicas/sales-dashboard-api/internal/application/ports"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
)

// DateLayout formato de Sale Date en el CSV.
const DateLayout = "2006-01-02 15:04:05"

// Header columnas del export, en orden.
var Header = []string{
	"ID", "Product", "Category", "Quantity", "Total Amount",
	"Sale Date", "Customer", "Region", "Payment Method",
}

var _ ports.SalesCSVWriter = (*SalesWriter)(nil)

// SalesWriter implementa ports.SalesCSVWriter con encoding/csv.
type SalesWriter struct{}

// NewSalesWriter construye el writer.
func NewSalesWriter() *SalesWriter { return &SalesWriter{} }

// WriteSales escribe el encabezado y una fila por venta, en el orden recibido.
// Los campos con comas, comillas o saltos de línea se entrecomillan.
func (SalesWriter) WriteSales(w io.Writer, views []entity.SaleView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, v := range views {
		if err := cw.Write(record(v)); err != nil {
			return fmt.Errorf("csv row %d: %w", v.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(v entity.SaleView) []string {
	return []string{
		strconv.FormatInt(v.ID, 10),
		v.ProductName,
		v.ProductCategory,
		strconv.Itoa(v.Quantity),
		v.TotalAmount.String(),
		v.SaleDate.UTC().Format(DateLayout),
		v.CustomerName,
		v.Region,
		v.PaymentMethod,
	}
}
