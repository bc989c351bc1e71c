package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/sales-dashboard-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// ImportResult resumen de una importación de catálogo.
type ImportResult struct {
	Imported int
	Skipped  int
}

// CatalogImporter importa productos desde un CSV "name,category,price" con encabezado.
type CatalogImporter struct {
	tx  repository.CatalogTxRunner
	log *logger.Logger
}

// NewCatalogImporter construye el importador.
func NewCatalogImporter(tx repository.CatalogTxRunner, log *logger.Logger) *CatalogImporter {
	return &CatalogImporter{tx: tx, log: log}
}

// Import lee r (ya decodificado a UTF-8) y crea los productos en una sola transacción.
// Filas con columnas faltantes, nombre vacío o precio no positivo se omiten con un warning.
func (ci *CatalogImporter) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return ImportResult{}, fmt.Errorf("leer CSV: %w", err)
	}
	if len(records) < 2 {
		return ImportResult{}, errors.New("CSV vacío o solo con encabezado")
	}

	var res ImportResult
	var batch []*entity.Product
	for i, row := range records[1:] {
		line := i + 2
		p, reason := productFromRow(row)
		if reason != "" {
			ci.log.Warn().Int("row", line).Str("reason", reason).Strs("values", row).Msg("fila omitida")
			res.Skipped++
			continue
		}
		batch = append(batch, p)
	}

	err = ci.tx.RunCatalog(ctx, func(products repository.ProductRepository, _ repository.SaleRepository) error {
		for _, p := range batch {
			if err := products.Create(ctx, p); err != nil {
				return fmt.Errorf("crear producto %q: %w", p.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	res.Imported = len(batch)
	ci.log.Info().Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("catálogo importado")
	return res, nil
}

func productFromRow(row []string) (*entity.Product, string) {
	if len(row) < 3 {
		return nil, "columnas insuficientes"
	}
	name := strings.TrimSpace(row[0])
	category := strings.TrimSpace(row[1])
	if name == "" || category == "" {
		return nil, "nombre o categoría vacíos"
	}
	price, err := decimal.NewFromString(strings.TrimSpace(row[2]))
	if err != nil {
		return nil, "precio inválido"
	}
	if !price.IsPositive() {
		return nil, "precio debe ser positivo"
	}
	return &entity.Product{Name: name, Category: category, Price: price}, ""
}
