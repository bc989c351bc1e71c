package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/sales-dashboard-api/internal/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// isForeignKeyViolation verifica si un error es una violación de FK (23503), p.ej. borrar un producto con ventas.
func isForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

// isOutOfRange verifica si el valor violó un CHECK (23514) o excedió la precisión de la columna (22003).
func isOutOfRange(err error) bool {
	return hasCode(err, codeCheckViolation) || hasCode(err, codeNumericOutOfRange)
}

// writeError envuelve un error de escritura; los valores fuera de rango llegan al cliente como 400.
func writeError(op string, err error) error {
	if isOutOfRange(err) {
		return fmt.Errorf("%s: %w", op, &domain.ValidationError{Message: "Value out of range"})
	}
	return fmt.Errorf("%s: %w", op, err)
}

// saleWriteError agrega a writeError la FK de producto: un producto ausente es ErrNotFound.
func saleWriteError(op string, productID int64, err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%s: product %d: %w", op, productID, domain.ErrNotFound)
	}
	return writeError(op, err)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return strings.Contains(err.Error(), code)
}
