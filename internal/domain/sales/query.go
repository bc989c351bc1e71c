// Package sales define el modelo de consulta de ventas: rango de fechas,
// paginación y orden. Toda la validación de parámetros ocurre aquí, antes de
// llegar al almacén.
package sales

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/sales-dashboard-api/internal/domain"
)

// SortField es un campo ordenable de Sale (nombres del contrato JSON).
type SortField string

const (
	SortByID            SortField = "id"
	SortByProductID     SortField = "productId"
	SortByQuantity      SortField = "quantity"
	SortByTotalAmount   SortField = "totalAmount"
	SortBySaleDate      SortField = "saleDate"
	SortByCustomerName  SortField = "customerName"
	SortByRegion        SortField = "region"
	SortByPaymentMethod SortField = "paymentMethod"
)

var sortFields = []SortField{
	SortByID, SortByProductID, SortByQuantity, SortByTotalAmount,
	SortBySaleDate, SortByCustomerName, SortByRegion, SortByPaymentMethod,
}

// SortDir dirección de orden.
type SortDir string

const (
	Asc  SortDir = "ASC"
	Desc SortDir = "DESC"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// DefaultSort es el orden del listado y de la exportación: más recientes primero.
var DefaultSort = Sort{Field: SortBySaleDate, Dir: Desc}

// Sort campo + dirección. Los empates se resuelven por id en la misma dirección.
type Sort struct {
	Field SortField
	Dir   SortDir
}

// DateRange rango inclusivo [From, To]. From > To es válido y no selecciona nada.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains indica si t cae dentro del rango (ambos extremos incluidos).
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// Query consulta validada de ventas. Range nil significa sin filtro.
type Query struct {
	Range *DateRange
	Page  int // base 0
	Size  int
	Sort  Sort
}

// Offset filas a saltar para la página pedida.
func (q Query) Offset() int {
	return q.Page * q.Size
}

// Params parámetros crudos tal como llegan en la query string.
type Params struct {
	StartDate string
	EndDate   string
	Page      string
	Size      string
	SortBy    string
	SortDir   string
}

// NewQuery valida los parámetros crudos y construye la Query.
func NewQuery(p Params) (Query, error) {
	rng, err := ParseDateRange(p.StartDate, p.EndDate)
	if err != nil {
		return Query{}, err
	}
	page, err := parseBoundedInt("page", p.Page, 0, 0, -1)
	if err != nil {
		return Query{}, err
	}
	size, err := parseBoundedInt("size", p.Size, DefaultPageSize, 1, MaxPageSize)
	if err != nil {
		return Query{}, err
	}
	// page*size debe caber en int: el offset no puede desbordar.
	if page > math.MaxInt/size {
		return Query{}, domain.Invalid("page", "page is too large")
	}
	field, err := ParseSortField(p.SortBy)
	if err != nil {
		return Query{}, err
	}
	dir, err := ParseSortDir(p.SortDir)
	if err != nil {
		return Query{}, err
	}
	return Query{Range: rng, Page: page, Size: size, Sort: Sort{Field: field, Dir: dir}}, nil
}

// ParseSortField resuelve el nombre de campo; vacío = saleDate. Un nombre desconocido es error.
func ParseSortField(s string) (SortField, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortBySaleDate, nil
	}
	for _, f := range sortFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown sort field %q", domain.ErrInvalidSort, s)
}

// ParseSortDir acepta ASC/DESC sin distinguir mayúsculas; vacío = DESC.
func ParseSortDir(s string) (SortDir, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return Desc, nil
	case string(Asc):
		return Asc, nil
	case string(Desc):
		return Desc, nil
	}
	return "", fmt.Errorf("%w: unknown sort direction %q", domain.ErrInvalidSort, s)
}

// ParseDateRange exige ambos extremos o ninguno. Un endDate sin hora cubre el día completo.
func ParseDateRange(start, end string) (*DateRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, domain.Invalid("startDate", "startDate and endDate must be provided together")
	}
	from, _, err := ParseTimestamp(start)
	if err != nil {
		return nil, domain.Invalid("startDate", "Invalid startDate: "+start)
	}
	to, dateOnly, err := ParseTimestamp(end)
	if err != nil {
		return nil, domain.Invalid("endDate", "Invalid endDate: "+end)
	}
	if dateOnly {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return &DateRange{From: from, To: to}, nil
}

// Formatos aceptados, del más al menos específico.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

const dateLayout = "2006-01-02"

// ParseTimestamp interpreta una fecha-hora sin zona como UTC. RFC3339 se convierte a UTC.
// dateOnly es true si s no trae hora.
func ParseTimestamp(s string) (t time.Time, dateOnly bool, err error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), false, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, false, nil
		}
	}
	t, err = time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("timestamp %q: formato no reconocido", s)
	}
	return t, true, nil
}

// parseBoundedInt: vacío = def; hi < 0 significa sin tope.
func parseBoundedInt(field, s string, def, lo, hi int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, domain.Invalid(field, fmt.Sprintf("%s must be an integer", field))
	}
	if n < lo || (hi >= 0 && n > hi) {
		if hi >= 0 {
			return 0, domain.Invalid(field, fmt.Sprintf("%s must be between %d and %d", field, lo, hi))
		}
		return 0, domain.Invalid(field, fmt.Sprintf("%s must be >= %d", field, lo))
	}
	return n, nil
}
