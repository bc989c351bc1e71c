package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/sales-dashboard-api/internal/domain"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/sales"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, product_id, quantity, total_amount, sale_date, customer_name, region, payment_method`

// sortColumns mapea campos ordenables a columnas; lo que no está aquí nunca llega al SQL.
var sortColumns = map[sales.SortField]string{
	sales.SortByID:            "id",
	sales.SortByProductID:     "product_id",
	sales.SortByQuantity:      "quantity",
	sales.SortByTotalAmount:   "total_amount",
	sales.SortBySaleDate:      "sale_date",
	sales.SortByCustomerName:  "customer_name",
	sales.SortByRegion:        "region",
	sales.SortByPaymentMethod: "payment_method",
}

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste una venta y asigna su ID.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO sales (product_id, quantity, total_amount, sale_date, customer_name, region, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		s.ProductID, s.Quantity, s.TotalAmount, s.SaleDate.UTC(), s.CustomerName, s.Region, s.PaymentMethod,
	).Scan(&s.ID)
	if err != nil {
		return saleWriteError("insert sale", s.ProductID, err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	row := r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
	s, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// Update reemplaza todos los campos de la venta.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET product_id = $2, quantity = $3, total_amount = $4, sale_date = $5,
			customer_name = $6, region = $7, payment_method = $8
		WHERE id = $1`,
		s.ID, s.ProductID, s.Quantity, s.TotalAmount, s.SaleDate.UTC(), s.CustomerName, s.Region, s.PaymentMethod,
	)
	if err != nil {
		return saleWriteError("update sale", s.ProductID, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una venta por ID.
func (r *SaleRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Find devuelve la página pedida y el total filtrado (COUNT + LIMIT/OFFSET).
func (r *SaleRepo) Find(ctx context.Context, q sales.Query) ([]*entity.Sale, int64, error) {
	where, args := rangeClause(q.Range)

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	if total == 0 || int64(q.Offset()) >= total {
		return []*entity.Sale{}, total, nil
	}

	orderBy, err := orderClause(q.Sort)
	if err != nil {
		return nil, 0, err
	}
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM sales%s%s LIMIT $%d OFFSET $%d`, saleColumns, where, orderBy, n+1, n+2)
	rows, err := r.q.Query(ctx, query, append(args, q.Size, q.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("find sales: %w", err)
	}
	list, err := collectSales(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// FindAll devuelve todas las ventas del rango en el orden pedido.
func (r *SaleRepo) FindAll(ctx context.Context, rng *sales.DateRange, sort sales.Sort) ([]*entity.Sale, error) {
	where, args := rangeClause(rng)
	orderBy, err := orderClause(sort)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales`+where+orderBy, args...)
	if err != nil {
		return nil, fmt.Errorf("find all sales: %w", err)
	}
	return collectSales(rows)
}

// CountByProduct número de ventas que referencian el producto.
func (r *SaleRepo) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales by product: %w", err)
	}
	return n, nil
}

// Count total de ventas.
func (r *SaleRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}

func rangeClause(rng *sales.DateRange) (string, []any) {
	if rng == nil {
		return "", nil
	}
	return ` WHERE sale_date BETWEEN $1 AND $2`, []any{rng.From.UTC(), rng.To.UTC()}
}

// orderClause arma ORDER BY con desempate por id en la misma dirección.
func orderClause(s sales.Sort) (string, error) {
	col, ok := sortColumns[s.Field]
	if !ok {
		return "", fmt.Errorf("%w: unknown sort field %q", domain.ErrInvalidSort, s.Field)
	}
	dir := strings.ToUpper(string(s.Dir))
	if dir != string(sales.Asc) && dir != string(sales.Desc) {
		return "", fmt.Errorf("%w: unknown sort direction %q", domain.ErrInvalidSort, s.Dir)
	}
	if col == "id" {
		return " ORDER BY id " + dir, nil
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", col, dir, dir), nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.ProductID, &s.Quantity, &s.TotalAmount, &s.SaleDate,
		&s.CustomerName, &s.Region, &s.PaymentMethod)
	if err != nil {
		return nil, err
	}
	s.SaleDate = s.SaleDate.UTC()
	return &s, nil
}

func collectSales(rows pgx.Rows) ([]*entity.Sale, error) {
	defer rows.Close()
	list := []*entity.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
