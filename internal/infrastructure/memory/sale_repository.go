package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jhoicas/sales-dashboard-api/internal/domain"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/sales"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación en memoria de SaleRepository.
type SaleRepo struct {
	s      *Store
	locked bool
}

func (r *SaleRepo) guard() guard { return guard{s: r.s, locked: r.locked} }

// Create exige que el producto exista, como la FK en PostgreSQL.
func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	defer r.guard().write()()
	if _, ok := r.s.products[sale.ProductID]; !ok {
		return fmt.Errorf("insert sale: product %d: %w", sale.ProductID, domain.ErrNotFound)
	}
	r.s.nextSaleID++
	sale.ID = r.s.nextSaleID
	sale.SaleDate = sale.SaleDate.UTC()
	cp := *sale
	r.s.sales[cp.ID] = &cp
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id int64) (*entity.Sale, error) {
	defer r.guard().read()()
	s, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *SaleRepo) Update(_ context.Context, sale *entity.Sale) error {
	defer r.guard().write()()
	if _, ok := r.s.sales[sale.ID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.products[sale.ProductID]; !ok {
		return fmt.Errorf("update sale: product %d: %w", sale.ProductID, domain.ErrNotFound)
	}
	cp := *sale
	cp.SaleDate = cp.SaleDate.UTC()
	r.s.sales[cp.ID] = &cp
	return nil
}

func (r *SaleRepo) Delete(_ context.Context, id int64) error {
	defer r.guard().write()()
	if _, ok := r.s.sales[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.sales, id)
	return nil
}

// Find filtra, ordena y pagina. El total se calcula antes de paginar.
func (r *SaleRepo) Find(_ context.Context, q sales.Query) ([]*entity.Sale, int64, error) {
	defer r.guard().read()()
	list, err := r.filterSorted(q.Range, q.Sort)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(list))
	from := q.Offset()
	if from < 0 || from > len(list) {
		from = len(list)
	}
	to := from + min(q.Size, len(list)-from)
	return list[from:to], total, nil
}

func (r *SaleRepo) FindAll(_ context.Context, rng *sales.DateRange, sort sales.Sort) ([]*entity.Sale, error) {
	defer r.guard().read()()
	return r.filterSorted(rng, sort)
}

func (r *SaleRepo) CountByProduct(_ context.Context, productID int64) (int64, error) {
	defer r.guard().read()()
	var n int64
	for _, s := range r.s.sales {
		if s.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r *SaleRepo) Count(_ context.Context) (int64, error) {
	defer r.guard().read()()
	return int64(len(r.s.sales)), nil
}

func (r *SaleRepo) filterSorted(rng *sales.DateRange, sort sales.Sort) ([]*entity.Sale, error) {
	compare, err := saleComparator(sort)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.Sale, 0, len(r.s.sales))
	for _, s := range r.s.sales {
		if rng != nil && !rng.Contains(s.SaleDate) {
			continue
		}
		cp := *s
		list = append(list, &cp)
	}
	slices.SortFunc(list, compare)
	return list, nil
}

// saleComparator ordena por el campo pedido y desempata por id en la misma dirección.
func saleComparator(s sales.Sort) (func(a, b *entity.Sale) int, error) {
	var byField func(a, b *entity.Sale) int
	switch s.Field {
	case sales.SortByID:
		byField = func(a, b *entity.Sale) int { return 0 }
	case sales.SortByProductID:
		byField = func(a, b *entity.Sale) int { return cmpInt64(a.ProductID, b.ProductID) }
	case sales.SortByQuantity:
		byField = func(a, b *entity.Sale) int { return cmp.Compare(a.Quantity, b.Quantity) }
	case sales.SortByTotalAmount:
		byField = func(a, b *entity.Sale) int { return a.TotalAmount.Cmp(b.TotalAmount) }
	case sales.SortBySaleDate:
		byField = func(a, b *entity.Sale) int { return a.SaleDate.Compare(b.SaleDate) }
	case sales.SortByCustomerName:
		byField = func(a, b *entity.Sale) int { return strings.Compare(a.CustomerName, b.CustomerName) }
	case sales.SortByRegion:
		byField = func(a, b *entity.Sale) int { return strings.Compare(a.Region, b.Region) }
	case sales.SortByPaymentMethod:
		byField = func(a, b *entity.Sale) int { return strings.Compare(a.PaymentMethod, b.PaymentMethod) }
	default:
		return nil, fmt.Errorf("%w: unknown sort field %q", domain.ErrInvalidSort, s.Field)
	}
	sign := 1
	switch s.Dir {
	case sales.Asc:
	case sales.Desc:
		sign = -1
	default:
		return nil, fmt.Errorf("%w: unknown sort direction %q", domain.ErrInvalidSort, s.Dir)
	}
	return func(a, b *entity.Sale) int {
		if c := byField(a, b); c != 0 {
			return sign * c
		}
		return sign * cmpInt64(a.ID, b.ID)
	}, nil
}

func cmpInt64(a, b int64) int { return cmp.Compare(a, b) }
