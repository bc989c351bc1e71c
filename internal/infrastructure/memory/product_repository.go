package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/sales-dashboard-api/internal/domain"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s      *Store
	locked bool
}

func (r *ProductRepo) guard() guard { return guard{s: r.s, locked: r.locked} }

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	defer r.guard().write()()
	r.s.nextProductID++
	product.ID = r.s.nextProductID
	cp := *product
	r.s.products[cp.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	defer r.guard().read()()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]*entity.Product, error) {
	defer r.guard().read()()
	out := make(map[int64]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	defer r.guard().read()()
	list := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		cp := *p
		list = append(list, &cp)
	}
	slices.SortFunc(list, func(a, b *entity.Product) int { return cmpInt64(a.ID, b.ID) })
	return list, nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	defer r.guard().write()()
	if _, ok := r.s.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *product
	r.s.products[cp.ID] = &cp
	return nil
}

// Delete rechaza con ErrConflict si alguna venta referencia el producto.
func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	defer r.guard().write()()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, s := range r.s.sales {
		if s.ProductID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) Count(_ context.Context) (int64, error) {
	defer r.guard().read()()
	return int64(len(r.s.products)), nil
}
