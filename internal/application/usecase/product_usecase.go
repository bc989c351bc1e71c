package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/sales-dashboard-api/internal/application/dto"
	"github.com/jhoicas/sales-dashboard-api/internal/domain"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/repository"
)

const productEntity = "Product"

// ProductUseCase casos de uso CRUD para productos.
type ProductUseCase struct {
	repo repository.ProductRepository
	tx   repository.CatalogTxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, tx repository.CatalogTxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, tx: tx}
}

// List lista todos los productos ordenados por id.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, toProductResponse(p))
	}
	return items, nil
}

// GetByID obtiene un producto. NotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil {
		return nil, domain.NotFound(productEntity, id)
	}
	out := toProductResponse(p)
	return &out, nil
}

// Create persiste un producto con los datos del caller.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	p := &entity.Product{Name: in.Name, Category: in.Category, Price: *in.Price}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("crear producto: %w", err)
	}
	out := toProductResponse(p)
	return &out, nil
}

// Update reemplaza todos los campos del producto. NotFound si no existe.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.ProductRequest) (*dto.ProductResponse, error) {
	p := &entity.Product{ID: id, Name: in.Name, Category: in.Category, Price: *in.Price}
	if err := uc.repo.Update(ctx, p); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(productEntity, id)
		}
		return nil, fmt.Errorf("actualizar producto: %w", err)
	}
	out := toProductResponse(p)
	return &out, nil
}

// Delete elimina un producto. Si alguna venta lo referencia la eliminación se
// rechaza con domain.ErrConflict (política restrict).
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.tx.RunCatalog(ctx, func(products repository.ProductRepository, sales repository.SaleRepository) error {
		p, err := products.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("eliminar producto: %w", err)
		}
		if p == nil {
			return domain.NotFound(productEntity, id)
		}
		n, err := sales.CountByProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("eliminar producto: contar ventas: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("%w: product %d is referenced by %d sale(s)", domain.ErrConflict, id, n)
		}
		if err := products.Delete(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NotFound(productEntity, id)
			}
			return fmt.Errorf("eliminar producto: %w", err)
		}
		return nil
	})
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
	}
}
