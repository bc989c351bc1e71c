package repository

import (
	"context"

	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// Create persiste y asigna product.ID.
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetByIDs resuelve varios productos a la vez; los ids ausentes no aparecen en el mapa.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	// Update reemplaza todos los campos. domain.ErrNotFound si no existe.
	Update(ctx context.Context, product *entity.Product) error
	// Delete elimina por id. domain.ErrNotFound si no existe, domain.ErrConflict si hay ventas que lo referencian.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
