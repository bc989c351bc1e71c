package repository

import (
	"context"

	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/sales"
)

// SaleRepository define el puerto de persistencia para Sale.
// Las ventas se guardan con ProductID; la desnormalización ocurre en el caso de uso.
type SaleRepository interface {
	// Create persiste y asigna sale.ID.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	// Update reemplaza todos los campos. domain.ErrNotFound si no existe.
	Update(ctx context.Context, sale *entity.Sale) error
	// Delete elimina por id. domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id int64) error
	// Find devuelve una página y el total de ventas que cumplen el filtro.
	Find(ctx context.Context, q sales.Query) ([]*entity.Sale, int64, error)
	// FindAll devuelve todas las ventas del rango (nil = todas) sin paginar.
	FindAll(ctx context.Context, rng *sales.DateRange, sort sales.Sort) ([]*entity.Sale, error)
	CountByProduct(ctx context.Context, productID int64) (int64, error)
	Count(ctx context.Context) (int64, error)
}
