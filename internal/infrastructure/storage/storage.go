// Package storage elige el backend de persistencia según STORE_DRIVER y
// devuelve los repos ya construidos.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/sales-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/sales-dashboard-api/internal/infrastructure/memory"
	"github.com/jhoicas/sales-dashboard-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sales-dashboard-api/pkg/config"
	"github.com/jhoicas/sales-dashboard-api/pkg/logger"
)

// Repositories repos y runner transaccional de un mismo backend.
type Repositories struct {
	Products repository.ProductRepository
	Sales    repository.SaleRepository
	Users    repository.UserRepository
	Tx       repository.CatalogTxRunner

	close func()
}

// Close libera las conexiones del backend (no-op en memoria).
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// Open abre el backend configurado. Con postgres aplica las migraciones pendientes.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Repositories, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return NewMemory(memory.NewStore()), nil
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool, log.Named("migrate")); err != nil {
			pool.Close()
			return nil, err
		}
		return &Repositories{
			Products: postgres.NewProductRepository(pool),
			Sales:    postgres.NewSaleRepository(pool),
			Users:    postgres.NewUserRepository(pool),
			Tx:       postgres.NewTxRunner(pool),
			close:    pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Store.Driver)
}

// NewMemory envuelve un store en memoria.
func NewMemory(st *memory.Store) *Repositories {
	return &Repositories{
		Products: st.Products(),
		Sales:    st.Sales(),
		Users:    st.Users(),
		Tx:       st,
	}
}
