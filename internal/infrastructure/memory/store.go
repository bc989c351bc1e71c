// Package memory implementa los puertos de persistencia sobre mapas en memoria.
// Sirve para desarrollo local sin PostgreSQL (STORE_DRIVER=memory) y para tests.
// Replica las reglas que en PostgreSQL imponen las constraints: unicidad de
// usuarios, FK de ventas a productos y borrado restrict.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/repository"
)

var _ repository.CatalogTxRunner = (*Store)(nil)

// Store datos compartidos por todos los repos en memoria.
type Store struct {
	mu sync.RWMutex

	products map[int64]*entity.Product
	sales    map[int64]*entity.Sale
	users    map[int64]*entity.User

	nextProductID int64
	nextSaleID    int64
	nextUserID    int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products: map[int64]*entity.Product{},
		sales:    map[int64]*entity.Sale{},
		users:    map[int64]*entity.User{},
	}
}

// Products repo de productos sobre el store.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Sales repo de ventas sobre el store.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Users repo de usuarios sobre el store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// RunCatalog toma el lock de escritura durante fn. Si fn falla se restaura el
// estado previo, igual que un rollback.
func (s *Store) RunCatalog(ctx context.Context, fn func(
	products repository.ProductRepository,
	sales repository.SaleRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&ProductRepo{s: s, locked: true}, &SaleRepo{s: s, locked: true}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	products      map[int64]*entity.Product
	sales         map[int64]*entity.Sale
	nextProductID int64
	nextSaleID    int64
}

// Las entidades guardadas nunca se mutan en sitio (Update reemplaza el puntero),
// así que basta con copiar los mapas.
func (s *Store) snapshot() snapshot {
	return snapshot{
		products:      maps.Clone(s.products),
		sales:         maps.Clone(s.sales),
		nextProductID: s.nextProductID,
		nextSaleID:    s.nextSaleID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.sales = snap.sales
	s.nextProductID = snap.nextProductID
	s.nextSaleID = snap.nextSaleID
}

// guard abstrae el locking: los repos creados dentro de RunCatalog ya tienen el lock.
type guard struct {
	s      *Store
	locked bool
}

func (g guard) read() func() {
	if g.locked {
		return func() {}
	}
	g.s.mu.RLock()
	return g.s.mu.RUnlock
}

func (g guard) write() func() {
	if g.locked {
		return func() {}
	}
	g.s.mu.Lock()
	return g.s.mu.Unlock
}
