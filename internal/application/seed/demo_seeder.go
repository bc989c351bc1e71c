// Package seed carga datos de demostración: usuarios con roles, un catálogo de
// productos y ventas aleatorias de los últimos 90 días.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jhoicas/sales-dashboard-api/internal/application/auth"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/sales-dashboard-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	DemoSalesCount = 100
	DemoSalesDays  = 90
	maxQuantity    = 5
)

var (
	demoRegions        = []string{"North", "South", "East", "West"}
	demoPaymentMethods = []string{"Credit Card", "Debit Card", "Cash", "UPI"}
	demoCustomers      = []string{"John Doe", "Jane Smith", "Bob Johnson", "Alice Williams", "Charlie Brown"}
)

type demoUser struct {
	username, email, password string
	roles                     []string
}

var demoUsers = []demoUser{
	{"admin", "admin@example.com", "admin123", []string{entity.RoleAdmin, entity.RoleUser}},
	{"user", "user@example.com", "user123", []string{entity.RoleUser}},
}

// DemoProducts catálogo inicial.
func DemoProducts() []*entity.Product {
	return []*entity.Product{
		{Name: "Laptop", Category: "Electronics", Price: decimal.RequireFromString("899.99")},
		{Name: "Smartphone", Category: "Electronics", Price: decimal.RequireFromString("599.99")},
		{Name: "Headphones", Category: "Electronics", Price: decimal.RequireFromString("149.99")},
		{Name: "T-Shirt", Category: "Clothing", Price: decimal.RequireFromString("29.99")},
		{Name: "Jeans", Category: "Clothing", Price: decimal.RequireFromString("59.99")},
		{Name: "Coffee Maker", Category: "Home Appliances", Price: decimal.RequireFromString("79.99")},
		{Name: "Blender", Category: "Home Appliances", Price: decimal.RequireFromString("49.99")},
	}
}

// DemoSeeder puebla un almacén vacío. Cada bloque (usuarios, catálogo) solo se
// siembra si su tabla está vacía, así que Run es idempotente.
type DemoSeeder struct {
	users    repository.UserRepository
	products repository.ProductRepository
	tx       repository.CatalogTxRunner
	log      *logger.Logger
	rnd      *rand.Rand
	now      func() time.Time
}

// Option ajusta el seeder (tests).
type Option func(*DemoSeeder)

// WithRand fija la fuente aleatoria para obtener datos reproducibles.
func WithRand(r *rand.Rand) Option {
	return func(s *DemoSeeder) { s.rnd = r }
}

// WithClock fija el instante de referencia para las fechas de venta.
func WithClock(now func() time.Time) Option {
	return func(s *DemoSeeder) { s.now = now }
}

// NewDemoSeeder construye el seeder.
func NewDemoSeeder(
	users repository.UserRepository,
	products repository.ProductRepository,
	tx repository.CatalogTxRunner,
	log *logger.Logger,
	opts ...Option,
) *DemoSeeder {
	s := &DemoSeeder{
		users:    users,
		products: products,
		tx:       tx,
		log:      log,
		rnd:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run siembra usuarios y catálogo si faltan.
func (s *DemoSeeder) Run(ctx context.Context) error {
	if err := s.seedUsers(ctx); err != nil {
		return err
	}
	return s.seedCatalog(ctx)
}

func (s *DemoSeeder) seedUsers(ctx context.Context) error {
	n, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if n > 0 {
		s.log.Debug().Int64("users", n).Msg("usuarios existentes, se omite seed")
		return nil
	}
	for _, du := range demoUsers {
		hash, err := auth.HashPassword(du.password)
		if err != nil {
			return err
		}
		u := &entity.User{
			Username:     du.username,
			Email:        du.email,
			PasswordHash: hash,
			Roles:        du.roles,
			CreatedAt:    s.now().UTC(),
		}
		if err := s.users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", du.username, err)
		}
	}
	s.log.Info().Int("users", len(demoUsers)).Msg("usuarios demo creados")
	return nil
}

func (s *DemoSeeder) seedCatalog(ctx context.Context) error {
	n, err := s.products.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if n > 0 {
		s.log.Debug().Int64("products", n).Msg("catálogo existente, se omite seed")
		return nil
	}
	catalog := DemoProducts()
	err = s.tx.RunCatalog(ctx, func(products repository.ProductRepository, sales repository.SaleRepository) error {
		for _, p := range catalog {
			if err := products.Create(ctx, p); err != nil {
				return fmt.Errorf("seed product %s: %w", p.Name, err)
			}
		}
		for i := 0; i < DemoSalesCount; i++ {
			if err := sales.Create(ctx, s.randomSale(catalog)); err != nil {
				return fmt.Errorf("seed sale %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info().Int("products", len(catalog)).Int("sales", DemoSalesCount).Msg("catálogo demo creado")
	return nil
}

func (s *DemoSeeder) randomSale(catalog []*entity.Product) *entity.Sale {
	p := catalog[s.rnd.IntN(len(catalog))]
	qty := s.rnd.IntN(maxQuantity) + 1
	daysAgo := s.rnd.IntN(DemoSalesDays)
	return &entity.Sale{
		ProductID:     p.ID,
		Quantity:      qty,
		TotalAmount:   p.Price.Mul(decimal.NewFromInt(int64(qty))),
		SaleDate:      s.now().UTC().Truncate(time.Second).AddDate(0, 0, -daysAgo),
		CustomerName:  pick(s.rnd, demoCustomers),
		Region:        pick(s.rnd, demoRegions),
		PaymentMethod: pick(s.rnd, demoPaymentMethods),
	}
}

func pick(r *rand.Rand, values []string) string {
	return values[r.IntN(len(values))]
}
