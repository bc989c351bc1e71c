package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/sales-dashboard-api/pkg/logger"
)

// migration es un paso de esquema numerado. Los pasos aplicados se registran en
// schema_migrations y nunca se reejecutan.
type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{1, "create_products", `
CREATE TABLE IF NOT EXISTS products (
    id       BIGSERIAL PRIMARY KEY,
    name     TEXT           NOT NULL,
    category TEXT           NOT NULL,
    price    NUMERIC(12, 2) NOT NULL CHECK (price > 0)
);`},
	{2, "create_sales", `
CREATE TABLE IF NOT EXISTS sales (
    id             BIGSERIAL PRIMARY KEY,
    product_id     BIGINT         NOT NULL,
    quantity       INTEGER        NOT NULL CHECK (quantity > 0),
    total_amount   NUMERIC(14, 2) NOT NULL CHECK (total_amount > 0),
    sale_date      TIMESTAMP      NOT NULL,
    customer_name  TEXT           NOT NULL DEFAULT '',
    region         TEXT           NOT NULL DEFAULT '',
    payment_method TEXT           NOT NULL DEFAULT '',
    CONSTRAINT fk_sales_product
        FOREIGN KEY (product_id) REFERENCES products (id) ON DELETE RESTRICT
);

CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales (sale_date);
CREATE INDEX IF NOT EXISTS idx_sales_product_id ON sales (product_id);`},
	{3, "create_users", `
CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    username      VARCHAR(20) NOT NULL UNIQUE,
    email         VARCHAR(50) NOT NULL UNIQUE,
    password_hash TEXT        NOT NULL,
    roles         TEXT[]      NOT NULL DEFAULT '{}',
    created_at    TIMESTAMP   NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
);`},
}

// Migrate aplica en orden los pasos pendientes, cada uno en su propia transacción.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    INTEGER PRIMARY KEY,
    name       TEXT      NOT NULL,
    applied_at TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
)`)
	if err != nil {
		return fmt.Errorf("crear schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, pool)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		if err := applyMigration(ctx, pool, m); err != nil {
			return err
		}
		log.Info().Int("version", m.version).Str("name", m.name).Msg("migración aplicada")
	}
	return nil
}

func appliedVersions(ctx context.Context, q Querier) (map[int]bool, error) {
	rows, err := q.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("leer schema_migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[int32])
	if err != nil {
		return nil, fmt.Errorf("leer schema_migrations: %w", err)
	}
	out := make(map[int]bool, len(versions))
	for _, v := range versions {
		out[int(v)] = true
	}
	return out, nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, m migration) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("migración %d: begin: %w", m.version, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, m.sql); err != nil {
		return fmt.Errorf("migración %d (%s): %w", m.version, m.name, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.version, m.name,
	); err != nil {
		return fmt.Errorf("migración %d: registrar: %w", m.version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("migración %d: commit: %w", m.version, err)
	}
	return nil
}
