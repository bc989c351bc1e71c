package repository

import "context"

// CatalogTxRunner ejecuta fn en una transacción con repos de productos y ventas
// atados a ella. Si fn retorna error se hace rollback.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(products ProductRepository, sales SaleRepository) error) error
}
