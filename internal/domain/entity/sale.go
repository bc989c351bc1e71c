package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta. Referencia un Product por ProductID sin poseerlo;
// TotalAmount lo informa el caller y no se deriva de Price × Quantity.
type Sale struct {
	ID            int64
	ProductID     int64
	Quantity      int             // > 0
	TotalAmount   decimal.Decimal // > 0
	SaleDate      time.Time       // hora local sin zona, se maneja en UTC
	CustomerName  string
	Region        string
	PaymentMethod string
}

// SaleView es la venta desnormalizada con nombre y categoría del producto.
// Se construye en lectura; nunca se persiste.
type SaleView struct {
	Sale
	ProductName     string
	ProductCategory string
}

// NewSaleView une una venta con su producto. product puede ser nil si la
// referencia quedó huérfana; en ese caso los campos del producto quedan vacíos.
func NewSaleView(s *Sale, product *Product) SaleView {
	v := SaleView{Sale: *s}
	if product != nil {
		v.ProductName = product.Name
		v.ProductCategory = product.Category
	}
	return v
}
