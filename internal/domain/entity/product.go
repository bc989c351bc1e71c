package entity

import "github.com/shopspring/decimal"

// Product representa un producto del catálogo. Se reemplaza completo en cada update.
type Product struct {
	ID       int64
	Name     string
	Category string
	Price    decimal.Decimal // precio de lista, > 0
}
