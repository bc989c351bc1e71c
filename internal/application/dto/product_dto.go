package dto

import "github.com/shopspring/decimal"

// ProductRequest entrada para crear o reemplazar un producto.
type ProductRequest struct {
	Name     string           `json:"name" validate:"required"`
	Category string           `json:"category" validate:"required"`
	Price    *decimal.Decimal `json:"price" validate:"required,gt=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}
