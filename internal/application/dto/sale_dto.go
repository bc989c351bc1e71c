package dto

import "github.com/shopspring/decimal"

// SaleRequest entrada para crear o reemplazar una venta (update sin semántica parcial).
type SaleRequest struct {
	ProductID     *int64           `json:"productId" validate:"required"`
	Quantity      *int             `json:"quantity" validate:"required,gt=0,lte=2147483647"`
	TotalAmount   *decimal.Decimal `json:"totalAmount" validate:"required,gt=0"`
	SaleDate      *LocalDateTime   `json:"saleDate" validate:"required"`
	CustomerName  string           `json:"customerName"`
	Region        string           `json:"region"`
	PaymentMethod string           `json:"paymentMethod"`
}

// SaleResponse vista desnormalizada de una venta.
type SaleResponse struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductCategory string          `json:"productCategory"`
	Quantity        int             `json:"quantity"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	SaleDate        LocalDateTime   `json:"saleDate"`
	CustomerName    string          `json:"customerName"`
	Region          string          `json:"region"`
	PaymentMethod   string          `json:"paymentMethod"`
}

// SalePageResponse página de ventas.
type SalePageResponse struct {
	Content []SaleResponse `json:"content"`
	PageResponse
}
