package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/sales-dashboard-api/internal/application/dto"
	"github.com/jhoicas/sales-dashboard-api/internal/application/ports"
	"github.com/jhoicas/sales-dashboard-api/internal/domain"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/sales"
)

const saleEntity = "Sale"

// SaleUseCase consulta, escritura y exportación de ventas. Cada lectura se
// desnormaliza resolviendo el producto referenciado (ProductRepository.GetByIDs).
type SaleUseCase struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	csv      ports.SalesCSVWriter
	pdf      ports.SalesPDFGenerator
	now      func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	csv ports.SalesCSVWriter,
	pdf ports.SalesPDFGenerator,
) *SaleUseCase {
	return &SaleUseCase{
		sales:    saleRepo,
		products: productRepo,
		csv:      csv,
		pdf:      pdf,
		now:      time.Now,
	}
}

// List devuelve una página de ventas filtrada, ordenada y desnormalizada.
func (uc *SaleUseCase) List(ctx context.Context, q sales.Query) (*dto.SalePageResponse, error) {
	list, total, err := uc.sales.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listar ventas: %w", err)
	}
	views, err := uc.denormalize(ctx, list)
	if err != nil {
		return nil, err
	}
	content := make([]dto.SaleResponse, 0, len(views))
	for _, v := range views {
		content = append(content, toSaleResponse(v))
	}
	return &dto.SalePageResponse{
		Content:      content,
		PageResponse: dto.NewPageResponse(total, q.Page, q.Size, len(content)),
	}, nil
}

// GetByID obtiene una venta desnormalizada. NotFound si no existe.
func (uc *SaleUseCase) GetByID(ctx context.Context, id int64) (*dto.SaleResponse, error) {
	s, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener venta: %w", err)
	}
	if s == nil {
		return nil, domain.NotFound(saleEntity, id)
	}
	p, err := uc.products.GetByID(ctx, s.ProductID)
	if err != nil {
		return nil, fmt.Errorf("obtener venta: producto: %w", err)
	}
	out := toSaleResponse(entity.NewSaleView(s, p))
	return &out, nil
}

// Create valida que el producto exista y persiste la venta con los datos del caller.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.SaleRequest) (*dto.SaleResponse, error) {
	p, err := uc.lookupProduct(ctx, *in.ProductID)
	if err != nil {
		return nil, err
	}
	s := saleFromRequest(in)
	if err := uc.sales.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("crear venta: %w", err)
	}
	out := toSaleResponse(entity.NewSaleView(s, p))
	return &out, nil
}

// Update reemplaza todos los campos de la venta. NotFound si la venta o el producto no existen.
func (uc *SaleUseCase) Update(ctx context.Context, id int64, in dto.SaleRequest) (*dto.SaleResponse, error) {
	existing, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("actualizar venta: %w", err)
	}
	if existing == nil {
		return nil, domain.NotFound(saleEntity, id)
	}
	p, err := uc.lookupProduct(ctx, *in.ProductID)
	if err != nil {
		return nil, err
	}
	s := saleFromRequest(in)
	s.ID = id
	if err := uc.sales.Update(ctx, s); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(saleEntity, id)
		}
		return nil, fmt.Errorf("actualizar venta: %w", err)
	}
	out := toSaleResponse(entity.NewSaleView(s, p))
	return &out, nil
}

// Delete elimina una venta. NotFound si no existe (un segundo delete también).
func (uc *SaleUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.sales.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(saleEntity, id)
		}
		return fmt.Errorf("eliminar venta: %w", err)
	}
	return nil
}

// ExportCSV serializa todas las ventas del rango (sin paginar) a CSV.
func (uc *SaleUseCase) ExportCSV(ctx context.Context, rng *sales.DateRange) ([]byte, error) {
	views, err := uc.exportSet(ctx, rng)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := uc.csv.WriteSales(&buf, views); err != nil {
		return nil, fmt.Errorf("%w: csv: %v", domain.ErrExport, err)
	}
	return buf.Bytes(), nil
}

// ExportPDF genera el reporte PDF del mismo conjunto que ExportCSV.
func (uc *SaleUseCase) ExportPDF(ctx context.Context, rng *sales.DateRange) ([]byte, error) {
	views, err := uc.exportSet(ctx, rng)
	if err != nil {
		return nil, err
	}
	doc, err := uc.pdf.GenerateSalesReport(ctx, ports.SalesReport{
		Range:       rng,
		Sales:       views,
		GeneratedAt: uc.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: pdf: %v", domain.ErrExport, err)
	}
	return doc, nil
}

func (uc *SaleUseCase) exportSet(ctx context.Context, rng *sales.DateRange) ([]entity.SaleView, error) {
	list, err := uc.sales.FindAll(ctx, rng, sales.DefaultSort)
	if err != nil {
		return nil, fmt.Errorf("exportar ventas: %w", err)
	}
	return uc.denormalize(ctx, list)
}

// lookupProduct resuelve el producto referenciado; NotFound si no existe.
func (uc *SaleUseCase) lookupProduct(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buscar producto: %w", err)
	}
	if p == nil {
		return nil, domain.NotFound(productEntity, id)
	}
	return p, nil
}

// denormalize resuelve los productos de todas las ventas en una sola consulta.
func (uc *SaleUseCase) denormalize(ctx context.Context, list []*entity.Sale) ([]entity.SaleView, error) {
	if len(list) == 0 {
		return []entity.SaleView{}, nil
	}
	seen := make(map[int64]struct{}, len(list))
	ids := make([]int64, 0, len(list))
	for _, s := range list {
		if _, ok := seen[s.ProductID]; !ok {
			seen[s.ProductID] = struct{}{}
			ids = append(ids, s.ProductID)
		}
	}
	byID, err := uc.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolver productos: %w", err)
	}
	views := make([]entity.SaleView, 0, len(list))
	for _, s := range list {
		views = append(views, entity.NewSaleView(s, byID[s.ProductID]))
	}
	return views, nil
}

func saleFromRequest(in dto.SaleRequest) *entity.Sale {
	return &entity.Sale{
		ProductID:     *in.ProductID,
		Quantity:      *in.Quantity,
		TotalAmount:   *in.TotalAmount,
		SaleDate:      in.SaleDate.UTC(),
		CustomerName:  in.CustomerName,
		Region:        in.Region,
		PaymentMethod: in.PaymentMethod,
	}
}

func toSaleResponse(v entity.SaleView) dto.SaleResponse {
	return dto.SaleResponse{
		ID:              v.ID,
		ProductID:       v.ProductID,
		ProductName:     v.ProductName,
		ProductCategory: v.ProductCategory,
		Quantity:        v.Quantity,
		TotalAmount:     v.TotalAmount,
		SaleDate:        dto.NewLocalDateTime(v.SaleDate),
		CustomerName:    v.CustomerName,
		Region:          v.Region,
		PaymentMethod:   v.PaymentMethod,
	}
}
