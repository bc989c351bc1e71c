package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sales-dashboard-api/internal/application/dto"
	"github.com/jhoicas/sales-dashboard-api/internal/application/usecase"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/sales"
)

// Nombres de archivo de las exportaciones.
const (
	CSVExportFilename = "sales_export.csv"
	PDFExportFilename = "sales_report.pdf"
)

// SaleHandler maneja listados, CRUD y exportaciones de ventas.
type SaleHandler struct {
	uc *usecase.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *usecase.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// List godoc
// @Summary      Listar ventas paginadas
// @Description  Filtro opcional por rango de fechas (ambos extremos o ninguno, inclusivo).
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        startDate  query  string  false  "Inicio (2024-01-01T00:00:00)"
// @Param        endDate    query  string  false  "Fin (2024-01-31T23:59:59)"
// @Param        page       query  int     false  "Página base 0"      default(0)
// @Param        size       query  int     false  "Tamaño 1..100"      default(10)
// @Param        sortBy     query  string  false  "Campo de orden"     default(saleDate)
// @Param        sortDir    query  string  false  "ASC o DESC"         default(DESC)
// @Success      200  {object}  dto.SalePageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	q, err := sales.NewQuery(sales.Params{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Page:      c.Query("page"),
		Size:      c.Query("size"),
		SortBy:    c.Query("sortBy"),
		SortDir:   c.Query("sortDir"),
	})
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Datos de la venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar venta
// @Description  Reemplaza todos los campos.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int              true  "ID de la venta"
// @Param        body  body  dto.SaleRequest  true  "Datos de la venta"
// @Success      200   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SaleRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Sale deleted successfully"})
}

// ExportCSV godoc
// @Summary      Exportar ventas a CSV
// @Description  Todas las ventas del rango, sin paginar, más recientes primero.
// @Tags         sales
// @Security     Bearer
// @Produce      text/csv
// @Param        startDate  query  string  false  "Inicio"
// @Param        endDate    query  string  false  "Fin"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sales/export [get]
func (h *SaleHandler) ExportCSV(c *fiber.Ctx) error {
	rng, err := sales.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return writeError(c, err)
	}
	body, err := h.uc.ExportCSV(c.UserContext(), rng)
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(CSVExportFilename)
	c.Set(fiber.HeaderContentType, "text/csv")
	return c.Send(body)
}

// ExportPDF godoc
// @Summary      Reporte de ventas en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        startDate  query  string  false  "Inicio"
// @Param        endDate    query  string  false  "Fin"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sales/export/pdf [get]
func (h *SaleHandler) ExportPDF(c *fiber.Ctx) error {
	rng, err := sales.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return writeError(c, err)
	}
	body, err := h.uc.ExportPDF(c.UserContext(), rng)
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(PDFExportFilename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(body)
}
