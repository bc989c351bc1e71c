package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sales-dashboard-api/internal/application/auth"
	"github.com/jhoicas/sales-dashboard-api/internal/application/usecase"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ProductUC *usecase.ProductUseCase
	SaleUC    *usecase.SaleUseCase
	JWTSecret string
	AppName   string
}

// route fila de la tabla de acceso: método, path y roles que pueden invocarla.
type route struct {
	method  string
	path    string
	roles   []string
	handler fiber.Handler
}

var (
	anyUser   = []string{entity.RoleUser, entity.RoleAdmin}
	adminOnly = []string{entity.RoleAdmin}
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/signin", authHandler.Signin)
	api.Post("/auth/signup", authHandler.Signup)

	for _, r := range protectedRoutes(NewProductHandler(deps.ProductUC), NewSaleHandler(deps.SaleUC)) {
		api.Add(r.method, r.path, AuthMiddleware(deps.JWTSecret), RequireRole(r.roles...), r.handler)
	}
}

// protectedRoutes tabla de rutas protegidas. Las exportaciones van antes de
// /sales/:id para que "export" no se tome como id.
func protectedRoutes(products *ProductHandler, sales *SaleHandler) []route {
	return []route{
		{fiber.MethodGet, "/products", anyUser, products.List},
		{fiber.MethodGet, "/products/:id", anyUser, products.GetByID},
		{fiber.MethodPost, "/products", adminOnly, products.Create},
		{fiber.MethodPut, "/products/:id", adminOnly, products.Update},
		{fiber.MethodDelete, "/products/:id", adminOnly, products.Delete},

		{fiber.MethodGet, "/sales/export", adminOnly, sales.ExportCSV},
		{fiber.MethodGet, "/sales/export/pdf", adminOnly, sales.ExportPDF},
		{fiber.MethodGet, "/sales", anyUser, sales.List},
		{fiber.MethodGet, "/sales/:id", anyUser, sales.GetByID},
		{fiber.MethodPost, "/sales", anyUser, sales.Create},
		{fiber.MethodPut, "/sales/:id", anyUser, sales.Update},
		{fiber.MethodDelete, "/sales/:id", adminOnly, sales.Delete},
	}
}
