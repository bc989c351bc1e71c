package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sales-dashboard-api/docs"
	"github.com/jhoicas/sales-dashboard-api/internal/application/auth"
	"github.com/jhoicas/sales-dashboard-api/internal/application/seed"
	"github.com/jhoicas/sales-dashboard-api/internal/application/usecase"
	"github.com/jhoicas/sales-dashboard-api/internal/infrastructure/csvexport"
	infrapdf "github.com/jhoicas/sales-dashboard-api/internal/infrastructure/pdf"
	"github.com/jhoicas/sales-dashboard-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/sales-dashboard-api/internal/interfaces/http"
	"github.com/jhoicas/sales-dashboard-api/pkg/config"
	"github.com/jhoicas/sales-dashboard-api/pkg/logger"
)

// @title                       Sales Dashboard API
// @version                     1.0
// @description                 API de administración del dashboard de ventas: productos, ventas, filtros por fecha y exportaciones.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	// Montos como número JSON (899.99), no como string.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer repos.Close()

	if cfg.App.SeedDemoData {
		seeder := seed.NewDemoSeeder(repos.Users, repos.Products, repos.Tx, log.Named("seed"))
		if err := seeder.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("sembrar datos demo")
		}
	}

	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(repos.Products, repos.Tx)
	saleUC := usecase.NewSaleUseCase(
		repos.Sales, repos.Products,
		csvexport.NewSalesWriter(),
		infrapdf.NewMarotoSalesReport(cfg.App.Name+" - Sales Report"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + httpRouter.HeaderRequestID,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		ExposeHeaders:    "Content-Disposition, " + httpRouter.HeaderRequestID,
		AllowCredentials: true,
		MaxAge:           3600,
	}))
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ProductUC: productUC,
		SaleUC:    saleUC,
		JWTSecret: cfg.JWT.Secret,
		AppName:   cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
