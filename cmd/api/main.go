package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jhoicas/Kardex-api/docs"
	"github.com/jhoicas/Kardex-api/internal/application/auth"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Kardex-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Kardex-api/internal/interfaces/http"
	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	bundleRepo := postgres.NewBundleRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	recordRepo := postgres.NewInventoryRecordRepository(pool)
	eventRepo := postgres.NewInventoryEventRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	applyChangeUC := inventory.NewApplyChangeUseCase(txRunner, productRepo, warehouseRepo, bundleRepo, inventory.EngineConfig{
		AllowCorrection: cfg.Inventory.AllowCorrection,
		MaxBundleDepth:  cfg.Inventory.MaxBundleDepth,
	})
	historyUC := inventory.NewHistoryUseCase(eventRepo, recordRepo, productRepo, warehouseRepo)
	bundleResolver := inventory.NewBundleResolver(productRepo, bundleRepo, recordRepo, cfg.Inventory.MaxBundleDepth)
	alertsUC := inventory.NewLowStockAlertUseCase(
		companyRepo, warehouseRepo, productRepo, bundleRepo, recordRepo, eventRepo, supplierRepo,
		inventory.AlertConfig{
			WindowDays:     cfg.Alerts.WindowDays,
			Inclusive:      cfg.Alerts.Inclusive,
			MaxBundleDepth: cfg.Inventory.MaxBundleDepth,
		},
	)

	// PDF: reporte imprimible de alertas de stock bajo
	reportGenerator := infrapdf.NewMarotoReportGenerator()
	alertReportUC := inventory.NewAlertReportUseCase(alertsUC, companyRepo, reportGenerator)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo, bundleRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, productRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:      companyUC,
		WarehouseUC:    warehouseUC,
		ProductUC:      productUC,
		SupplierUC:     supplierUC,
		ApplyChange:    applyChangeUC,
		History:        historyUC,
		BundleResolver: bundleResolver,
		Alerts:         alertsUC,
		AlertReport:    alertReportUC,
		AuthUC:         authUC,
		JWTSecret:      cfg.JWT.Secret,
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
