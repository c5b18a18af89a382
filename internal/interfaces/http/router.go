package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/auth"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC      *usecase.CompanyUseCase
	WarehouseUC    *usecase.WarehouseUseCase
	ProductUC      *usecase.ProductUseCase
	SupplierUC     *usecase.SupplierUseCase
	ApplyChange    *inventory.ApplyChangeUseCase
	History        *inventory.HistoryUseCase
	BundleResolver *inventory.BundleResolver
	Alerts         *inventory.LowStockAlertUseCase
	AlertReport    *inventory.AlertReportUseCase
	AuthUC         *auth.AuthUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies: creación y listado público (alta inicial); alertas protegidas
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	alertHandler := NewAlertHandler(deps.Alerts, deps.AlertReport)
	companies.Get("/:id/alerts/low-stock", AuthMiddleware(deps.JWTSecret), alertHandler.LowStock)
	companies.Get("/:id/alerts/low-stock/pdf", AuthMiddleware(deps.JWTSecret), alertHandler.LowStockPDF)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)

	// Products y composición de combos (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.BundleResolver)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Deactivate)
	products.Put("/:id/components", productHandler.SetComponents)
	products.Get("/:id/components", productHandler.ListComponents)
	products.Get("/:id/availability", productHandler.GetAvailability)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/:id/products", supplierHandler.LinkProduct)

	// Ledger de inventario (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.ApplyChange, deps.History)
	invGroup.Post("/changes", inventoryHandler.RecordChange)
	invGroup.Get("/products/:id/events", inventoryHandler.ListEventsByProduct)
	invGroup.Get("/warehouses/:id/events", inventoryHandler.ListEventsByWarehouse)
	invGroup.Get("/warehouses/:id/records", inventoryHandler.ListRecordsByWarehouse)
}
