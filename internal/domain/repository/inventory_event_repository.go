package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// SaleTotal agrega las unidades vendidas (valor absoluto de deltas SALE)
// por par (producto, bodega) dentro de la ventana de análisis.
type SaleTotal struct {
	ProductID   string
	WarehouseID string
	Units       int64
}

// RestockProvenance es el proveedor del RESTOCK más reciente de un par
// (producto, bodega), para el fallback de la política de proveedor.
type RestockProvenance struct {
	ProductID    string
	WarehouseID  string
	SupplierID   string
	SupplierName string
	Date         time.Time
}

// InventoryEventRepository define el puerto de persistencia del ledger de
// eventos. Append-only: no hay Update ni Delete.
type InventoryEventRepository interface {
	Create(ctx context.Context, event *entity.InventoryEvent) error
	GetByID(ctx context.Context, id string) (*entity.InventoryEvent, error)
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryEvent, error)
	ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryEvent, error)
	// SaleTotalsSince agrega ventas por par desde la fecha dada (lectura de snapshot).
	SaleTotalsSince(ctx context.Context, companyID string, since time.Time) ([]SaleTotal, error)
	// LastRestockSuppliers devuelve la procedencia del último RESTOCK por par.
	LastRestockSuppliers(ctx context.Context, companyID string) ([]RestockProvenance, error)
}
