package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// AlertCandidate es la fila cruda para el motor de alertas: registro de stock
// con los datos del producto y la bodega ya unidos. Solo productos activos con
// umbral configurado y bodegas activas.
type AlertCandidate struct {
	ProductID     string
	SKU           string
	ProductName   string
	MinStockLevel int64
	WarehouseID   string
	WarehouseName string
	Quantity      int64
	Reserved      int64
}

// InventoryRecordRepository define el puerto para el registro de stock por
// (producto, bodega). Usado dentro de transacciones para garantizar consistencia.
type InventoryRecordRepository interface {
	Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error)
	// GetOrCreateForUpdate localiza o crea la fila y la bloquea (SELECT FOR UPDATE).
	// created indica si la fila se creó en esta llamada (primer movimiento del par).
	GetOrCreateForUpdate(ctx context.Context, productID, warehouseID string) (rec *entity.InventoryRecord, created bool, err error)
	// Update persiste quantity/reserved de una fila ya bloqueada.
	Update(ctx context.Context, rec *entity.InventoryRecord) error
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryRecord, error)
	// ListByCompany devuelve todos los registros de las bodegas activas de la
	// empresa (snapshot para el resolver de combos y el motor de alertas).
	ListByCompany(ctx context.Context, companyID string) ([]*entity.InventoryRecord, error)
	// ListAlertCandidates devuelve el snapshot de stock de la empresa para alertas.
	ListAlertCandidates(ctx context.Context, companyID string) ([]AlertCandidate, error)
}
