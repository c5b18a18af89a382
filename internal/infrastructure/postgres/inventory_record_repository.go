package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

// Get obtiene el registro de stock de un producto en una bodega.
// Devuelve nil (sin error) si el par nunca ha tenido movimientos.
func (r *InventoryRecordRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT id, product_id, warehouse_id, quantity, reserved, updated_at
		FROM inventory_records WHERE product_id = $1 AND warehouse_id = $2`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&rec.ID, &rec.ProductID, &rec.WarehouseID, &rec.Quantity, &rec.Reserved, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// GetOrCreateForUpdate localiza o crea la fila del par y la bloquea hasta el fin
// de la transacción. El INSERT .. ON CONFLICT DO NOTHING hace que dos
// transacciones concurrentes sobre un par nuevo converjan en la misma fila en
// lugar de fallar; el SELECT FOR UPDATE posterior serializa el acceso.
func (r *InventoryRecordRepo) GetOrCreateForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, bool, error) {
	insert := `
		INSERT INTO inventory_records (id, product_id, warehouse_id, quantity, reserved, updated_at)
		VALUES ($1, $2, $3, 0, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	cmd, err := r.q.Exec(ctx, insert, uuid.New().String(), productID, warehouseID)
	if err != nil {
		return nil, false, fmt.Errorf("init inventory record: %w", err)
	}
	created := cmd.RowsAffected() == 1

	query := `
		SELECT id, product_id, warehouse_id, quantity, reserved, updated_at
		FROM inventory_records WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var rec entity.InventoryRecord
	err = r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&rec.ID, &rec.ProductID, &rec.WarehouseID, &rec.Quantity, &rec.Reserved, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("lock inventory record: %w", err)
	}
	return &rec, created, nil
}

// Update persiste quantity/reserved de una fila ya bloqueada.
func (r *InventoryRecordRepo) Update(ctx context.Context, rec *entity.InventoryRecord) error {
	query := `
		UPDATE inventory_records SET quantity = $2, reserved = $3, updated_at = $4
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, rec.ID, rec.Quantity, rec.Reserved, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update inventory record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update inventory record: fila %s no existe", rec.ID)
	}
	return nil
}

// ListByWarehouse lista los registros de stock de una bodega con paginación.
func (r *InventoryRecordRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT id, product_id, warehouse_id, quantity, reserved, updated_at
		FROM inventory_records WHERE warehouse_id = $1
		ORDER BY updated_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list records by warehouse: %w", err)
	}
	defer rows.Close()
	return scanInventoryRecords(rows)
}

// ListByCompany devuelve los registros de todas las bodegas activas de la empresa
// (snapshot para el resolver de combos y el motor de alertas).
func (r *InventoryRecordRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ir.id, ir.product_id, ir.warehouse_id, ir.quantity, ir.reserved, ir.updated_at
		FROM inventory_records ir
		JOIN warehouses w ON w.id = ir.warehouse_id
		WHERE w.company_id = $1 AND w.active`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list records by company: %w", err)
	}
	defer rows.Close()
	return scanInventoryRecords(rows)
}

// ListAlertCandidates devuelve el snapshot de stock de la empresa para el motor
// de alertas: solo productos simples activos con umbral configurado, en bodegas activas.
func (r *InventoryRecordRepo) ListAlertCandidates(ctx context.Context, companyID string) ([]repository.AlertCandidate, error) {
	query := `
		SELECT p.id, p.sku, p.name, p.min_stock_level, w.id, w.name, ir.quantity, ir.reserved
		FROM inventory_records ir
		JOIN products p ON p.id = ir.product_id
		JOIN warehouses w ON w.id = ir.warehouse_id
		WHERE p.company_id = $1
		  AND p.active AND NOT p.is_bundle AND p.min_stock_level > 0
		  AND w.active`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list alert candidates: %w", err)
	}
	defer rows.Close()
	var list []repository.AlertCandidate
	for rows.Next() {
		var c repository.AlertCandidate
		if err := rows.Scan(&c.ProductID, &c.SKU, &c.ProductName, &c.MinStockLevel,
			&c.WarehouseID, &c.WarehouseName, &c.Quantity, &c.Reserved); err != nil {
			return nil, fmt.Errorf("scan alert candidate: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanInventoryRecords(rows pgx.Rows) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.WarehouseID,
			&rec.Quantity, &rec.Reserved, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
