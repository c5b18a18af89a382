package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.InventoryEventRepository = (*InventoryEventRepo)(nil)

// InventoryEventRepo implementación del ledger de eventos sobre PostgreSQL
// (usable con pool o tx). Append-only: solo INSERT y SELECT.
type InventoryEventRepo struct {
	q Querier
}

// NewInventoryEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryEventRepository(q Querier) *InventoryEventRepo {
	return &InventoryEventRepo{q: q}
}

// Create persiste un evento de inventario.
func (r *InventoryEventRepo) Create(ctx context.Context, event *entity.InventoryEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_events (id, record_id, transaction_id, product_id, warehouse_id, type, before_qty, delta, after_qty, reference, supplier_id, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	createdBy := (*string)(nil)
	if event.CreatedBy != "" {
		createdBy = &event.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		event.ID, event.RecordID, event.TransactionID, event.ProductID, event.WarehouseID,
		event.Type, event.Before, event.Delta, event.After, event.Reference,
		event.SupplierID, event.Date, event.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create inventory event: %w", err)
	}
	return nil
}

// GetByID obtiene un evento por ID.
func (r *InventoryEventRepo) GetByID(ctx context.Context, id string) (*entity.InventoryEvent, error) {
	query := `
		SELECT id, record_id, transaction_id, product_id, warehouse_id, type, before_qty, delta, after_qty, reference, supplier_id, date, created_at, created_by
		FROM inventory_events WHERE id = $1`
	var e entity.InventoryEvent
	var createdBy *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.RecordID, &e.TransactionID, &e.ProductID, &e.WarehouseID, &e.Type,
		&e.Before, &e.Delta, &e.After, &e.Reference, &e.SupplierID, &e.Date, &e.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory event: %w", err)
	}
	if createdBy != nil {
		e.CreatedBy = *createdBy
	}
	return &e, nil
}

// ListByProduct lista eventos de un producto en un rango de fechas.
func (r *InventoryEventRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryEvent, error) {
	return r.listBy(ctx, "product_id", productID, from, to, limit, offset)
}

// ListByWarehouse lista eventos de una bodega en un rango de fechas.
func (r *InventoryEventRepo) ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryEvent, error) {
	return r.listBy(ctx, "warehouse_id", warehouseID, from, to, limit, offset)
}

func (r *InventoryEventRepo) listBy(ctx context.Context, column, value string, from, to *time.Time, limit, offset int) ([]*entity.InventoryEvent, error) {
	query := fmt.Sprintf(`
		SELECT id, record_id, transaction_id, product_id, warehouse_id, type, before_qty, delta, after_qty, reference, supplier_id, date, created_at, created_by
		FROM inventory_events WHERE %s = $1`, column)
	args := []any{value}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events by %s: %w", column, err)
	}
	defer rows.Close()
	var list []*entity.InventoryEvent
	for rows.Next() {
		var e entity.InventoryEvent
		var createdBy *string
		if err := rows.Scan(&e.ID, &e.RecordID, &e.TransactionID, &e.ProductID, &e.WarehouseID, &e.Type,
			&e.Before, &e.Delta, &e.After, &e.Reference, &e.SupplierID, &e.Date, &e.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan inventory event: %w", err)
		}
		if createdBy != nil {
			e.CreatedBy = *createdBy
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// SaleTotalsSince agrega las unidades vendidas (valor absoluto de deltas SALE)
// por par (producto, bodega) desde la fecha dada. Solo bodegas activas.
func (r *InventoryEventRepo) SaleTotalsSince(ctx context.Context, companyID string, since time.Time) ([]repository.SaleTotal, error) {
	query := `
		SELECT e.product_id, e.warehouse_id, COALESCE(SUM(ABS(e.delta)), 0)
		FROM inventory_events e
		JOIN warehouses w ON w.id = e.warehouse_id
		WHERE w.company_id = $1 AND w.active AND e.type = $2 AND e.date >= $3
		GROUP BY e.product_id, e.warehouse_id`
	rows, err := r.q.Query(ctx, query, companyID, entity.ChangeTypeSale, since)
	if err != nil {
		return nil, fmt.Errorf("sale totals: %w", err)
	}
	defer rows.Close()
	var list []repository.SaleTotal
	for rows.Next() {
		var t repository.SaleTotal
		if err := rows.Scan(&t.ProductID, &t.WarehouseID, &t.Units); err != nil {
			return nil, fmt.Errorf("scan sale total: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// LastRestockSuppliers devuelve el proveedor del RESTOCK más reciente por par
// (producto, bodega), ignorando restocks sin procedencia.
func (r *InventoryEventRepo) LastRestockSuppliers(ctx context.Context, companyID string) ([]repository.RestockProvenance, error) {
	query := `
		SELECT DISTINCT ON (e.product_id, e.warehouse_id)
		       e.product_id, e.warehouse_id, s.id, s.name, e.date
		FROM inventory_events e
		JOIN warehouses w ON w.id = e.warehouse_id
		JOIN suppliers s ON s.id = e.supplier_id
		WHERE w.company_id = $1 AND e.type = $2 AND e.supplier_id IS NOT NULL
		ORDER BY e.product_id, e.warehouse_id, e.date DESC, e.created_at DESC`
	rows, err := r.q.Query(ctx, query, companyID, entity.ChangeTypeRestock)
	if err != nil {
		return nil, fmt.Errorf("last restock suppliers: %w", err)
	}
	defer rows.Close()
	var list []repository.RestockProvenance
	for rows.Next() {
		var p repository.RestockProvenance
		if err := rows.Scan(&p.ProductID, &p.WarehouseID, &p.SupplierID, &p.SupplierName, &p.Date); err != nil {
			return nil, fmt.Errorf("scan restock provenance: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
