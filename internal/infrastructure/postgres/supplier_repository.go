package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de persistencia para proveedores. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un nuevo proveedor.
func (r *SupplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (id, company_id, name, nit, email, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		supplier.ID, supplier.CompanyID, supplier.Name, supplier.NIT, supplier.Email,
		supplier.Phone, supplier.Active, supplier.CreatedAt, supplier.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	query := `
		SELECT id, company_id, name, nit, email, phone, active, created_at, updated_at
		FROM suppliers WHERE id = $1`
	var s entity.Supplier
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.CompanyID, &s.Name, &s.NIT, &s.Email, &s.Phone, &s.Active,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// Update actualiza un proveedor existente.
func (r *SupplierRepo) Update(ctx context.Context, supplier *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $2, nit = $3, email = $4, phone = $5, active = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		supplier.ID, supplier.Name, supplier.NIT, supplier.Email, supplier.Phone,
		supplier.Active, supplier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}

// ListByCompany lista proveedores por empresa con paginación.
func (r *SupplierRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Supplier, error) {
	query := `
		SELECT id, company_id, name, nit, email, phone, active, created_at, updated_at
		FROM suppliers WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Name, &s.NIT, &s.Email, &s.Phone,
			&s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// UpsertRelation crea o actualiza la relación proveedor-producto. Si la relación
// entra como preferida, primero desmarca cualquier otra preferida del producto
// (máximo una fuente primaria de reorden por producto).
func (r *SupplierRepo) UpsertRelation(ctx context.Context, rel *entity.SupplierProduct) error {
	if rel.IsPreferred {
		_, err := r.q.Exec(ctx,
			`UPDATE supplier_products SET is_preferred = false WHERE product_id = $1 AND is_preferred`,
			rel.ProductID,
		)
		if err != nil {
			return fmt.Errorf("clear preferred supplier: %w", err)
		}
	}
	query := `
		INSERT INTO supplier_products (id, supplier_id, product_id, is_preferred, lead_time_days, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (supplier_id, product_id)
		DO UPDATE SET is_preferred = EXCLUDED.is_preferred, lead_time_days = EXCLUDED.lead_time_days`
	_, err := r.q.Exec(ctx, query,
		rel.ID, rel.SupplierID, rel.ProductID, rel.IsPreferred, rel.LeadTimeDays, rel.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert supplier product: %w", err)
	}
	return nil
}

// ListRelationsByCompany devuelve todas las relaciones proveedor-producto de la
// empresa con el nombre del proveedor resuelto.
func (r *SupplierRepo) ListRelationsByCompany(ctx context.Context, companyID string) ([]repository.SupplierRelation, error) {
	query := `
		SELECT sp.product_id, sp.supplier_id, s.name, sp.is_preferred
		FROM supplier_products sp
		JOIN suppliers s ON s.id = sp.supplier_id
		WHERE s.company_id = $1`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list supplier relations: %w", err)
	}
	defer rows.Close()
	var list []repository.SupplierRelation
	for rows.Next() {
		var rel repository.SupplierRelation
		if err := rows.Scan(&rel.ProductID, &rel.SupplierID, &rel.SupplierName, &rel.IsPreferred); err != nil {
			return nil, fmt.Errorf("scan supplier relation: %w", err)
		}
		list = append(list, rel)
	}
	return list, rows.Err()
}
