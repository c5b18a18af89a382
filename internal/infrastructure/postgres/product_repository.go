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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, company_id, sku, name, description, price, is_bundle, min_stock_level, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.CompanyID, product.SKU, product.Name, product.Description,
		product.Price, product.IsBundle, product.MinStockLevel, product.Active,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, company_id, sku, name, description, price, is_bundle, min_stock_level, active, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Description, &p.Price,
		&p.IsBundle, &p.MinStockLevel, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetByCompanyAndSKU obtiene un producto por empresa y SKU.
func (r *ProductRepo) GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error) {
	query := `
		SELECT id, company_id, sku, name, description, price, is_bundle, min_stock_level, active, created_at, updated_at
		FROM products WHERE company_id = $1 AND sku = $2`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, companyID, sku).Scan(
		&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Description, &p.Price,
		&p.IsBundle, &p.MinStockLevel, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return &p, nil
}

// Update actualiza un producto existente. SKU e is_bundle son inmutables;
// el stock nunca se toca por aquí (solo vía el motor de movimientos).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, min_stock_level = $5, active = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price,
		product.MinStockLevel, product.Active, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// ListByCompany lista productos por empresa con paginación.
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT id, company_id, sku, name, description, price, is_bundle, min_stock_level, active, created_at, updated_at
		FROM products WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListBundlesByCompany devuelve los combos activos de la empresa.
func (r *ProductRepo) ListBundlesByCompany(ctx context.Context, companyID string) ([]*entity.Product, error) {
	query := `
		SELECT id, company_id, sku, name, description, price, is_bundle, min_stock_level, active, created_at, updated_at
		FROM products WHERE company_id = $1 AND is_bundle AND active ORDER BY sku`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Deactivate aplica borrado suave.
func (r *ProductRepo) Deactivate(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Description, &p.Price,
			&p.IsBundle, &p.MinStockLevel, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
