package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.BundleRepository = (*BundleRepo)(nil)

// BundleRepo implementación del puerto BundleRepository sobre PostgreSQL.
type BundleRepo struct {
	q Querier
}

// NewBundleRepository construye el adaptador de composición de combos. Pasar pool o tx (Querier).
func NewBundleRepository(q Querier) *BundleRepo {
	return &BundleRepo{q: q}
}

// ReplaceComponents reemplaza la composición completa de un combo
// (DELETE + INSERT en el mismo Querier; atómico si q es una tx).
func (r *BundleRepo) ReplaceComponents(ctx context.Context, bundleID string, components []*entity.BundleComponent) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM bundle_components WHERE bundle_id = $1`, bundleID); err != nil {
		return fmt.Errorf("delete bundle components: %w", err)
	}
	query := `
		INSERT INTO bundle_components (id, bundle_id, component_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	for _, c := range components {
		if _, err := r.q.Exec(ctx, query, c.ID, c.BundleID, c.ComponentID, c.Quantity, c.CreatedAt); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert bundle component: %w", err)
		}
	}
	return nil
}

// ListByBundle devuelve la composición de un combo.
func (r *BundleRepo) ListByBundle(ctx context.Context, bundleID string) ([]*entity.BundleComponent, error) {
	query := `
		SELECT id, bundle_id, component_id, quantity, created_at
		FROM bundle_components WHERE bundle_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, bundleID)
	if err != nil {
		return nil, fmt.Errorf("list bundle components: %w", err)
	}
	defer rows.Close()
	return scanBundleComponents(rows)
}

// ListByCompany carga el grafo de composición completo de la empresa.
func (r *BundleRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.BundleComponent, error) {
	query := `
		SELECT bc.id, bc.bundle_id, bc.component_id, bc.quantity, bc.created_at
		FROM bundle_components bc
		JOIN products p ON p.id = bc.bundle_id
		WHERE p.company_id = $1`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company bundle components: %w", err)
	}
	defer rows.Close()
	return scanBundleComponents(rows)
}

func scanBundleComponents(rows pgx.Rows) ([]*entity.BundleComponent, error) {
	var list []*entity.BundleComponent
	for rows.Next() {
		var c entity.BundleComponent
		if err := rows.Scan(&c.ID, &c.BundleID, &c.ComponentID, &c.Quantity, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bundle component: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
