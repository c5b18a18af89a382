package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// BundleRepository define el puerto de persistencia para la composición de combos.
type BundleRepository interface {
	// ReplaceComponents reemplaza la composición completa de un combo.
	// El caller valida antes la ausencia de ciclos (ProductUseCase).
	ReplaceComponents(ctx context.Context, bundleID string, components []*entity.BundleComponent) error
	ListByBundle(ctx context.Context, bundleID string) ([]*entity.BundleComponent, error)
	// ListByCompany carga el grafo de composición completo de la empresa,
	// para resolver combos anidados y detectar ciclos en memoria.
	ListByCompany(ctx context.Context, companyID string) ([]*entity.BundleComponent, error)
}
