package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// El stock nunca se modifica por aquí: solo vía el motor de movimientos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
	// ListBundlesByCompany devuelve los combos activos de la empresa.
	ListBundlesByCompany(ctx context.Context, companyID string) ([]*entity.Product, error)
	// Deactivate aplica borrado suave; los productos con historial nunca se eliminan.
	Deactivate(ctx context.Context, id string) error
}
