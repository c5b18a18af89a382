package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// SupplierRelation es la fila cruda de la relación proveedor-producto con el
// nombre del proveedor ya resuelto (para la política de proveedor en alertas).
type SupplierRelation struct {
	ProductID    string
	SupplierID   string
	SupplierName string
	IsPreferred  bool
}

// SupplierRepository define el puerto de persistencia para Supplier y sus relaciones.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Supplier, error)
	// UpsertRelation crea o actualiza la relación proveedor-producto.
	// Si rel.IsPreferred es true, desmarca cualquier otra relación preferida del producto.
	UpsertRelation(ctx context.Context, rel *entity.SupplierProduct) error
	// ListRelationsByCompany devuelve todas las relaciones de la empresa.
	ListRelationsByCompany(ctx context.Context, companyID string) ([]SupplierRelation, error)
}
