package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores y su relación con productos.
type SupplierUseCase struct {
	repo        repository.SupplierRepository
	productRepo repository.ProductRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, productRepo repository.ProductRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, productRepo: productRepo}
}

// Create crea un proveedor activo.
func (uc *SupplierUseCase) Create(ctx context.Context, companyID string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		NIT:       in.NIT,
		Email:     in.Email,
		Phone:     in.Phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// GetByID obtiene un proveedor de la empresa.
func (uc *SupplierUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(supplier), nil
}

// List lista proveedores de la empresa con paginación.
func (uc *SupplierUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) ([]*dto.SupplierResponse, error) {
	page.DefaultPage()
	suppliers, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

// LinkProduct asocia el proveedor con un producto que surte. Marcarlo como
// preferido lo convierte en la fuente primaria de reorden del producto
// (cualquier otra relación preferida se desmarca).
func (uc *SupplierUseCase) LinkProduct(ctx context.Context, companyID, supplierID string, in dto.LinkSupplierProductRequest) error {
	supplier, err := uc.repo.GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if supplier == nil || supplier.CompanyID != companyID {
		return domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return err
	}
	if product == nil || product.CompanyID != companyID {
		return domain.ErrNotFound
	}
	if in.LeadTimeDays < 0 {
		return domain.ErrInvalidInput
	}
	return uc.repo.UpsertRelation(ctx, &entity.SupplierProduct{
		ID:           uuid.New().String(),
		SupplierID:   supplierID,
		ProductID:    in.ProductID,
		IsPreferred:  in.IsPreferred,
		LeadTimeDays: in.LeadTimeDays,
		CreatedAt:    time.Now(),
	})
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID,
		CompanyID: s.CompanyID,
		Name:      s.Name,
		NIT:       s.NIT,
		Email:     s.Email,
		Phone:     s.Phone,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
