package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos y composición de combos.
// El stock se maneja exclusivamente vía el motor de movimientos.
type ProductUseCase struct {
	repo       repository.ProductRepository
	bundleRepo repository.BundleRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, bundleRepo repository.BundleRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, bundleRepo: bundleRepo}
}

// Create crea un producto. SKU único por empresa; precio y umbral no negativos.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) || in.MinStockLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCompanyAndSKU(ctx, companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		IsBundle:      in.IsBundle,
		MinStockLevel: in.MinStockLevel,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la empresa.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. SKU e IsBundle son inmutables.
func (uc *ProductUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.MinStockLevel != nil {
		if *in.MinStockLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinStockLevel = *in.MinStockLevel
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos de la empresa con paginación.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Deactivate aplica borrado suave (los productos con historial nunca se eliminan).
func (uc *ProductUseCase) Deactivate(ctx context.Context, companyID, id string) error {
	if _, err := uc.getOwned(ctx, companyID, id); err != nil {
		return err
	}
	return uc.repo.Deactivate(ctx, id)
}

// SetBundleComponents reemplaza la composición de un combo. La integridad
// estructural se garantiza aquí, en tiempo de escritura: sin auto-referencia y
// sin ciclos transitivos (un combo no puede contenerse a sí mismo a través de
// otros combos), porque no es expresable como constraint de fila.
func (uc *ProductUseCase) SetBundleComponents(ctx context.Context, companyID, bundleID string, in dto.SetBundleComponentsRequest) error {
	bundle, err := uc.getOwned(ctx, companyID, bundleID)
	if err != nil {
		return err
	}
	if !bundle.IsBundle {
		return domain.ErrInvalidInput
	}

	now := time.Now()
	seen := make(map[string]bool, len(in.Components))
	components := make([]*entity.BundleComponent, 0, len(in.Components))
	for _, c := range in.Components {
		if c.ComponentID == "" || c.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		if c.ComponentID == bundleID {
			return domain.ErrBundleCycle
		}
		if seen[c.ComponentID] {
			return domain.ErrDuplicate
		}
		seen[c.ComponentID] = true
		if _, err := uc.getOwned(ctx, companyID, c.ComponentID); err != nil {
			return err
		}
		components = append(components, &entity.BundleComponent{
			ID:          uuid.New().String(),
			BundleID:    bundleID,
			ComponentID: c.ComponentID,
			Quantity:    c.Quantity,
			CreatedAt:   now,
		})
	}

	if err := uc.checkNoCycle(ctx, companyID, bundleID, components); err != nil {
		return err
	}
	return uc.bundleRepo.ReplaceComponents(ctx, bundleID, components)
}

// ListBundleComponents devuelve la composición actual de un combo.
func (uc *ProductUseCase) ListBundleComponents(ctx context.Context, companyID, bundleID string) ([]dto.BundleComponentDTO, error) {
	if _, err := uc.getOwned(ctx, companyID, bundleID); err != nil {
		return nil, err
	}
	lines, err := uc.bundleRepo.ListByBundle(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BundleComponentDTO, 0, len(lines))
	for _, l := range lines {
		item := dto.BundleComponentDTO{ComponentID: l.ComponentID, Quantity: l.Quantity}
		if p, err := uc.repo.GetByID(ctx, l.ComponentID); err == nil && p != nil {
			item.SKU = p.SKU
			item.Name = p.Name
		}
		out = append(out, item)
	}
	return out, nil
}

// checkNoCycle hace DFS sobre el grafo de composición de la empresa con la
// composición propuesta ya sustituida, buscando un camino de vuelta al combo.
func (uc *ProductUseCase) checkNoCycle(ctx context.Context, companyID, bundleID string, proposed []*entity.BundleComponent) error {
	existing, err := uc.bundleRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	graph := make(map[string][]string)
	for _, l := range existing {
		if l.BundleID == bundleID {
			continue // sustituido por la composición propuesta
		}
		graph[l.BundleID] = append(graph[l.BundleID], l.ComponentID)
	}
	for _, c := range proposed {
		graph[bundleID] = append(graph[bundleID], c.ComponentID)
	}

	visited := make(map[string]bool)
	var visit func(id string) bool
	visit = func(id string) bool {
		if id == bundleID {
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		for _, next := range graph[id] {
			if visit(next) {
				return true
			}
		}
		return false
	}
	for _, next := range graph[bundleID] {
		if visit(next) {
			return domain.ErrBundleCycle
		}
	}
	return nil
}

func (uc *ProductUseCase) getOwned(ctx context.Context, companyID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		IsBundle:      p.IsBundle,
		MinStockLevel: p.MinStockLevel,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
