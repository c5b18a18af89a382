package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos para el CRUD de productos y composición
// ──────────────────────────────────────────────────────────────────────────────

type productStore struct {
	products   map[string]*entity.Product
	components []*entity.BundleComponent
}

type stubProductRepo struct{ s *productStore }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func (r *stubProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}
func (r *stubProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *stubProductRepo) GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *stubProductRepo) Update(ctx context.Context, p *entity.Product) error { return nil }
func (r *stubProductRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *stubProductRepo) ListBundlesByCompany(ctx context.Context, companyID string) ([]*entity.Product, error) {
	return nil, nil
}
func (r *stubProductRepo) Deactivate(ctx context.Context, id string) error {
	if p, ok := r.s.products[id]; ok {
		p.Active = false
	}
	return nil
}

type stubBundleRepo struct{ s *productStore }

var _ repository.BundleRepository = (*stubBundleRepo)(nil)

func (r *stubBundleRepo) ReplaceComponents(ctx context.Context, bundleID string, components []*entity.BundleComponent) error {
	kept := r.s.components[:0:0]
	for _, c := range r.s.components {
		if c.BundleID != bundleID {
			kept = append(kept, c)
		}
	}
	r.s.components = append(kept, components...)
	return nil
}
func (r *stubBundleRepo) ListByBundle(ctx context.Context, bundleID string) ([]*entity.BundleComponent, error) {
	var out []*entity.BundleComponent
	for _, c := range r.s.components {
		if c.BundleID == bundleID {
			out = append(out, c)
		}
	}
	return out, nil
}
func (r *stubBundleRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.BundleComponent, error) {
	return r.s.components, nil
}

func newProductUC() (*usecase.ProductUseCase, *productStore) {
	s := &productStore{products: make(map[string]*entity.Product)}
	return usecase.NewProductUseCase(&stubProductRepo{s: s}, &stubBundleRepo{s: s}), s
}

func (s *productStore) add(id string, isBundle bool) {
	s.products[id] = &entity.Product{
		ID: id, CompanyID: "co1", SKU: "SKU-" + id, Name: id,
		IsBundle: isBundle, Active: true,
	}
}

func (s *productStore) link(bundleID, componentID string, qty int64) {
	s.components = append(s.components, &entity.BundleComponent{
		BundleID: bundleID, ComponentID: componentID, Quantity: qty,
	})
}

func lines(pairs ...dto.BundleComponentInput) dto.SetBundleComponentsRequest {
	return dto.SetBundleComponentsRequest{Components: pairs}
}

// ──────────────────────────────────────────────────────────────────────────────
// SetBundleComponents — validación estructural
// ──────────────────────────────────────────────────────────────────────────────

func TestSetBundleComponents_ComposicionValida(t *testing.T) {
	uc, s := newProductUC()
	s.add("combo", true)
	s.add("a", false)
	s.add("b", false)

	err := uc.SetBundleComponents(context.Background(), "co1", "combo", lines(
		dto.BundleComponentInput{ComponentID: "a", Quantity: 2},
		dto.BundleComponentInput{ComponentID: "b", Quantity: 1},
	))
	require.NoError(t, err)
	assert.Len(t, s.components, 2)
}

func TestSetBundleComponents_AutoReferenciaEsCiclo(t *testing.T) {
	uc, s := newProductUC()
	s.add("combo", true)

	err := uc.SetBundleComponents(context.Background(), "co1", "combo", lines(
		dto.BundleComponentInput{ComponentID: "combo", Quantity: 1},
	))
	assert.ErrorIs(t, err, domain.ErrBundleCycle)
}

// Ciclo transitivo: x contiene y, y contiene z; definir z ⊃ x cerraría el ciclo.
func TestSetBundleComponents_CicloTransitivoRechazado(t *testing.T) {
	uc, s := newProductUC()
	s.add("x", true)
	s.add("y", true)
	s.add("z", true)
	s.add("hoja", false)
	s.link("x", "y", 1)
	s.link("y", "z", 1)

	err := uc.SetBundleComponents(context.Background(), "co1", "z", lines(
		dto.BundleComponentInput{ComponentID: "x", Quantity: 1},
	))
	assert.ErrorIs(t, err, domain.ErrBundleCycle)

	// La misma escritura sin el eslabón de vuelta sí pasa.
	err = uc.SetBundleComponents(context.Background(), "co1", "z", lines(
		dto.BundleComponentInput{ComponentID: "hoja", Quantity: 1},
	))
	assert.NoError(t, err)
}

// El chequeo corre contra la composición PROPUESTA: reemplazar una composición
// que participaba en un camino elimina ese camino del grafo.
func TestSetBundleComponents_ReemplazoRompeElCamino(t *testing.T) {
	uc, s := newProductUC()
	s.add("x", true)
	s.add("y", true)
	s.add("hoja", false)
	s.link("x", "y", 1)

	// x ⊃ y existe; redefinir x como {hoja} y luego y ⊃ x debe ser legal.
	err := uc.SetBundleComponents(context.Background(), "co1", "x", lines(
		dto.BundleComponentInput{ComponentID: "hoja", Quantity: 1},
	))
	require.NoError(t, err)

	err = uc.SetBundleComponents(context.Background(), "co1", "y", lines(
		dto.BundleComponentInput{ComponentID: "x", Quantity: 1},
	))
	assert.NoError(t, err, "el camino x→y ya no existe tras el reemplazo")
}

func TestSetBundleComponents_ValidacionDeLineas(t *testing.T) {
	uc, s := newProductUC()
	s.add("combo", true)
	s.add("a", false)
	s.add("simple", false)
	ctx := context.Background()

	err := uc.SetBundleComponents(ctx, "co1", "combo", lines(
		dto.BundleComponentInput{ComponentID: "a", Quantity: 0},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	err = uc.SetBundleComponents(ctx, "co1", "combo", lines(
		dto.BundleComponentInput{ComponentID: "a", Quantity: 1},
		dto.BundleComponentInput{ComponentID: "a", Quantity: 2},
	))
	assert.ErrorIs(t, err, domain.ErrDuplicate, "componente repetido")

	err = uc.SetBundleComponents(ctx, "co1", "combo", lines(
		dto.BundleComponentInput{ComponentID: "fantasma", Quantity: 1},
	))
	assert.ErrorIs(t, err, domain.ErrNotFound, "componente inexistente")

	err = uc.SetBundleComponents(ctx, "co1", "simple", lines(
		dto.BundleComponentInput{ComponentID: "a", Quantity: 1},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "solo los combos tienen composición")
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProduct_SKUDuplicadoPorEmpresa(t *testing.T) {
	uc, _ := newProductUC()
	ctx := context.Background()

	_, err := uc.Create(ctx, "co1", dto.CreateProductRequest{SKU: "CAFE-500", Name: "Café 500g", Price: decimal.NewFromInt(12000)})
	require.NoError(t, err)

	_, err = uc.Create(ctx, "co1", dto.CreateProductRequest{SKU: "CAFE-500", Name: "Otro café", Price: decimal.NewFromInt(9000)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateProduct_ValoresNegativosRechazados(t *testing.T) {
	uc, _ := newProductUC()
	ctx := context.Background()

	_, err := uc.Create(ctx, "co1", dto.CreateProductRequest{SKU: "X", Name: "X", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "co1", dto.CreateProductRequest{SKU: "X", Name: "X", MinStockLevel: -5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeactivateProduct_BorradoSuave(t *testing.T) {
	uc, s := newProductUC()
	s.add("p1", false)

	require.NoError(t, uc.Deactivate(context.Background(), "co1", "p1"))
	assert.False(t, s.products["p1"].Active, "desactivar no elimina la fila")
}

func TestProduct_TenantAislado(t *testing.T) {
	uc, s := newProductUC()
	s.add("p1", false)
	s.products["p1"].CompanyID = "co2"

	_, err := uc.GetByID(context.Background(), "co1", "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "productos de otra empresa no existen para el caller")
}
