package inventory

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain"
	domaininv "github.com/jhoicas/Kardex-api/internal/domain/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// BundleResolver calcula la disponibilidad efectiva de un producto en una
// bodega. Para productos simples es quantity - reserved; para combos es el
// mínimo sobre componentes de floor(disponible / requerido), recursivo para
// combos anidados. Solo lectura.
type BundleResolver struct {
	productRepo repository.ProductRepository
	bundleRepo  repository.BundleRepository
	recordRepo  repository.InventoryRecordRepository
	maxDepth    int
}

// NewBundleResolver construye el resolver. maxDepth <= 0 usa 8.
func NewBundleResolver(
	productRepo repository.ProductRepository,
	bundleRepo repository.BundleRepository,
	recordRepo repository.InventoryRecordRepository,
	maxDepth int,
) *BundleResolver {
	if maxDepth <= 0 {
		maxDepth = 8
	}
	return &BundleResolver{
		productRepo: productRepo,
		bundleRepo:  bundleRepo,
		recordRepo:  recordRepo,
		maxDepth:    maxDepth,
	}
}

// AvailableQuantity devuelve las unidades disponibles del producto en la bodega.
func (r *BundleResolver) AvailableQuantity(ctx context.Context, companyID, productID, warehouseID string) (int64, bool, error) {
	product, err := r.productRepo.GetByID(ctx, productID)
	if err != nil {
		return 0, false, err
	}
	if product == nil || product.CompanyID != companyID {
		return 0, false, domain.ErrNotFound
	}
	if !product.IsBundle {
		rec, err := r.recordRepo.Get(ctx, productID, warehouseID)
		if err != nil {
			return 0, false, err
		}
		if rec == nil {
			return 0, false, nil
		}
		return rec.Available(), false, nil
	}

	graph, err := r.loadGraph(ctx, companyID)
	if err != nil {
		return 0, true, err
	}

	// Disponibilidad de hojas consultada bajo demanda, memoizada por producto.
	memo := make(map[string]int64)
	available := func(pid string) int64 {
		if v, ok := memo[pid]; ok {
			return v
		}
		var v int64
		if rec, err := r.recordRepo.Get(ctx, pid, warehouseID); err == nil && rec != nil {
			v = rec.Available()
		}
		memo[pid] = v
		return v
	}

	units, err := domaininv.BundleAvailability(productID, graph, available, r.maxDepth)
	if err != nil {
		return 0, true, err
	}
	return units, true, nil
}

// loadGraph carga la composición completa de la empresa como grafo para el
// cálculo en memoria. Los combos anidados aparecen como claves del grafo.
func (r *BundleResolver) loadGraph(ctx context.Context, companyID string) (map[string][]domaininv.ComponentLine, error) {
	lines, err := r.bundleRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	bundles, err := r.productRepo.ListBundlesByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	isBundle := make(map[string]bool, len(bundles))
	for _, b := range bundles {
		isBundle[b.ID] = true
	}
	graph := make(map[string][]domaininv.ComponentLine)
	for _, l := range lines {
		graph[l.BundleID] = append(graph[l.BundleID], domaininv.ComponentLine{
			ComponentID: l.ComponentID,
			Quantity:    l.Quantity,
			IsBundle:    isBundle[l.ComponentID],
		})
	}
	return graph, nil
}
