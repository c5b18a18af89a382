package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Kardex-api/internal/domain/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// AlertConfig parámetros del motor de alertas. La ventana de ventas y la
// definición de stock bajo son configuración con defaults documentados, no
// constantes fijas.
type AlertConfig struct {
	WindowDays     int  // ventana de "actividad reciente", default 30
	Inclusive      bool // true: bajo si quantity <= umbral; false (default): <
	MaxBundleDepth int
}

// LowStockAlertUseCase análisis derivado de solo lectura: detección de stock
// bajo y proyección de quiebre por par (producto, bodega). Corre sobre
// lecturas de snapshot y nunca bloquea el tráfico de mutaciones.
type LowStockAlertUseCase struct {
	companyRepo   repository.CompanyRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	bundleRepo    repository.BundleRepository
	recordRepo    repository.InventoryRecordRepository
	eventRepo     repository.InventoryEventRepository
	supplierRepo  repository.SupplierRepository
	cfg           AlertConfig
}

// NewLowStockAlertUseCase construye el caso de uso de alertas.
func NewLowStockAlertUseCase(
	companyRepo repository.CompanyRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	bundleRepo repository.BundleRepository,
	recordRepo repository.InventoryRecordRepository,
	eventRepo repository.InventoryEventRepository,
	supplierRepo repository.SupplierRepository,
	cfg AlertConfig,
) *LowStockAlertUseCase {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 30
	}
	if cfg.MaxBundleDepth <= 0 {
		cfg.MaxBundleDepth = 8
	}
	return &LowStockAlertUseCase{
		companyRepo:   companyRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		bundleRepo:    bundleRepo,
		recordRepo:    recordRepo,
		eventRepo:     eventRepo,
		supplierRepo:  supplierRepo,
		cfg:           cfg,
	}
}

type pairKey struct {
	productID   string
	warehouseID string
}

// LowStockAlerts devuelve las alertas de stock bajo de la empresa, ordenadas
// por días-hasta-quiebre ascendente con los indeterminados (null) al final.
// Empresa inexistente o inactiva falla con ErrNotFound; empresa sin bodegas
// activas devuelve una secuencia vacía, no un error.
func (uc *LowStockAlertUseCase) LowStockAlerts(ctx context.Context, companyID string, asOf time.Time) ([]dto.AlertDTO, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil || !company.IsActive() {
		return nil, domain.ErrNotFound
	}
	warehouses, err := uc.warehouseRepo.ListActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	alerts := []dto.AlertDTO{}
	if len(warehouses) == 0 {
		return alerts, nil
	}

	since := asOf.AddDate(0, 0, -uc.cfg.WindowDays)
	saleTotals, err := uc.eventRepo.SaleTotalsSince(ctx, companyID, since)
	if err != nil {
		return nil, err
	}
	unitsSold := make(map[pairKey]int64, len(saleTotals))
	productUnits := make(map[string]int64)
	for _, t := range saleTotals {
		unitsSold[pairKey{t.ProductID, t.WarehouseID}] = t.Units
		productUnits[t.ProductID] += t.Units
	}

	restocks, err := uc.eventRepo.LastRestockSuppliers(ctx, companyID)
	if err != nil {
		return nil, err
	}
	lastRestock := make(map[pairKey]domaininv.SupplierRef, len(restocks))
	for _, p := range restocks {
		lastRestock[pairKey{p.ProductID, p.WarehouseID}] = domaininv.SupplierRef{ID: p.SupplierID, Name: p.SupplierName}
	}

	relations, err := uc.supplierRepo.ListRelationsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	preferred := make(map[string]domaininv.SupplierRef)
	for _, rel := range relations {
		if rel.IsPreferred {
			preferred[rel.ProductID] = domaininv.SupplierRef{ID: rel.SupplierID, Name: rel.SupplierName}
		}
	}

	// Productos simples: snapshot ya unido con producto y bodega.
	candidates, err := uc.recordRepo.ListAlertCandidates(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for _, c := range candidates {
		if c.Quantity == 0 {
			continue // quiebre total: excluido explícitamente
		}
		if !domaininv.IsLowStock(c.Quantity, c.MinStockLevel, uc.cfg.Inclusive) {
			continue
		}
		// El filtro de actividad es por producto: basta una venta del producto
		// en cualquier bodega dentro de la ventana. La velocidad, en cambio,
		// es local al par; sin ventas locales la proyección queda indeterminada.
		if productUnits[c.ProductID] == 0 {
			continue // producto muerto: sin ventas en la ventana
		}
		var days *int
		if units := unitsSold[pairKey{c.ProductID, c.WarehouseID}]; units > 0 {
			days = domaininv.DaysUntilStockout(c.Quantity, units, uc.cfg.WindowDays)
		}
		alerts = append(alerts, uc.buildAlert(
			c.ProductID, c.SKU, c.ProductName, c.WarehouseID, c.WarehouseName,
			false, c.Quantity, c.MinStockLevel, days,
			preferred, lastRestock,
		))
	}

	// Combos: stock derivado de componentes; sin eventos SALE propios, la
	// velocidad de venta es indeterminada (days = null, ordenado al final).
	bundleAlerts, err := uc.bundleAlerts(ctx, companyID, warehouses, preferred, lastRestock)
	if err != nil {
		return nil, err
	}
	alerts = append(alerts, bundleAlerts...)

	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		switch {
		case a.DaysUntilStockout == nil && b.DaysUntilStockout == nil:
			if a.SKU != b.SKU {
				return a.SKU < b.SKU
			}
			return a.WarehouseName < b.WarehouseName
		case a.DaysUntilStockout == nil:
			return false // null al final: peor caso desconocido, no mejor caso
		case b.DaysUntilStockout == nil:
			return true
		case *a.DaysUntilStockout != *b.DaysUntilStockout:
			return *a.DaysUntilStockout < *b.DaysUntilStockout
		default:
			if a.SKU != b.SKU {
				return a.SKU < b.SKU
			}
			return a.WarehouseName < b.WarehouseName
		}
	})
	return alerts, nil
}

func (uc *LowStockAlertUseCase) bundleAlerts(
	ctx context.Context,
	companyID string,
	warehouses []*entity.Warehouse,
	preferred map[string]domaininv.SupplierRef,
	lastRestock map[pairKey]domaininv.SupplierRef,
) ([]dto.AlertDTO, error) {
	bundles, err := uc.productRepo.ListBundlesByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	watched := bundles[:0:0]
	for _, b := range bundles {
		if b.MinStockLevel > 0 {
			watched = append(watched, b)
		}
	}
	if len(watched) == 0 {
		return nil, nil
	}

	lines, err := uc.bundleRepo.ListByCompany(ctx, companyID)
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

	records, err := uc.recordRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	avail := make(map[pairKey]int64, len(records))
	for _, r := range records {
		avail[pairKey{r.ProductID, r.WarehouseID}] = r.Available()
	}

	var alerts []dto.AlertDTO
	for _, b := range watched {
		for _, wh := range warehouses {
			available := func(pid string) int64 {
				return avail[pairKey{pid, wh.ID}]
			}
			units, err := domaininv.BundleAvailability(b.ID, graph, available, uc.cfg.MaxBundleDepth)
			if err != nil {
				return nil, err
			}
			if units == 0 {
				continue
			}
			if !domaininv.IsLowStock(units, b.MinStockLevel, uc.cfg.Inclusive) {
				continue
			}
			alerts = append(alerts, uc.buildAlert(
				b.ID, b.SKU, b.Name, wh.ID, wh.Name,
				true, units, b.MinStockLevel, nil,
				preferred, lastRestock,
			))
		}
	}
	return alerts, nil
}

func (uc *LowStockAlertUseCase) buildAlert(
	productID, sku, name, warehouseID, warehouseName string,
	isBundle bool,
	stock, threshold int64,
	days *int,
	preferred map[string]domaininv.SupplierRef,
	lastRestock map[pairKey]domaininv.SupplierRef,
) dto.AlertDTO {
	var pref, restock *domaininv.SupplierRef
	if s, ok := preferred[productID]; ok {
		pref = &s
	}
	if s, ok := lastRestock[pairKey{productID, warehouseID}]; ok {
		restock = &s
	}
	var supplier *dto.AlertSupplierDTO
	if resolved := domaininv.ResolveSupplier(pref, restock); resolved != nil {
		supplier = &dto.AlertSupplierDTO{ID: resolved.ID, Name: resolved.Name}
	}
	return dto.AlertDTO{
		ProductID:         productID,
		SKU:               sku,
		ProductName:       name,
		WarehouseID:       warehouseID,
		WarehouseName:     warehouseName,
		IsBundle:          isBundle,
		CurrentStock:      stock,
		MinStockLevel:     threshold,
		DaysUntilStockout: days,
		Supplier:          supplier,
	}
}
