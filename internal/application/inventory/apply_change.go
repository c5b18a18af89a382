package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// EngineConfig opciones del motor de mutaciones.
type EngineConfig struct {
	// AllowCorrection permite que un ADJUSTMENT deje la cantidad por debajo de
	// lo reservado; en ese caso Reserved se recorta a la nueva cantidad.
	AllowCorrection bool
	// MaxBundleDepth límite de anidamiento al expandir combos.
	MaxBundleDepth int
}

// ApplyChangeUseCase es el motor de mutaciones del ledger: aplica cambios de
// cantidad de forma transaccional (registro + evento en una unidad atómica)
// con bloqueo de fila, y cascada sobre componentes cuando el producto es combo.
type ApplyChangeUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	bundleRepo    repository.BundleRepository
	cfg           EngineConfig
}

// NewApplyChangeUseCase construye el motor.
func NewApplyChangeUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	bundleRepo repository.BundleRepository,
	cfg EngineConfig,
) *ApplyChangeUseCase {
	if cfg.MaxBundleDepth <= 0 {
		cfg.MaxBundleDepth = 8
	}
	return &ApplyChangeUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		bundleRepo:    bundleRepo,
		cfg:           cfg,
	}
}

// ChangeInput entrada validada del motor. Delta con signo y distinto de cero.
type ChangeInput struct {
	CompanyID   string
	UserID      string
	ProductID   string
	WarehouseID string
	Type        string
	Delta       int64
	Reference   string
	SupplierID  *string // procedencia del RESTOCK
}

// ComponentResult resultado por componente de una cascada de combo.
type ComponentResult struct {
	ProductID   string
	RecordID    string
	NewQuantity int64
}

// ApplyResult resultado de Apply. Created indica si algún registro de stock se
// creó en esta operación (primer movimiento de un par producto-bodega).
type ApplyResult struct {
	TransactionID string
	RecordID      string
	NewQuantity   int64
	Created       bool
	Components    []ComponentResult
}

// Apply valida la entrada, resuelve producto y bodega, y ejecuta la mutación
// dentro de una transacción: localiza-o-crea el registro con bloqueo de fila,
// calcula la nueva cantidad y persiste registro + evento juntos. Si el
// producto es combo, expande la composición hasta productos hoja y aplica el
// delta proporcional a cada uno en la misma transacción; cualquier faltante
// rechaza la cascada completa.
func (uc *ApplyChangeUseCase) Apply(ctx context.Context, input ChangeInput) (*ApplyResult, error) {
	if err := validateChange(input); err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}
	warehouse, err := uc.warehouseRepo.GetByID(ctx, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.CompanyID != input.CompanyID || !warehouse.Active {
		return nil, domain.ErrNotFound
	}

	// Plan de aplicación: unidades por producto hoja y una unidad de delta.
	// Para productos simples es el propio producto con factor 1.
	plan := map[string]int64{input.ProductID: 1}
	if product.IsBundle {
		plan, err = uc.expandBundle(ctx, input)
		if err != nil {
			return nil, err
		}
	}

	// Orden fijo de bloqueo (product_id ascendente) para evitar deadlocks
	// entre cascadas concurrentes que comparten componentes.
	productIDs := make([]string, 0, len(plan))
	for id := range plan {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	now := time.Now()
	txID := uuid.New().String()
	result := &ApplyResult{TransactionID: txID}

	err = uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		eventRepo repository.InventoryEventRepository,
	) error {
		for _, pid := range productIDs {
			delta := plan[pid] * input.Delta
			rec, created, err := recordRepo.GetOrCreateForUpdate(ctx, pid, input.WarehouseID)
			if err != nil {
				return err
			}
			before, after, err := uc.applyToRecord(rec, input.Type, delta)
			if err != nil {
				return err
			}
			rec.UpdatedAt = now
			if err := recordRepo.Update(ctx, rec); err != nil {
				return err
			}
			ev := &entity.InventoryEvent{
				RecordID:      rec.ID,
				TransactionID: txID,
				ProductID:     pid,
				WarehouseID:   input.WarehouseID,
				Type:          input.Type,
				Before:        before,
				Delta:         delta,
				After:         after,
				Reference:     input.Reference,
				Date:          now,
				CreatedAt:     now,
				CreatedBy:     input.UserID,
			}
			if input.Type == entity.ChangeTypeRestock {
				ev.SupplierID = input.SupplierID
			}
			if err := eventRepo.Create(ctx, ev); err != nil {
				return err
			}
			result.Created = result.Created || created
			if product.IsBundle {
				result.Components = append(result.Components, ComponentResult{
					ProductID:   pid,
					RecordID:    rec.ID,
					NewQuantity: rec.Quantity,
				})
			} else {
				result.RecordID = rec.ID
				result.NewQuantity = rec.Quantity
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// validateChange verifica el contrato tipado antes de tocar la capa de datos.
func validateChange(input ChangeInput) error {
	if input.CompanyID == "" || input.ProductID == "" || input.WarehouseID == "" {
		return domain.ErrInvalidInput
	}
	if !entity.ValidChangeType(input.Type) || input.Delta == 0 {
		return domain.ErrInvalidInput
	}
	switch input.Type {
	case entity.ChangeTypeRestock, entity.ChangeTypeReservation:
		if input.Delta < 0 {
			return domain.ErrInvalidInput
		}
	case entity.ChangeTypeSale, entity.ChangeTypeRelease:
		if input.Delta > 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// applyToRecord aplica el delta al contador correspondiente del registro y
// devuelve before/after para el evento. RESERVATION/RELEASE auditan Reserved;
// el resto audita Quantity. Invariantes: Quantity >= 0, 0 <= Reserved <= Quantity.
func (uc *ApplyChangeUseCase) applyToRecord(rec *entity.InventoryRecord, changeType string, delta int64) (before, after int64, err error) {
	switch changeType {
	case entity.ChangeTypeRestock:
		before = rec.Quantity
		after = before + delta
		rec.Quantity = after

	case entity.ChangeTypeSale:
		before = rec.Quantity
		after = before + delta
		if after < 0 || after < rec.Reserved {
			return 0, 0, domain.ErrInsufficientStock
		}
		rec.Quantity = after

	case entity.ChangeTypeAdjustment:
		before = rec.Quantity
		after = before + delta
		if after < 0 {
			return 0, 0, domain.ErrInsufficientStock
		}
		if after < rec.Reserved {
			if !uc.cfg.AllowCorrection {
				return 0, 0, domain.ErrInsufficientStock
			}
			rec.Reserved = after
		}
		rec.Quantity = after

	case entity.ChangeTypeReservation:
		before = rec.Reserved
		after = before + delta
		if after > rec.Quantity {
			return 0, 0, domain.ErrInsufficientStock
		}
		rec.Reserved = after

	case entity.ChangeTypeRelease:
		before = rec.Reserved
		after = before + delta
		if after < 0 {
			return 0, 0, domain.ErrInsufficientStock
		}
		rec.Reserved = after

	default:
		return 0, 0, domain.ErrInvalidInput
	}
	return before, after, nil
}

// expandBundle aplana la composición del combo hasta productos hoja,
// multiplicando cantidades en cada nivel y fusionando componentes repetidos.
// Un combo sin composición no puede moverse: no hay nada que mutar.
func (uc *ApplyChangeUseCase) expandBundle(ctx context.Context, input ChangeInput) (map[string]int64, error) {
	lines, err := uc.bundleRepo.ListByCompany(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}
	graph := make(map[string][]*entity.BundleComponent)
	for _, line := range lines {
		graph[line.BundleID] = append(graph[line.BundleID], line)
	}
	bundles, err := uc.productRepo.ListBundlesByCompany(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}
	isBundle := make(map[string]bool, len(bundles))
	for _, b := range bundles {
		isBundle[b.ID] = true
	}

	plan := make(map[string]int64)
	var walk func(bundleID string, factor int64, depth int) error
	walk = func(bundleID string, factor int64, depth int) error {
		if depth > uc.cfg.MaxBundleDepth {
			return domain.ErrBundleCycle
		}
		comps := graph[bundleID]
		if len(comps) == 0 {
			// Combo sin componentes: disponibilidad 0, nada sobre qué aplicar.
			if input.Delta < 0 {
				return domain.ErrInsufficientStock
			}
			return domain.ErrInvalidInput
		}
		for _, c := range comps {
			if c.Quantity <= 0 {
				return domain.ErrInvalidInput
			}
			units := factor * c.Quantity
			if isBundle[c.ComponentID] {
				if err := walk(c.ComponentID, units, depth+1); err != nil {
					return err
				}
				continue
			}
			plan[c.ComponentID] += units
		}
		return nil
	}
	if err := walk(input.ProductID, 1, 1); err != nil {
		return nil, err
	}
	return plan, nil
}
