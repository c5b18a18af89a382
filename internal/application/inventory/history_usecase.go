package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// HistoryUseCase consultas de solo lectura sobre el ledger: historial de
// eventos y niveles de stock actuales. Nunca muta nada.
type HistoryUseCase struct {
	eventRepo     repository.InventoryEventRepository
	recordRepo    repository.InventoryRecordRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(
	eventRepo repository.InventoryEventRepository,
	recordRepo repository.InventoryRecordRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *HistoryUseCase {
	return &HistoryUseCase{
		eventRepo:     eventRepo,
		recordRepo:    recordRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// EventsByProduct devuelve el historial de eventos de un producto de la empresa,
// del más reciente al más antiguo.
func (uc *HistoryUseCase) EventsByProduct(ctx context.Context, companyID, productID string, from, to *time.Time, page dto.PageRequest) ([]dto.InventoryEventDTO, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()
	events, err := uc.eventRepo.ListByProduct(ctx, productID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toEventDTOs(events), nil
}

// EventsByWarehouse devuelve el historial de eventos de una bodega de la empresa.
func (uc *HistoryUseCase) EventsByWarehouse(ctx context.Context, companyID, warehouseID string, from, to *time.Time, page dto.PageRequest) ([]dto.InventoryEventDTO, error) {
	warehouse, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()
	events, err := uc.eventRepo.ListByWarehouse(ctx, warehouseID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toEventDTOs(events), nil
}

// RecordsByWarehouse devuelve los niveles de stock actuales de una bodega.
func (uc *HistoryUseCase) RecordsByWarehouse(ctx context.Context, companyID, warehouseID string, page dto.PageRequest) ([]dto.InventoryRecordDTO, error) {
	warehouse, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()
	records, err := uc.recordRepo.ListByWarehouse(ctx, warehouseID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryRecordDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, dto.InventoryRecordDTO{
			ID:          rec.ID,
			ProductID:   rec.ProductID,
			WarehouseID: rec.WarehouseID,
			Quantity:    rec.Quantity,
			Reserved:    rec.Reserved,
			Available:   rec.Available(),
			UpdatedAt:   rec.UpdatedAt,
		})
	}
	return out, nil
}

func toEventDTOs(events []*entity.InventoryEvent) []dto.InventoryEventDTO {
	out := make([]dto.InventoryEventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, dto.InventoryEventDTO{
			ID:            e.ID,
			TransactionID: e.TransactionID,
			ProductID:     e.ProductID,
			WarehouseID:   e.WarehouseID,
			Type:          e.Type,
			Before:        e.Before,
			Delta:         e.Delta,
			After:         e.After,
			Reference:     e.Reference,
			SupplierID:    e.SupplierID,
			Date:          e.Date,
			CreatedBy:     e.CreatedBy,
		})
	}
	return out
}
