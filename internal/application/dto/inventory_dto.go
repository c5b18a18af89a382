package dto

import "time"

// RecordChangeRequest body para POST /api/inventory/changes.
// Delta lleva signo: positivo en RESTOCK/RESERVATION, negativo en SALE/RELEASE,
// cualquier signo en ADJUSTMENT. SupplierID solo aplica a RESTOCK.
type RecordChangeRequest struct {
	ProductID   string  `json:"product_id"`
	WarehouseID string  `json:"warehouse_id"`
	Type        string  `json:"type"`
	Delta       int64   `json:"delta"`
	Reference   string  `json:"reference,omitempty"`
	SupplierID  *string `json:"supplier_id,omitempty"`
}

// ComponentChangeDTO resultado por componente cuando el cambio cae sobre un combo.
type ComponentChangeDTO struct {
	ProductID   string `json:"product_id"`
	RecordID    string `json:"record_id"`
	NewQuantity int64  `json:"new_quantity"`
}

// RecordChangeResponse respuesta del motor de mutaciones.
// Para combos RecordID queda vacío y Components detalla la cascada.
type RecordChangeResponse struct {
	TransactionID string               `json:"transaction_id"`
	RecordID      string               `json:"record_id,omitempty"`
	NewQuantity   int64                `json:"new_quantity"`
	Components    []ComponentChangeDTO `json:"components,omitempty"`
}

// InventoryEventDTO evento del ledger para el historial de auditoría.
type InventoryEventDTO struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	ProductID     string    `json:"product_id"`
	WarehouseID   string    `json:"warehouse_id"`
	Type          string    `json:"type"`
	Before        int64     `json:"quantity_before"`
	Delta         int64     `json:"delta"`
	After         int64     `json:"quantity_after"`
	Reference     string    `json:"reference,omitempty"`
	SupplierID    *string   `json:"supplier_id,omitempty"`
	Date          time.Time `json:"date"`
	CreatedBy     string    `json:"created_by,omitempty"`
}

// InventoryRecordDTO nivel de stock actual de un par (producto, bodega).
type InventoryRecordDTO struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	Reserved    int64     `json:"reserved"`
	Available   int64     `json:"available"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AvailabilityResponse disponibilidad efectiva de un producto en una bodega.
// Para combos es la derivada de sus componentes.
type AvailabilityResponse struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	IsBundle    bool   `json:"is_bundle"`
	Available   int64  `json:"available"`
}
