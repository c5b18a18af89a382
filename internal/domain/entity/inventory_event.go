package entity

import "time"

// Tipos de cambio de inventario.
const (
	ChangeTypeRestock     = "RESTOCK"     // entrada de mercancía
	ChangeTypeSale        = "SALE"        // salida por venta
	ChangeTypeAdjustment  = "ADJUSTMENT"  // ajuste/corrección
	ChangeTypeReservation = "RESERVATION" // aparta unidades (sube Reserved)
	ChangeTypeRelease     = "RELEASE"     // libera unidades apartadas
)

// ValidChangeType reporta si t es uno de los tipos enumerados.
func ValidChangeType(t string) bool {
	switch t {
	case ChangeTypeRestock, ChangeTypeSale, ChangeTypeAdjustment,
		ChangeTypeReservation, ChangeTypeRelease:
		return true
	}
	return false
}

// InventoryEvent es el registro de auditoría append-only de cada mutación.
// Invariante: Before + Delta == After. Para RESERVATION/RELEASE el contador
// auditado es Reserved; para el resto es Quantity. Los eventos nunca se
// modifican ni se borran: son la fuente de verdad del historial.
// Solo el motor de mutaciones los crea, nunca los callers.
type InventoryEvent struct {
	ID            string
	RecordID      string
	TransactionID string // agrupa los eventos de una misma operación (cascada de combo)
	ProductID     string
	WarehouseID   string
	Type          string
	Before        int64
	Delta         int64 // con signo: negativo para SALE/RELEASE
	After         int64
	Reference     string  // referencia externa opcional (factura, orden, nota)
	SupplierID    *string // procedencia en RESTOCK, para la política de proveedor
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string // UserID
}
