package entity

import "time"

// InventoryRecord representa el stock actual de un producto en una bodega.
// Una fila por par (producto, bodega), creada perezosamente con el primer
// movimiento. Invariantes: Quantity >= 0, Reserved >= 0, Reserved <= Quantity.
// La cantidad solo cambia acompañada de un InventoryEvent en la misma transacción.
type InventoryRecord struct {
	ID          string
	ProductID   string
	WarehouseID string
	Quantity    int64
	Reserved    int64
	UpdatedAt   time.Time
}

// Available devuelve las unidades disponibles para venta o para componer combos.
func (r *InventoryRecord) Available() int64 {
	return r.Quantity - r.Reserved
}
