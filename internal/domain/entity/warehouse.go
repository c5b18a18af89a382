package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// Active en false excluye la bodega de alertas y bloquea nuevos movimientos.
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
