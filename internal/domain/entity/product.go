package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// El stock se maneja por bodega en InventoryRecord; los combos (IsBundle)
// no tienen stock propio: se deriva de sus componentes.
// MinStockLevel es el umbral de alerta de stock bajo (0 = sin alerta).
type Product struct {
	ID            string
	CompanyID     string
	SKU           string // código único por empresa
	Name          string
	Description   string
	Price         decimal.Decimal // precio de venta, >= 0
	IsBundle      bool
	MinStockLevel int64 // unidades, >= 0
	Active        bool  // desactivación suave; nunca se borra si tiene historial
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
