package dto

// AlertSupplierDTO proveedor sugerido para reorden (política de dos pasos).
type AlertSupplierDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AlertDTO alerta de stock bajo para un par (producto, bodega).
// DaysUntilStockout en null significa indeterminado (sin velocidad de venta),
// no infinito ni cero; se ordena al final.
type AlertDTO struct {
	ProductID         string            `json:"product_id"`
	SKU               string            `json:"sku"`
	ProductName       string            `json:"product_name"`
	WarehouseID       string            `json:"warehouse_id"`
	WarehouseName     string            `json:"warehouse_name"`
	IsBundle          bool              `json:"is_bundle"`
	CurrentStock      int64             `json:"current_stock"`
	MinStockLevel     int64             `json:"min_stock_level"`
	DaysUntilStockout *int              `json:"days_until_stockout"`
	Supplier          *AlertSupplierDTO `json:"supplier"`
}

// LowStockAlertsResponse respuesta de GET /api/companies/{id}/alerts/low-stock.
type LowStockAlertsResponse struct {
	Alerts      []AlertDTO `json:"alerts"`
	TotalAlerts int        `json:"total_alerts"`
}
