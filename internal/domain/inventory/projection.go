package inventory

// DaysUntilStockout proyecta los días restantes antes de quebrar stock, según
// la velocidad de venta del período: floor(stock / (unidadesVendidas / díasVentana)).
// Devuelve nil si no hubo ventas en la ventana: indeterminado, no infinito ni cero.
func DaysUntilStockout(currentStock, unitsSoldInWindow int64, windowDays int) *int {
	if unitsSoldInWindow <= 0 || windowDays <= 0 {
		return nil
	}
	// floor(stock / (ventas/ventana)) == floor(stock * ventana / ventas) en enteros
	days := int(currentStock * int64(windowDays) / unitsSoldInWindow)
	return &days
}

// IsLowStock decide si el stock actual está por debajo del umbral.
// inclusive en true usa quantity <= umbral; en false (default) quantity < umbral.
func IsLowStock(currentStock, minStockLevel int64, inclusive bool) bool {
	if minStockLevel <= 0 {
		return false
	}
	if inclusive {
		return currentStock <= minStockLevel
	}
	return currentStock < minStockLevel
}
