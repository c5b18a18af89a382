package inventory

// SupplierRef identifica el proveedor sugerido en una alerta.
type SupplierRef struct {
	ID   string
	Name string
}

// ResolveSupplier aplica la política de resolución de proveedor en dos pasos:
// primero la relación marcada como preferida, luego el proveedor del RESTOCK
// más reciente, y nil si no hay ninguno. Función pura sobre datos ya cargados.
func ResolveSupplier(preferred, lastRestock *SupplierRef) *SupplierRef {
	if preferred != nil {
		return preferred
	}
	return lastRestock
}
