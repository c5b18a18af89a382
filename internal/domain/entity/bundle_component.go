package entity

import "time"

// BundleComponent relaciona un producto combo con uno de sus componentes.
// Quantity es cuántas unidades del componente consume una unidad del combo (> 0).
// Sin auto-referencia ni ciclos transitivos: se valida al definir la composición,
// no con un constraint de fila.
type BundleComponent struct {
	ID          string
	BundleID    string // producto con IsBundle = true
	ComponentID string // producto componente (puede ser a su vez un combo)
	Quantity    int64
	CreatedAt   time.Time
}
