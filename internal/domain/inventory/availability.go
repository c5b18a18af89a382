package inventory

import "github.com/jhoicas/Kardex-api/internal/domain"

// ComponentLine es una línea de composición ya cargada desde la DB.
type ComponentLine struct {
	ComponentID string
	Quantity    int64 // unidades del componente por unidad de combo, > 0
	IsBundle    bool
}

// BundleAvailability calcula cuántas unidades de un combo pueden armarse:
// min sobre componentes de floor(disponible / requerido).
// Un combo sin componentes configurados tiene disponibilidad 0, nunca infinita.
// Los combos anidados se resuelven recursivamente sobre el grafo ya cargado;
// los ciclos se previenen al definir la composición, pero maxDepth actúa como
// última defensa y devuelve ErrBundleCycle si se excede.
func BundleAvailability(
	bundleID string,
	graph map[string][]ComponentLine,
	available func(productID string) int64,
	maxDepth int,
) (int64, error) {
	if maxDepth <= 0 {
		return 0, domain.ErrBundleCycle
	}
	lines := graph[bundleID]
	if len(lines) == 0 {
		return 0, nil
	}
	var minUnits int64 = -1
	for _, line := range lines {
		if line.Quantity <= 0 {
			return 0, domain.ErrInvalidInput
		}
		var stock int64
		if line.IsBundle {
			nested, err := BundleAvailability(line.ComponentID, graph, available, maxDepth-1)
			if err != nil {
				return 0, err
			}
			stock = nested
		} else {
			stock = available(line.ComponentID)
		}
		units := stock / line.Quantity
		if minUnits < 0 || units < minUnits {
			minUnits = units
		}
	}
	if minUnits < 0 {
		minUnits = 0
	}
	return minUnits, nil
}
