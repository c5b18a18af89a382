package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// newEngine arma el motor de mutaciones sobre un memStore sembrado con una
// empresa y una bodega activas.
func newEngine(t *testing.T, cfg inventory.EngineConfig) (*inventory.ApplyChangeUseCase, *memStore) {
	t.Helper()
	store := newMemStore()
	store.seedCompany("co1")
	store.seedWarehouse("wh1", "co1")
	uc := inventory.NewApplyChangeUseCase(
		&fakeTxRunner{store: store},
		&fakeProductRepo{store: store},
		&fakeWarehouseRepo{store: store},
		&fakeBundleRepo{store: store},
		cfg,
	)
	return uc, store
}

func change(productID, changeType string, delta int64) inventory.ChangeInput {
	return inventory.ChangeInput{
		CompanyID:   "co1",
		UserID:      "user-1",
		ProductID:   productID,
		WarehouseID: "wh1",
		Type:        changeType,
		Delta:       delta,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos simples
// ──────────────────────────────────────────────────────────────────────────────

// El primer movimiento de un par (producto, bodega) crea el registro: Created
// true y cantidad igual al delta. El segundo movimiento reutiliza la fila.
func TestApply_PrimerMovimientoCreaRegistro(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{})
	store.seedProduct("p1", "co1", 0)

	res, err := uc.Apply(context.Background(), change("p1", entity.ChangeTypeRestock, 10))
	require.NoError(t, err)
	assert.True(t, res.Created, "el primer movimiento debe reportar registro creado")
	assert.Equal(t, int64(10), res.NewQuantity)
	assert.NotEmpty(t, res.TransactionID)

	res2, err := uc.Apply(context.Background(), change("p1", entity.ChangeTypeRestock, 5))
	require.NoError(t, err)
	assert.False(t, res2.Created, "el segundo movimiento reutiliza el registro")
	assert.Equal(t, int64(15), res2.NewQuantity)
}

// Cadena de eventos: cada evento cumple Before + Delta == After y la suma de
// deltas reconstruye la cantidad final del registro.
func TestApply_LedgerReconstruyeElStock(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{})
	store.seedProduct("p1", "co1", 0)

	ctx := context.Background()
	_, err := uc.Apply(ctx, change("p1", entity.ChangeTypeRestock, 20))
	require.NoError(t, err)
	_, err = uc.Apply(ctx, change("p1", entity.ChangeTypeSale, -7))
	require.NoError(t, err)
	_, err = uc.Apply(ctx, change("p1", entity.ChangeTypeAdjustment, -3))
	require.NoError(t, err)

	var sum int64
	for _, ev := range store.events {
		assert.Equal(t, ev.After, ev.Before+ev.Delta, "before + delta debe ser after en cada evento")
		sum += ev.Delta
	}
	rec := store.records[recordKey("p1", "wh1")]
	require.NotNil(t, rec)
	assert.Equal(t, rec.Quantity, sum, "la suma de deltas debe reconstruir la cantidad")
	assert.Equal(t, int64(10), rec.Quantity)
}

// Una venta que dejaría la cantidad negativa se rechaza y no deja rastro:
// ni evento ni cambio en el registro.
func TestApply_VentaSinStockRechazadaSinEfectos(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{})
	store.seedProduct("p1", "co1", 0)
	store.seedRecord("p1", "wh1", 5, 0)

	_, err := uc.Apply(context.Background(), change("p1", entity.ChangeTypeSale, -6))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	rec := store.records[recordKey("p1", "wh1")]
	assert.Equal(t, int64(5), rec.Quantity, "el registro no debe cambiar tras el rechazo")
	assert.Empty(t, store.events, "una mutación rechazada no produce eventos")
}

// La venta tampoco puede dejar la cantidad por debajo de lo reservado.
func TestApply_VentaNoPuedeComerLaReserva(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{})
	store.seedProduct("p1", "co1", 0)
	store.seedRecord("p1", "wh1", 10, 4)

	// 10 - 7 = 3 < 4 reservadas
	_, err := uc.Apply(context.Background(), change("p1", entity.ChangeTypeSale, -7))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// 10 - 6 = 4 == reservadas: permitido en el límite
	_, err = uc.Apply(context.Background(), change("p1", entity.ChangeTypeSale, -6))
	require.NoError(t, err)
	rec := store.records[recordKey("p1", "wh1")]
	assert.Equal(t, int64(4), rec.Quantity)
	assert.Equal(t, int64(4), rec.Reserved)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reservas
// ──────────────────────────────────────────────────────────────────────────────

// RESERVATION y RELEASE auditan el contador Reserved, no Quantity.
func TestApply_ReservaYLiberacionAuditanReserved(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{})
	store.seedProduct("p1", "co1", 0)
	store.seedRecord("p1", "wh1", 10, 0)

	ctx := context.Background()
	_, err := uc.Apply(ctx, change("p1", entity.ChangeTypeReservation, 4))
	require.NoError(t, err)
	_, err = uc.Apply(ctx, change("p1", entity.ChangeTypeRelease, -1))
	require.NoError(t, err)

	rec := store.records[recordKey("p1", "wh1")]
	assert.Equal(t, int64(10), rec.Quantity, "reservar no mueve la cantidad física")
	assert.Equal(t, int64(3), rec.Reserved)

	require.Len(t, store.events, 2)
	assert.Equal(t, int64(0), store.events[0].Before)
	assert.Equal(t, int64(4), store.events[0].After)
	assert.Equal(t, int64(4), store.events[1].Before)
	assert.Equal(t, int64(3), store.events[1].After)
}

// No se puede reservar más de lo que hay, ni liberar más de lo reservado.
func TestApply_LimitesDeReserva(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{})
	store.seedProduct("p1", "co1", 0)
	store.seedRecord("p1", "wh1", 5, 2)

	_, err := uc.Apply(context.Background(), change("p1", entity.ChangeTypeReservation, 4))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "reservar 2+4 > 5 debe fallar")

	_, err = uc.Apply(context.Background(), change("p1", entity.ChangeTypeRelease, -3))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "liberar 3 con 2 reservadas debe fallar")
}

// ADJUSTMENT que deja la cantidad bajo lo reservado: con corrección habilitada
// recorta Reserved; sin ella, rechaza.
func TestApply_AjusteRecortaReservaSegunConfiguracion(t *testing.T) {
	ctx := context.Background()

	uc, store := newEngine(t, inventory.EngineConfig{AllowCorrection: true})
	store.seedProduct("p1", "co1", 0)
	store.seedRecord("p1", "wh1", 10, 6)

	_, err := uc.Apply(ctx, change("p1", entity.ChangeTypeAdjustment, -7))
	require.NoError(t, err)
	rec := store.records[recordKey("p1", "wh1")]
	assert.Equal(t, int64(3), rec.Quantity)
	assert.Equal(t, int64(3), rec.Reserved, "la reserva se recorta a la nueva cantidad")

	ucStrict, storeStrict := newEngine(t, inventory.EngineConfig{AllowCorrection: false})
	storeStrict.seedProduct("p1", "co1", 0)
	storeStrict.seedRecord("p1", "wh1", 10, 6)

	_, err = ucStrict.Apply(ctx, change("p1", entity.ChangeTypeAdjustment, -7))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_ValidacionDeSignoYTipo(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{})
	store.seedProduct("p1", "co1", 0)
	ctx := context.Background()

	cases := []struct {
		name  string
		tipo  string
		delta int64
	}{
		{"restock negativo", entity.ChangeTypeRestock, -5},
		{"venta positiva", entity.ChangeTypeSale, 5},
		{"reserva negativa", entity.ChangeTypeReservation, -2},
		{"liberación positiva", entity.ChangeTypeRelease, 2},
		{"delta cero", entity.ChangeTypeAdjustment, 0},
		{"tipo desconocido", "TRANSFER", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Apply(ctx, change("p1", tc.tipo, tc.delta))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestApply_ProductoDeOtraEmpresaEsForbidden(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{})
	store.seedCompany("co2")
	store.seedProduct("ajeno", "co2", 0)

	_, err := uc.Apply(context.Background(), change("ajeno", entity.ChangeTypeRestock, 1))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApply_BodegaInactivaEsNotFound(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{})
	store.seedProduct("p1", "co1", 0)
	store.warehouses["wh1"].Active = false

	_, err := uc.Apply(context.Background(), change("p1", entity.ChangeTypeRestock, 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cascada de combos
// ──────────────────────────────────────────────────────────────────────────────

// Vender un combo muta los componentes hoja en proporción, con un solo
// TransactionID agrupando todos los eventos de la cascada.
func TestApply_VentaDeComboEnCascada(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{})
	store.seedProduct("compA", "co1", 0)
	store.seedProduct("compB", "co1", 0)
	store.seedBundle("combo", "co1", 0,
		comp("combo", "compA", 2),
		comp("combo", "compB", 1),
	)
	store.seedRecord("compA", "wh1", 20, 0)
	store.seedRecord("compB", "wh1", 10, 0)

	res, err := uc.Apply(context.Background(), change("combo", entity.ChangeTypeSale, -3))
	require.NoError(t, err)
	require.Len(t, res.Components, 2)

	assert.Equal(t, int64(14), store.records[recordKey("compA", "wh1")].Quantity, "2×3 unidades de A")
	assert.Equal(t, int64(7), store.records[recordKey("compB", "wh1")].Quantity, "1×3 unidades de B")

	require.Len(t, store.events, 2)
	assert.Equal(t, res.TransactionID, store.events[0].TransactionID)
	assert.Equal(t, store.events[0].TransactionID, store.events[1].TransactionID,
		"toda la cascada comparte TransactionID")
	_, hasOwn := store.records[recordKey("combo", "wh1")]
	assert.False(t, hasOwn, "el combo no tiene registro de stock propio")
}

// Si un solo componente no alcanza, la cascada completa se revierte.
func TestApply_CascadaTodoONada(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{})
	store.seedProduct("compA", "co1", 0)
	store.seedProduct("compB", "co1", 0)
	store.seedBundle("combo", "co1", 0,
		comp("combo", "compA", 2),
		comp("combo", "compB", 1),
	)
	store.seedRecord("compA", "wh1", 20, 0)
	store.seedRecord("compB", "wh1", 2, 0) // alcanza solo para 2, se piden 3

	_, err := uc.Apply(context.Background(), change("combo", entity.ChangeTypeSale, -3))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(20), store.records[recordKey("compA", "wh1")].Quantity,
		"A no debe cambiar aunque su rebaja individual sí alcanzaba")
	assert.Equal(t, int64(2), store.records[recordKey("compB", "wh1")].Quantity)
	assert.Empty(t, store.events)
}

// Combos anidados multiplican cantidades nivel a nivel y fusionan componentes
// repetidos en una sola mutación por producto.
func TestApply_ComboAnidadoMultiplicaYFusiona(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{})
	store.seedProduct("compA", "co1", 0)
	store.seedBundle("interior", "co1", 0, comp("interior", "compA", 2))
	store.seedBundle("exterior", "co1", 0,
		comp("exterior", "interior", 3),
		comp("exterior", "compA", 1),
	)
	store.seedRecord("compA", "wh1", 100, 0)

	// 1 exterior = 3 interior (3×2 = 6 de A) + 1 de A = 7 de A
	_, err := uc.Apply(context.Background(), change("exterior", entity.ChangeTypeSale, -2))
	require.NoError(t, err)

	assert.Equal(t, int64(86), store.records[recordKey("compA", "wh1")].Quantity, "100 - 2×7")
	assert.Len(t, store.events, 1, "componentes repetidos se fusionan en un solo evento")
}

// Un combo sin composición no tiene nada que mutar: la dirección del delta
// decide el error (venta = faltante; entrada = entrada inválida).
func TestApply_ComboSinComposicion(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{})
	store.seedBundle("vacio", "co1", 0)

	_, err := uc.Apply(context.Background(), change("vacio", entity.ChangeTypeSale, -1))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.Apply(context.Background(), change("vacio", entity.ChangeTypeRestock, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// La expansión corta en la profundidad máxima configurada.
func TestApply_ProfundidadDeComboExcedida(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{MaxBundleDepth: 2})
	store.seedProduct("hoja", "co1", 0)
	store.seedBundle("n3", "co1", 0, comp("n3", "hoja", 1))
	store.seedBundle("n2", "co1", 0, comp("n2", "n3", 1))
	store.seedBundle("n1", "co1", 0, comp("n1", "n2", 1))

	_, err := uc.Apply(context.Background(), change("n1", entity.ChangeTypeRestock, 1))
	assert.ErrorIs(t, err, domain.ErrBundleCycle)
}

// Reproducir el log de eventos completo, en orden, contra un ledger vacío
// reconstruye exactamente el estado final: los eventos son la fuente de verdad
// y cada before encadena con el after anterior de su contador.
func TestApply_ReplayDelLedgerReproduceElEstado(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{AllowCorrection: true})
	store.seedProduct("p1", "co1", 0)
	store.seedProduct("compA", "co1", 0)
	store.seedProduct("compB", "co1", 0)
	store.seedBundle("combo", "co1", 0,
		comp("combo", "compA", 2),
		comp("combo", "compB", 1),
	)

	ctx := context.Background()
	ops := []inventory.ChangeInput{
		change("p1", entity.ChangeTypeRestock, 30),
		change("compA", entity.ChangeTypeRestock, 40),
		change("compB", entity.ChangeTypeRestock, 15),
		change("p1", entity.ChangeTypeReservation, 5),
		change("combo", entity.ChangeTypeSale, -4),
		change("p1", entity.ChangeTypeSale, -8),
		change("p1", entity.ChangeTypeRelease, -2),
		change("compA", entity.ChangeTypeAdjustment, -3),
	}
	for _, op := range ops {
		_, err := uc.Apply(ctx, op)
		require.NoError(t, err)
	}

	// Replay: aplica los eventos sobre contadores en cero, sin mirar records.
	type counters struct{ quantity, reserved int64 }
	replayed := make(map[string]counters)
	for _, ev := range store.events {
		key := recordKey(ev.ProductID, ev.WarehouseID)
		c := replayed[key]
		switch ev.Type {
		case entity.ChangeTypeReservation, entity.ChangeTypeRelease:
			require.Equal(t, c.reserved, ev.Before, "before debe encadenar con el estado reproducido")
			c.reserved = ev.After
		default:
			require.Equal(t, c.quantity, ev.Before, "before debe encadenar con el estado reproducido")
			c.quantity = ev.After
		}
		replayed[key] = c
	}

	require.Len(t, replayed, len(store.records))
	for key, rec := range store.records {
		got := replayed[key]
		assert.Equal(t, rec.Quantity, got.quantity, "cantidad reproducida para %s", key)
		assert.Equal(t, rec.Reserved, got.reserved, "reserva reproducida para %s", key)
	}
}

// El evento RESTOCK registra la procedencia; los demás tipos la ignoran.
func TestApply_ProcedenciaSoloEnRestock(t *testing.T) {
	uc, store := newEngine(t, inventory.EngineConfig{})
	store.seedProduct("p1", "co1", 0)
	supplierID := "sup-1"

	ctx := context.Background()
	in := change("p1", entity.ChangeTypeRestock, 10)
	in.SupplierID = &supplierID
	_, err := uc.Apply(ctx, in)
	require.NoError(t, err)

	out := change("p1", entity.ChangeTypeSale, -2)
	out.SupplierID = &supplierID // el caller lo manda igual; el motor lo descarta
	_, err = uc.Apply(ctx, out)
	require.NoError(t, err)

	require.Len(t, store.events, 2)
	require.NotNil(t, store.events[0].SupplierID)
	assert.Equal(t, "sup-1", *store.events[0].SupplierID)
	assert.Nil(t, store.events[1].SupplierID, "la procedencia solo aplica a RESTOCK")
}
