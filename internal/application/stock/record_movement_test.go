package stock_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/stock-core/internal/application/dto"
	"github.com/invorya/stock-core/internal/application/stock"
	"github.com/invorya/stock-core/internal/application/usecase"
	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
	"github.com/invorya/stock-core/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del registro de movimientos. La propiedad central: la cantidad
// materializada del artículo siempre coincide con la suma con signo del libro,
// y un movimiento rechazado no deja rastro (ni fila en el libro ni cambio de
// cantidad).
// ──────────────────────────────────────────────────────────────────────────────

type movementFixture struct {
	store     *memory.Store
	items     *usecase.ItemUseCase
	locations *usecase.LocationUseCase
	record    *stock.RecordMovementUseCase
	itemID    string
}

// newMovementFixture crea un artículo con 100 unidades de saldo inicial.
func newMovementFixture(t *testing.T) *movementFixture {
	t.Helper()
	return buildMovementFixture(t, 100)
}

// newEmptyMovementFixture crea el mismo artículo pero sin saldo inicial (y por
// tanto sin movimiento initial en el libro).
func newEmptyMovementFixture(t *testing.T) *movementFixture {
	t.Helper()
	return buildMovementFixture(t, 0)
}

func buildMovementFixture(t *testing.T, initialQuantity int64) *movementFixture {
	t.Helper()
	store := memory.NewStore()
	items := usecase.NewItemUseCase(store.TxRunner(), store.ItemRepository(), store.AssignmentRepository())
	locations := usecase.NewLocationUseCase(store.TxRunner(), store.LocationRepository(), store.AssignmentRepository(), store.ItemRepository())
	record := stock.NewRecordMovementUseCase(store.TxRunner(), store.ItemRepository(), store.LocationRepository())

	created, err := items.Create(context.Background(), dto.CreateItemRequest{
		Reference:       "MAT-001",
		Name:            "Harina de trigo",
		Unit:            "kg",
		Category:        entity.CategoryRaw,
		UnitPrice:       decimal.NewFromFloat(2.50),
		MinQuantity:     20,
		MaxQuantity:     200,
		InitialQuantity: initialQuantity,
	})
	require.NoError(t, err)

	return &movementFixture{store: store, items: items, locations: locations, record: record, itemID: created.ID}
}

// quantity devuelve la cantidad materializada actual del artículo.
func (f *movementFixture) quantity(t *testing.T) int64 {
	t.Helper()
	item, err := f.items.GetByID(context.Background(), f.itemID)
	require.NoError(t, err)
	return item.Quantity
}

// ledgerSum devuelve la suma con signo del libro del artículo.
func (f *movementFixture) ledgerSum(t *testing.T) int64 {
	t.Helper()
	sum, err := f.store.MovementRepository().SumByItem(f.itemID)
	require.NoError(t, err)
	return sum
}

func TestRecord_EntradaYSalida(t *testing.T) {
	f := newMovementFixture(t)
	ctx := context.Background()

	_, err := f.record.Record(ctx, stock.MovementInput{
		ItemID: f.itemID, Type: entity.MovementTypeIn, Quantity: 50, Reference: "OC-001",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(150), f.quantity(t))

	mov, err := f.record.Record(ctx, stock.MovementInput{
		ItemID: f.itemID, Type: entity.MovementTypeOut, Quantity: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-30), mov.SignedQuantity())
	assert.Equal(t, int64(120), f.quantity(t))

	assert.Equal(t, f.quantity(t), f.ledgerSum(t), "el libro debe reproducir la cantidad materializada")
}

func TestRecord_SalidaHastaCero(t *testing.T) {
	f := newMovementFixture(t)

	_, err := f.record.Record(context.Background(), stock.MovementInput{
		ItemID: f.itemID, Type: entity.MovementTypeOut, Quantity: 100,
	})
	require.NoError(t, err)
	assert.Zero(t, f.quantity(t), "vaciar exactamente el stock está permitido")
}

// TestRecord_StockInsuficiente una salida mayor al stock se rechaza sin dejar
// rastro: ni movimiento en el libro ni cambio de cantidad.
func TestRecord_StockInsuficiente(t *testing.T) {
	f := newMovementFixture(t)

	_, err := f.record.Record(context.Background(), stock.MovementInput{
		ItemID: f.itemID, Type: entity.MovementTypeOut, Quantity: 150,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(100), f.quantity(t))
	movements, err := f.store.MovementRepository().ListByItem(f.itemID, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, movements, 1, "solo el movimiento initial; el rechazado no se anexa")
}

func TestRecord_AjustesEnAmbasDirecciones(t *testing.T) {
	f := newMovementFixture(t)
	ctx := context.Background()

	_, err := f.record.Record(ctx, stock.MovementInput{
		ItemID: f.itemID, Type: entity.MovementTypeAdjustmentDown, Quantity: 40, Notes: "merma por inventario físico",
	})
	require.NoError(t, err)
	_, err = f.record.Record(ctx, stock.MovementInput{
		ItemID: f.itemID, Type: entity.MovementTypeAdjustmentUp, Quantity: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(65), f.quantity(t))
	assert.Equal(t, int64(65), f.ledgerSum(t))
}

func TestRecord_EntradasInvalidas(t *testing.T) {
	f := newMovementFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input stock.MovementInput
	}{
		{"sin item_id", stock.MovementInput{Type: entity.MovementTypeIn, Quantity: 10}},
		{"cantidad cero", stock.MovementInput{ItemID: f.itemID, Type: entity.MovementTypeIn, Quantity: 0}},
		{"cantidad negativa", stock.MovementInput{ItemID: f.itemID, Type: entity.MovementTypeIn, Quantity: -5}},
		{"tipo desconocido", stock.MovementInput{ItemID: f.itemID, Type: "transfer", Quantity: 10}},
		{"initial reservado", stock.MovementInput{ItemID: f.itemID, Type: entity.MovementTypeInitial, Quantity: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.record.Record(ctx, tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRecord_ArticuloInexistente(t *testing.T) {
	f := newMovementFixture(t)
	_, err := f.record.Record(context.Background(), stock.MovementInput{
		ItemID: "no-existe", Type: entity.MovementTypeIn, Quantity: 10,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecord_UbicacionInexistente(t *testing.T) {
	f := newMovementFixture(t)
	badLoc := "no-existe"
	_, err := f.record.Record(context.Background(), stock.MovementInput{
		ItemID: f.itemID, Type: entity.MovementTypeIn, Quantity: 10,
		DestinationLocationID: &badLoc,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// assign reparte cantidad del artículo en una ubicación nueva y devuelve su id.
func (f *movementFixture) assign(t *testing.T, name string, qty int64) string {
	t.Helper()
	loc, err := f.locations.CreateLocation(context.Background(), dto.CreateLocationRequest{Name: name})
	require.NoError(t, err)
	_, err = f.locations.Assign(context.Background(), dto.AssignLocationRequest{
		ItemID: f.itemID, LocationID: loc.ID, Quantity: qty,
	})
	require.NoError(t, err)
	return loc.ID
}

// assignedQuantity cantidad asignada del artículo en la ubicación.
func (f *movementFixture) assignedQuantity(t *testing.T, locationID string) int64 {
	t.Helper()
	a, err := f.store.AssignmentRepository().Get(f.itemID, locationID)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a.Quantity
}

// TestRecord_SalidaMantieneCotaDeAsignaciones una salida sobre un artículo con
// todo el stock asignado descuenta de las asignaciones en la misma tx: la cota
// Σ asignado ≤ cantidad total se conserva después de cada operación.
func TestRecord_SalidaMantieneCotaDeAsignaciones(t *testing.T) {
	f := buildMovementFixture(t, 30)
	locA := f.assign(t, "Bodega A", 30)

	_, err := f.record.Record(context.Background(), stock.MovementInput{
		ItemID: f.itemID, Type: entity.MovementTypeOut, Quantity: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20), f.quantity(t))
	sum, err := f.store.AssignmentRepository().SumByItem(f.itemID)
	require.NoError(t, err)
	assert.LessOrEqual(t, sum, f.quantity(t), "la suma asignada nunca supera la cantidad total")
	assert.Equal(t, int64(20), f.assignedQuantity(t, locA))
}

// TestRecord_SalidaConOrigenDescuentaDeEsaUbicacion con ubicación origen
// explícita el descuento sale de esa asignación, no de la primaria.
func TestRecord_SalidaConOrigenDescuentaDeEsaUbicacion(t *testing.T) {
	f := newMovementFixture(t)
	locA := f.assign(t, "Bodega A", 60) // primaria
	locB := f.assign(t, "Bodega B", 40)

	_, err := f.record.Record(context.Background(), stock.MovementInput{
		ItemID: f.itemID, Type: entity.MovementTypeOut, Quantity: 15,
		SourceLocationID: &locB,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(60), f.assignedQuantity(t, locA))
	assert.Equal(t, int64(25), f.assignedQuantity(t, locB))
}

// TestRecord_SalidaConOrigenInsuficiente si la ubicación origen tiene menos de
// lo solicitado la salida se rechaza completa: sin movimiento, sin cambio de
// cantidad ni de asignaciones.
func TestRecord_SalidaConOrigenInsuficiente(t *testing.T) {
	f := newMovementFixture(t)
	f.assign(t, "Bodega A", 60)
	locB := f.assign(t, "Bodega B", 10)

	_, err := f.record.Record(context.Background(), stock.MovementInput{
		ItemID: f.itemID, Type: entity.MovementTypeOut, Quantity: 15,
		SourceLocationID: &locB,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, int64(100), f.quantity(t))
	assert.Equal(t, int64(10), f.assignedQuantity(t, locB))
	movements, err := f.store.MovementRepository().ListByItem(f.itemID, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, movements, 1, "solo el movimiento initial; el rechazado no se anexa")
}

// TestRecord_SalidaSinOrigenDescuentaPrimariaPrimero sin origen explícito el
// excedente se descuenta de la primaria primero y sigue por cantidad
// descendente.
func TestRecord_SalidaSinOrigenDescuentaPrimariaPrimero(t *testing.T) {
	f := buildMovementFixture(t, 30)
	locA := f.assign(t, "Bodega A", 20) // primaria
	locB := f.assign(t, "Bodega B", 10)

	_, err := f.record.Record(context.Background(), stock.MovementInput{
		ItemID: f.itemID, Type: entity.MovementTypeOut, Quantity: 25,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), f.quantity(t))
	assert.Equal(t, int64(0), f.assignedQuantity(t, locA), "la primaria se vacía primero")
	assert.Equal(t, int64(5), f.assignedQuantity(t, locB))
}

// TestRecord_SalidaConHolguraNoTocaAsignaciones si tras la salida la cota se
// sigue cumpliendo, las asignaciones quedan intactas.
func TestRecord_SalidaConHolguraNoTocaAsignaciones(t *testing.T) {
	f := newMovementFixture(t)
	locA := f.assign(t, "Bodega A", 40)

	_, err := f.record.Record(context.Background(), stock.MovementInput{
		ItemID: f.itemID, Type: entity.MovementTypeOut, Quantity: 30,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(70), f.quantity(t))
	assert.Equal(t, int64(40), f.assignedQuantity(t, locA), "40 ≤ 70: no hay excedente que descontar")
}

func TestRecord_ConservaIdentidadDelUsuario(t *testing.T) {
	f := newMovementFixture(t)

	mov, err := f.record.Record(context.Background(), stock.MovementInput{
		ItemID: f.itemID, Type: entity.MovementTypeIn, Quantity: 10,
		UserID: "user-1", UserName: "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", mov.UserID)
	assert.Equal(t, "Ana", mov.UserName)
}
