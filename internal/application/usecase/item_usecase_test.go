package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/stock-core/internal/application/dto"
	"github.com/invorya/stock-core/internal/application/usecase"
	"github.com/invorya/stock-core/internal/domain"
	"github.com/invorya/stock-core/internal/domain/entity"
	"github.com/invorya/stock-core/internal/domain/repository"
	"github.com/invorya/stock-core/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del caso de uso de artículos sobre el store en memoria. El store da las
// mismas garantías transaccionales que PostgreSQL (lock global en lugar de
// bloqueo por fila), así que las aserciones cubren también la atomicidad
// artículo + movimiento initial.
// ──────────────────────────────────────────────────────────────────────────────

func newItemFixture(t *testing.T) (*memory.Store, *usecase.ItemUseCase) {
	t.Helper()
	store := memory.NewStore()
	uc := usecase.NewItemUseCase(store.TxRunner(), store.ItemRepository(), store.AssignmentRepository())
	return store, uc
}

func validCreateRequest() dto.CreateItemRequest {
	return dto.CreateItemRequest{
		Reference:   "MAT-001",
		Name:        "Harina de trigo",
		Unit:        "kg",
		Category:    entity.CategoryRaw,
		UnitPrice:   decimal.NewFromFloat(2.50),
		MinQuantity: 20,
		MaxQuantity: 200,
	}
}

func TestItemCreate_ConSaldoInicial(t *testing.T) {
	store, uc := newItemFixture(t)

	in := validCreateRequest()
	in.InitialQuantity = 120
	out, err := uc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, int64(120), out.Quantity)
	assert.Equal(t, entity.StatusActive, out.Status)
	assert.True(t, decimal.NewFromFloat(300).Equal(out.TotalValue), "120 × 2.50")

	// El saldo inicial queda en el libro como movimiento "initial".
	sum, err := store.MovementRepository().SumByItem(out.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(120), sum, "el libro debe reproducir la cantidad materializada")
}

func TestItemCreate_SinSaldoInicial(t *testing.T) {
	store, uc := newItemFixture(t)

	out, err := uc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Zero(t, out.Quantity)
	assert.Equal(t, entity.StatusOut, out.Status)

	movements, err := store.MovementRepository().ListByItem(out.ID, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movements, "sin saldo inicial no se escribe ningún movimiento")
}

func TestItemCreate_ReferenciaDuplicada(t *testing.T) {
	_, uc := newItemFixture(t)

	_, err := uc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), validCreateRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemCreate_Validaciones(t *testing.T) {
	_, uc := newItemFixture(t)

	cases := []struct {
		name   string
		mutate func(*dto.CreateItemRequest)
	}{
		{"sin nombre", func(r *dto.CreateItemRequest) { r.Name = "" }},
		{"sin unidad", func(r *dto.CreateItemRequest) { r.Unit = "" }},
		{"categoría inválida", func(r *dto.CreateItemRequest) { r.Category = "liquid" }},
		{"precio negativo", func(r *dto.CreateItemRequest) { r.UnitPrice = decimal.NewFromInt(-1) }},
		{"min negativo", func(r *dto.CreateItemRequest) { r.MinQuantity = -5 }},
		{"max <= min", func(r *dto.CreateItemRequest) { r.MaxQuantity = 20 }},
		{"saldo inicial negativo", func(r *dto.CreateItemRequest) { r.InitialQuantity = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateRequest()
			tc.mutate(&in)
			_, err := uc.Create(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestItemUpdate_FusionaCamposEnviados(t *testing.T) {
	_, uc := newItemFixture(t)

	created, err := uc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	newName := "Harina integral"
	newMin := int64(30)
	out, err := uc.Update(context.Background(), dto.UpdateItemRequest{
		ID:          created.ID,
		Name:        &newName,
		MinQuantity: &newMin,
	})
	require.NoError(t, err)

	assert.Equal(t, "Harina integral", out.Name)
	assert.Equal(t, int64(30), out.MinQuantity)
	assert.Equal(t, "kg", out.Unit, "los campos no enviados se conservan")
	assert.Equal(t, created.Quantity, out.Quantity, "la cantidad no es editable por PUT")
}

func TestItemUpdate_UmbralesInvalidos(t *testing.T) {
	_, uc := newItemFixture(t)

	created, err := uc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	// max 10 queda por debajo del min vigente (20).
	badMax := int64(10)
	_, err = uc.Update(context.Background(), dto.UpdateItemRequest{ID: created.ID, MaxQuantity: &badMax})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemUpdate_NoExiste(t *testing.T) {
	_, uc := newItemFixture(t)
	name := "x"
	_, err := uc.Update(context.Background(), dto.UpdateItemRequest{ID: "no-existe", Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemDelete_ConStockRechaza(t *testing.T) {
	_, uc := newItemFixture(t)

	in := validCreateRequest()
	in.InitialQuantity = 50
	created, err := uc.Create(context.Background(), in)
	require.NoError(t, err)

	err = uc.Delete(context.Background(), created.ID, false)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// El artículo sigue existiendo.
	_, err = uc.GetByID(context.Background(), created.ID)
	assert.NoError(t, err)
}

func TestItemDelete_ForzadoConservaMovimientos(t *testing.T) {
	store, uc := newItemFixture(t)

	in := validCreateRequest()
	in.InitialQuantity = 50
	created, err := uc.Create(context.Background(), in)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), created.ID, true))

	_, err = uc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// El libro es auditoría: los movimientos del artículo eliminado quedan.
	movements, err := store.MovementRepository().ListByItem(created.ID, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestItemDelete_SinStockNiAsignaciones(t *testing.T) {
	_, uc := newItemFixture(t)

	created, err := uc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.NoError(t, uc.Delete(context.Background(), created.ID, false))
}

func TestItemList_FiltraPorEstado(t *testing.T) {
	_, uc := newItemFixture(t)
	ctx := context.Background()

	mk := func(ref string, initial, min int64) {
		in := validCreateRequest()
		in.Reference = ref
		in.InitialQuantity = initial
		in.MinQuantity = min
		_, err := uc.Create(ctx, in)
		require.NoError(t, err)
	}
	mk("MAT-A", 100, 20) // active
	mk("MAT-B", 15, 20)  // low (0 < 15 <= 20)
	mk("MAT-C", 0, 20)   // out

	low, err := uc.List(ctx, repository.ItemFilter{Status: entity.StatusLow})
	require.NoError(t, err)
	require.Equal(t, 1, low.Total)
	assert.Equal(t, "MAT-B", low.Items[0].Reference)
	assert.Equal(t, entity.StatusLow, low.Items[0].Status)

	out, err := uc.List(ctx, repository.ItemFilter{Status: entity.StatusOut})
	require.NoError(t, err)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "MAT-C", out.Items[0].Reference)

	all, err := uc.List(ctx, repository.ItemFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
}

func TestItemList_FiltroInvalido(t *testing.T) {
	_, uc := newItemFixture(t)

	_, err := uc.List(context.Background(), repository.ItemFilter{Status: "agotado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.List(context.Background(), repository.ItemFilter{Category: "liquid"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
