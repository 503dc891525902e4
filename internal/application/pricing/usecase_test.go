package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nevera-api/internal/application/dto"
	"github.com/jhoicas/nevera-api/internal/application/notification"
	"github.com/jhoicas/nevera-api/internal/domain"
	"github.com/jhoicas/nevera-api/internal/domain/entity"
	"github.com/jhoicas/nevera-api/internal/infrastructure/memory"
)

func newTestUseCase(t *testing.T) (*UseCase, *notification.Engine, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	notifs := notification.NewEngine(store.Notifications(), store.Items(), 30*24*time.Hour, 2, nil)
	uc := NewUseCase(store.Prices(), store.Items(), notifs, "PLN")
	return uc, notifs, store
}

func seedItem(t *testing.T, store *memory.Store, id, userID string) {
	t.Helper()
	q := decimal.NewFromInt(500)
	require.NoError(t, store.Items().Create(&entity.InventoryItem{
		ID: id, UserID: userID, IngredientRef: "ing-" + id,
		QuantityOriginal: q, QuantityRemaining: q,
		Unit: entity.UnitGram, Status: entity.ItemStatusActive,
	}))
}

// Un precio no positivo se rechaza antes de tocar el ledger.
func TestRecordPrice_PrecioNoPositivoRechazado(t *testing.T) {
	uc, _, store := newTestUseCase(t)
	seedItem(t, store, "item-1", "user-1")

	_, err := uc.RecordPrice(context.Background(), "user-1", "item-1", dto.RecordPriceRequest{
		PricePerUnit: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = uc.RecordPrice(context.Background(), "user-1", "item-1", dto.RecordPriceRequest{
		PricePerUnit: decimal.RequireFromString("-0.5"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

// El historial es append-only: dos registros quedan ambos, del más antiguo al
// más reciente, y current es el vigente.
func TestHistory_AppendOnlyConVigente(t *testing.T) {
	uc, _, store := newTestUseCase(t)
	seedItem(t, store, "item-1", "user-1")
	ctx := context.Background()

	_, err := uc.RecordPrice(ctx, "user-1", "item-1", dto.RecordPriceRequest{
		PricePerUnit: decimal.RequireFromString("0.01"), Source: entity.PriceSourceManual,
	})
	require.NoError(t, err)
	_, err = uc.RecordPrice(ctx, "user-1", "item-1", dto.RecordPriceRequest{
		PricePerUnit: decimal.RequireFromString("0.02"), Source: entity.PriceSourceReceipt,
	})
	require.NoError(t, err)

	resp, err := uc.History(ctx, "user-1", "item-1")
	require.NoError(t, err)
	require.Len(t, resp.History, 2, "corregir un precio no borra el anterior")
	assert.True(t, resp.History[0].PricePerUnit.Equal(decimal.RequireFromString("0.01")))
	assert.True(t, resp.History[1].PricePerUnit.Equal(decimal.RequireFromString("0.02")))
	require.NotNil(t, resp.Current)
	assert.True(t, resp.Current.PricePerUnit.Equal(decimal.RequireFromString("0.02")))
}

// El vigente lo decide observed_at, no el orden de inserción: registrar
// observaciones retroactivas no desbanca al precio más reciente.
func TestHistory_VigentePorObservedAtNoPorInsercion(t *testing.T) {
	uc, _, store := newTestUseCase(t)
	seedItem(t, store, "item-1", "user-1")
	ctx := context.Background()

	base := time.Now().Add(-72 * time.Hour)
	t1 := base
	t2 := base.Add(24 * time.Hour)
	t3 := base.Add(48 * time.Hour)

	// Se inserta primero el más reciente y después los retroactivos.
	_, err := uc.RecordPrice(ctx, "user-1", "item-1", dto.RecordPriceRequest{
		PricePerUnit: decimal.RequireFromString("0.03"), ObservedAt: &t3,
	})
	require.NoError(t, err)
	_, err = uc.RecordPrice(ctx, "user-1", "item-1", dto.RecordPriceRequest{
		PricePerUnit: decimal.RequireFromString("0.01"), ObservedAt: &t1,
	})
	require.NoError(t, err)
	_, err = uc.RecordPrice(ctx, "user-1", "item-1", dto.RecordPriceRequest{
		PricePerUnit: decimal.RequireFromString("0.02"), ObservedAt: &t2,
	})
	require.NoError(t, err)

	resp, err := uc.History(ctx, "user-1", "item-1")
	require.NoError(t, err)
	require.NotNil(t, resp.Current)
	assert.True(t, resp.Current.PricePerUnit.Equal(decimal.RequireFromString("0.03")),
		"el vigente es el de t3 aunque los retroactivos llegaron después")

	require.Len(t, resp.History, 3)
	assert.True(t, resp.History[0].PricePerUnit.Equal(decimal.RequireFromString("0.01")))
	assert.True(t, resp.History[1].PricePerUnit.Equal(decimal.RequireFromString("0.02")))
	assert.True(t, resp.History[2].PricePerUnit.Equal(decimal.RequireFromString("0.03")),
		"el historial va por observed_at, del más antiguo al más reciente")
}

// Con observed_at idéntico desempata el orden de inserción: gana el último
// registrado.
func TestHistory_EmpateDeObservedAtGanaElUltimoRegistrado(t *testing.T) {
	uc, _, store := newTestUseCase(t)
	seedItem(t, store, "item-1", "user-1")
	ctx := context.Background()
	observado := time.Now().Add(-time.Hour)

	_, err := uc.RecordPrice(ctx, "user-1", "item-1", dto.RecordPriceRequest{
		PricePerUnit: decimal.RequireFromString("0.05"), ObservedAt: &observado,
	})
	require.NoError(t, err)
	_, err = uc.RecordPrice(ctx, "user-1", "item-1", dto.RecordPriceRequest{
		PricePerUnit: decimal.RequireFromString("0.07"), ObservedAt: &observado,
	})
	require.NoError(t, err)

	resp, err := uc.History(ctx, "user-1", "item-1")
	require.NoError(t, err)
	require.NotNil(t, resp.Current)
	assert.True(t, resp.Current.PricePerUnit.Equal(decimal.RequireFromString("0.07")),
		"a igual observed_at el vigente es el insertado más tarde")
	require.Len(t, resp.History, 2, "el empate no borra al otro evento")
}

// Sin eventos el historial va vacío y current es nil, no cero.
func TestHistory_LedgerVacio(t *testing.T) {
	uc, _, store := newTestUseCase(t)
	seedItem(t, store, "item-1", "user-1")

	resp, err := uc.History(context.Background(), "user-1", "item-1")
	require.NoError(t, err)
	assert.Empty(t, resp.History)
	assert.Nil(t, resp.Current, "sin precio no hay current; jamás se inventa un cero")
}

// Un cambio de precio vigente emite una notificación info; repetir el mismo
// precio no.
func TestRecordPrice_NotificaSoloCambios(t *testing.T) {
	uc, notifs, store := newTestUseCase(t)
	seedItem(t, store, "item-1", "user-1")
	ctx := context.Background()

	_, err := uc.RecordPrice(ctx, "user-1", "item-1", dto.RecordPriceRequest{
		PricePerUnit: decimal.RequireFromString("0.01"),
	})
	require.NoError(t, err)

	counts, err := notifs.UnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Info, "el primer precio cuenta como cambio")

	_, err = uc.RecordPrice(ctx, "user-1", "item-1", dto.RecordPriceRequest{
		PricePerUnit: decimal.RequireFromString("0.01"),
	})
	require.NoError(t, err)

	counts, err = notifs.UnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Info, "repetir el mismo precio no notifica")
}

// El ledger de un artículo ajeno no es consultable ni escribible.
func TestRecordPrice_OtroUsuarioProhibido(t *testing.T) {
	uc, _, store := newTestUseCase(t)
	seedItem(t, store, "item-1", "user-1")

	_, err := uc.RecordPrice(context.Background(), "user-2", "item-1", dto.RecordPriceRequest{
		PricePerUnit: decimal.RequireFromString("0.01"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.History(context.Background(), "user-2", "item-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
