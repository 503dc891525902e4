package loss

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

type converterFixture struct {
	store     *memory.Store
	converter *Converter
	engine    *notification.Engine
}

func newConverterFixture(t *testing.T) *converterFixture {
	t.Helper()
	store := memory.NewStore()
	engine := notification.NewEngine(store.Notifications(), store.Items(), 30*24*time.Hour, 2, nil)
	converter := NewConverter(memory.NewTxRunner(store), store.Items(), store.Losses(), engine, 2, "PLN", nil)
	return &converterFixture{store: store, converter: converter, engine: engine}
}

func (f *converterFixture) addItem(t *testing.T, id, qty string, expiresAt time.Time) {
	t.Helper()
	q := decimal.RequireFromString(qty)
	require.NoError(t, f.store.Items().Create(&entity.InventoryItem{
		ID: id, UserID: "user-1", IngredientRef: "ing-" + id,
		QuantityOriginal: q, QuantityRemaining: q,
		Unit: entity.UnitGram, Status: entity.ItemStatusActive,
		AcquiredAt: expiresAt.Add(-72 * time.Hour), ExpiresAt: &expiresAt,
	}))
}

func (f *converterFixture) addPrice(t *testing.T, itemID, price string, at time.Time) {
	t.Helper()
	require.NoError(t, f.store.Prices().Append(&entity.PriceEvent{
		ID: "ev-" + itemID, ItemID: itemID,
		PricePerUnit: decimal.RequireFromString(price),
		Currency:     "PLN", Source: entity.PriceSourceManual,
		ObservedAt: at, CreatedAt: at,
	}))
}

// 300 g caducados a 0.015/g → un registro de pérdida de 4.50 con el artículo
// fuera del inventario activo.
func TestSweepExpired_ConvierteConInstantaneaDeValor(t *testing.T) {
	f := newConverterFixture(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.addItem(t, "item-1", "300", now.Add(-2*time.Hour))
	f.addPrice(t, "item-1", "0.015", now.Add(-24*time.Hour))

	records, err := f.converter.SweepExpired(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.True(t, rec.ValueKnown)
	assert.True(t, rec.ValueLost.Equal(decimal.RequireFromString("4.5")), "300 × 0.015 = 4.5")
	assert.Equal(t, entity.LossCauseExpired, rec.Cause)
	assert.True(t, rec.OccurredAt.Equal(now.Add(-2*time.Hour)),
		"para caducidad la pérdida ocurre al caducar, no al barrer")

	item, err := f.store.Items().GetByID("item-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusLost, item.Status)
}

// Ejecutar el barrido dos veces no duplica registros: el artículo convertido
// sale del conjunto activo.
func TestSweepExpired_DobleBarridoNoDuplica(t *testing.T) {
	f := newConverterFixture(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.addItem(t, "item-1", "300", now.Add(-2*time.Hour))

	first, err := f.converter.SweepExpired(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := f.converter.SweepExpired(context.Background(), now.Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, second, "el segundo barrido no encuentra candidatos")

	resp, err := f.converter.ListRecords(context.Background(), "user-1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Summary.Count)
}

// Sin precio en el ledger la pérdida se registra con valor desconocido, que no
// es lo mismo que valor cero.
func TestSweepExpired_SinPrecioValorDesconocido(t *testing.T) {
	f := newConverterFixture(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.addItem(t, "item-1", "500", now.Add(-time.Hour))

	records, err := f.converter.SweepExpired(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].ValueKnown)
	assert.True(t, records[0].QuantityLost.Equal(decimal.RequireFromString("500")),
		"la cantidad perdida se conserva aunque el valor sea desconocido")

	resp, err := f.converter.ListRecords(context.Background(), "user-1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Summary.UnknownValueCount)
	assert.True(t, resp.Summary.TotalLoss.IsZero(),
		"el total no incluye registros de valor desconocido")
}

// La conversión resuelve las notificaciones activas del artículo en la misma
// transacción.
func TestSweepExpired_ResuelveNotificacionesDelArticulo(t *testing.T) {
	f := newConverterFixture(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.addItem(t, "item-1", "300", now.Add(-time.Hour))

	_, err := f.engine.Emit(context.Background(), notification.Subject{
		UserID: "user-1", ItemID: "item-1", IngredientRef: "ing-item-1", DaysLeft: 1,
	}, entity.NotificationLevelWarning, entity.NotificationKindExpirySoon, now.Add(-24*time.Hour))
	require.NoError(t, err)

	_, err = f.converter.SweepExpired(context.Background(), now)
	require.NoError(t, err)

	counts, err := f.engine.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Warning, "la alerta previa quedó resuelta al convertir")
	assert.Equal(t, 1, counts.Critical, "queda la notificación crítica de caducidad")
}

// Una pérdida manual exige una causa del enum cerrado.
func TestManualLoss_CausaInvalidaRechazada(t *testing.T) {
	f := newConverterFixture(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.addItem(t, "item-1", "300", now.Add(48*time.Hour))

	_, err := f.converter.ManualLoss(context.Background(), "user-1", dto.ManualLossRequest{
		ItemID: "item-1", Cause: "se me olvidó",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCause)
}

// Una pérdida manual spoiled no exige caducidad y congela el valor vigente.
func TestManualLoss_SpoiledSinCaducidad(t *testing.T) {
	f := newConverterFixture(t)
	now := time.Now()
	f.addItem(t, "item-1", "200", now.Add(96*time.Hour))
	f.addPrice(t, "item-1", "0.05", now.Add(-time.Hour))

	rec, err := f.converter.ManualLoss(context.Background(), "user-1", dto.ManualLossRequest{
		ItemID: "item-1", Cause: entity.LossCauseSpoiled, Note: "olor raro",
	})
	require.NoError(t, err)
	assert.True(t, rec.ValueKnown)
	assert.True(t, rec.ValueLost.Equal(decimal.RequireFromString("10")), "200 × 0.05 = 10")
	assert.Equal(t, "olor raro", rec.ContextNote)

	item, err := f.store.Items().GetByID("item-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusLost, item.Status)
}

// La pérdida de otro usuario está prohibida.
func TestManualLoss_OtroUsuarioProhibido(t *testing.T) {
	f := newConverterFixture(t)
	f.addItem(t, "item-1", "100", time.Now().Add(48*time.Hour))

	_, err := f.converter.ManualLoss(context.Background(), "user-2", dto.ManualLossRequest{
		ItemID: "item-1", Cause: entity.LossCauseDamaged,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// El valor de una pérdida es una instantánea: precios posteriores no la tocan.
func TestLossRecord_ValorCongelado(t *testing.T) {
	f := newConverterFixture(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f.addItem(t, "item-1", "100", now.Add(-time.Hour))
	f.addPrice(t, "item-1", "0.10", now.Add(-24*time.Hour))

	records, err := f.converter.SweepExpired(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Llega un precio nuevo después de la conversión.
	require.NoError(t, f.store.Prices().Append(&entity.PriceEvent{
		ID: "ev-late", ItemID: "item-1",
		PricePerUnit: decimal.RequireFromString("9.99"),
		Currency:     "PLN", Source: entity.PriceSourceManual,
		ObservedAt: now.Add(time.Hour), CreatedAt: now.Add(time.Hour),
	}))

	resp, err := f.converter.ListRecords(context.Background(), "user-1", nil, nil)
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	assert.True(t, resp.Records[0].ValueLost.Equal(decimal.RequireFromString("10")),
		"100 × 0.10 = 10; el precio posterior no recalcula la pérdida")
}
