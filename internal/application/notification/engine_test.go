package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nevera-api/internal/domain/entity"
	"github.com/jhoicas/nevera-api/internal/infrastructure/memory"
)

func newTestEngine(t *testing.T) (*Engine, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	engine := NewEngine(store.Notifications(), store.Items(), 30*24*time.Hour, 2, nil)
	return engine, store
}

func emit(t *testing.T, e *Engine, level, kind string, at time.Time) string {
	t.Helper()
	id, err := e.Emit(context.Background(), Subject{
		UserID: "user-1", ItemID: "item-1", IngredientRef: "ing-1",
	}, level, kind, at)
	require.NoError(t, err)
	return id
}

// El badge cuenta solo critical+warning: 1 critical + 1 warning + 2 info → total 2.
func TestUnreadCount_InfoNoCuentaParaElBadge(t *testing.T) {
	engine, _ := newTestEngine(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	emit(t, engine, entity.NotificationLevelCritical, entity.NotificationKindExpired, now)
	emit(t, engine, entity.NotificationLevelWarning, entity.NotificationKindExpirySoon, now)
	emit(t, engine, entity.NotificationLevelInfo, entity.NotificationKindItemAdded, now)
	emit(t, engine, entity.NotificationLevelInfo, entity.NotificationKindPriceChange, now)

	counts, err := engine.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Critical)
	assert.Equal(t, 1, counts.Warning)
	assert.Equal(t, 2, counts.Info)
	assert.Equal(t, 2, counts.Total, "total = critical + warning; info nunca suma")
}

// Resolver saca la notificación del badge y del listado; reintento es no-op.
func TestResolve_SoloAvanzaYEsIdempotente(t *testing.T) {
	engine, store := newTestEngine(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	id := emit(t, engine, entity.NotificationLevelWarning, entity.NotificationKindExpirySoon, now)

	require.NoError(t, engine.Resolve(context.Background(), "user-1", id, now))

	counts, err := engine.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Total, "resuelta no cuenta para el badge")

	// Reintento: no falla y el estado no retrocede.
	require.NoError(t, engine.Resolve(context.Background(), "user-1", id, now.Add(time.Hour)))
	n, err := store.Notifications().GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, entity.NotificationStatusResolved, n.Status)
	require.NotNil(t, n.ResolvedAt)
	assert.True(t, n.ResolvedAt.Equal(now), "el ResolvedAt original se conserva")
}

// Resolver la notificación de otro usuario debe fallar con FORBIDDEN.
func TestResolve_OtroUsuarioProhibido(t *testing.T) {
	engine, _ := newTestEngine(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	id := emit(t, engine, entity.NotificationLevelWarning, entity.NotificationKindExpirySoon, now)

	err := engine.Resolve(context.Background(), "user-2", id, now)
	assert.Error(t, err, "una notificación ajena no debe ser resoluble")
}

// ListActive separa las info (colapsadas) de las entradas visibles.
func TestListActive_InfoVanAparte(t *testing.T) {
	engine, _ := newTestEngine(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	emit(t, engine, entity.NotificationLevelWarning, entity.NotificationKindExpirySoon, now)
	emit(t, engine, entity.NotificationLevelInfo, entity.NotificationKindItemAdded, now.Add(time.Minute))

	resp, err := engine.ListActive(context.Background(), "user-1", DefaultGroupWindow, DefaultGroupMinSize)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1, "solo la warning es visible")
	assert.Equal(t, entity.NotificationLevelWarning, resp.Entries[0].Notification.Level)
	require.Len(t, resp.InfoCollapsed, 1, "la info va colapsada aparte")
	assert.Equal(t, entity.NotificationKindItemAdded, resp.InfoCollapsed[0].Kind)
}

// SweepThresholds emite una sola alerta por artículo que cruza el umbral:
// repetir el barrido no duplica la alerta.
func TestSweepThresholds_NoDuplicaAlertas(t *testing.T) {
	engine, store := newTestEngine(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	expires := now.Add(30 * time.Hour) // dentro del umbral de 2 días

	require.NoError(t, store.Items().Create(&entity.InventoryItem{
		ID: "item-1", UserID: "user-1", IngredientRef: "ing-1",
		Unit: entity.UnitGram, Status: entity.ItemStatusActive,
		AcquiredAt: now.Add(-48 * time.Hour), ExpiresAt: &expires,
		CreatedAt: now, UpdatedAt: now,
	}))

	emitted, err := engine.SweepThresholds(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, emitted, "el artículo en EXPIRING_SOON genera una alerta")

	emitted, err = engine.SweepThresholds(context.Background(), now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, emitted, "la alerta activa suprime la re-emisión")

	counts, err := engine.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Warning)
}

// El umbral es inclusivo: caducar exactamente en now + umbral ya genera la
// alerta en este mismo barrido, no en el siguiente.
func TestSweepThresholds_UmbralExactoAlerta(t *testing.T) {
	engine, store := newTestEngine(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	expires := now.Add(2 * 24 * time.Hour) // justo en el umbral de 2 días

	require.NoError(t, store.Items().Create(&entity.InventoryItem{
		ID: "item-1", UserID: "user-1", IngredientRef: "ing-1",
		Unit: entity.UnitGram, Status: entity.ItemStatusActive,
		AcquiredAt: now.Add(-24 * time.Hour), ExpiresAt: &expires,
		CreatedAt: now, UpdatedAt: now,
	}))

	emitted, err := engine.SweepThresholds(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, emitted, "el límite exacto cuenta como EXPIRING_SOON")

	counts, err := engine.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Warning)
}

// Cleanup expira las alertas cuyo artículo ya salió del inventario activo.
func TestCleanup_ExpiraAlertasSinSujeto(t *testing.T) {
	engine, store := newTestEngine(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	id := emit(t, engine, entity.NotificationLevelWarning, entity.NotificationKindExpirySoon, now)

	// El artículo de la alerta no existe en el store: la alerta quedó huérfana.
	_, expired, err := engine.Cleanup(context.Background(), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	n, err := store.Notifications().GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, entity.NotificationStatusExpired, n.Status, "expirada, no resuelta")
}
