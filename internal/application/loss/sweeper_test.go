package loss

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nevera-api/internal/application/notification"
	"github.com/jhoicas/nevera-api/internal/domain/entity"
	"github.com/jhoicas/nevera-api/internal/infrastructure/memory"
)

// Un ciclo del barrido convierte caducados, emite alertas de umbral y purga
// los recibos de idempotencia fuera de retención.
func TestRunOnce_CicloCompleto(t *testing.T) {
	store := memory.NewStore()
	engine := notification.NewEngine(store.Notifications(), store.Items(), 30*24*time.Hour, 2, nil)
	converter := NewConverter(memory.NewTxRunner(store), store.Items(), store.Losses(), engine, 2, "PLN", nil)
	sweeper := NewSweeper(converter, engine, store.Receipts(), 5*time.Minute, 24*time.Hour, nil)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	caducado := now.Add(-2 * time.Hour)
	porCaducar := now.Add(24 * time.Hour)
	q := decimal.NewFromInt(100)

	require.NoError(t, store.Items().Create(&entity.InventoryItem{
		ID: "item-expired", UserID: "user-1", IngredientRef: "ing-1",
		QuantityOriginal: q, QuantityRemaining: q,
		Unit: entity.UnitGram, Status: entity.ItemStatusActive, ExpiresAt: &caducado,
	}))
	require.NoError(t, store.Items().Create(&entity.InventoryItem{
		ID: "item-soon", UserID: "user-1", IngredientRef: "ing-2",
		QuantityOriginal: q, QuantityRemaining: q,
		Unit: entity.UnitGram, Status: entity.ItemStatusActive, ExpiresAt: &porCaducar,
	}))

	// Recibo viejo que debe salir en la purga.
	_, _, err := store.Receipts().Claim(&entity.ConsumeReceipt{
		Key: "req-viejo", UserID: "user-1", ItemID: "item-soon",
		Amount: q, Remaining: decimal.Zero, CreatedAt: now.Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	sweeper.RunOnce(context.Background(), now)

	item, err := store.Items().GetByID("item-expired")
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusLost, item.Status, "el caducado se convierte en pérdida")

	counts, err := engine.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Critical, "notificación crítica por la conversión")
	assert.Equal(t, 1, counts.Warning, "alerta de umbral para el que está por caducar")

	rec, err := store.Receipts().Get("req-viejo")
	require.NoError(t, err)
	assert.Nil(t, rec, "el recibo fuera de retención se purga")
}

// El barrido es reentrante: dos ciclos seguidos dejan el mismo estado.
func TestRunOnce_Reentrante(t *testing.T) {
	store := memory.NewStore()
	engine := notification.NewEngine(store.Notifications(), store.Items(), 30*24*time.Hour, 2, nil)
	converter := NewConverter(memory.NewTxRunner(store), store.Items(), store.Losses(), engine, 2, "PLN", nil)
	sweeper := NewSweeper(converter, engine, store.Receipts(), 5*time.Minute, 24*time.Hour, nil)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	caducado := now.Add(-time.Hour)
	q := decimal.NewFromInt(100)
	require.NoError(t, store.Items().Create(&entity.InventoryItem{
		ID: "item-1", UserID: "user-1", IngredientRef: "ing-1",
		QuantityOriginal: q, QuantityRemaining: q,
		Unit: entity.UnitGram, Status: entity.ItemStatusActive, ExpiresAt: &caducado,
	}))

	sweeper.RunOnce(context.Background(), now)
	sweeper.RunOnce(context.Background(), now.Add(5*time.Minute))

	losses, err := store.Losses().ListByUser("user-1", nil, nil)
	require.NoError(t, err)
	assert.Len(t, losses, 1, "un solo registro de pérdida tras dos ciclos")

	counts, err := engine.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Critical, "una sola notificación crítica tras dos ciclos")
}
