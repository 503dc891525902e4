package notification

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nevera-api/internal/domain/entity"
)

func notifAt(id, itemID, level, kind string, at time.Time) *entity.Notification {
	return &entity.Notification{
		ID:            id,
		UserID:        "user-1",
		ItemID:        itemID,
		IngredientRef: "ing-" + itemID,
		Level:         level,
		Status:        entity.NotificationStatusActive,
		Kind:          kind,
		CreatedAt:     at,
	}
}

// Cinco notificaciones del mismo artículo en tres minutos → una sola entrada
// agrupada con occurrence_count=5 y los IDs de todos los constituyentes.
func TestGroup_RafagaMismoArticuloSeConsolida(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	var notifs []*entity.Notification
	for i := 0; i < 5; i++ {
		notifs = append(notifs, notifAt(
			fmt.Sprintf("n-%d", i), "item-1",
			entity.NotificationLevelWarning, entity.NotificationKindExpirySoon,
			base.Add(time.Duration(i)*45*time.Second), // 0s..180s
		))
	}

	entries := Group(notifs, 5*time.Minute, 3)

	require.Len(t, entries, 1, "la ráfaga completa debe colapsar en una entrada")
	g := entries[0].Group
	require.NotNil(t, g, "la entrada debe ser un grupo, no una notificación suelta")
	assert.Equal(t, 5, g.OccurrenceCount)
	assert.Len(t, g.ConstituentIDs, 5, "el grupo debe exponer todos los IDs subyacentes")
	assert.Equal(t, entity.NotificationLevelWarning, g.Level)
	assert.Equal(t, []string{entity.NotificationKindExpirySoon}, g.DistinctActionKinds)
	assert.Equal(t, 3, g.WindowSpanMinutes, "180s de ráfaga → techo de 3 minutos")
}

// Por debajo de minSize no se agrupa: las notificaciones pasan individuales.
func TestGroup_MenosDeMinSizePasaIndividual(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	notifs := []*entity.Notification{
		notifAt("n-0", "item-1", entity.NotificationLevelWarning, entity.NotificationKindExpirySoon, base),
		notifAt("n-1", "item-1", entity.NotificationLevelWarning, entity.NotificationKindExpirySoon, base.Add(time.Minute)),
	}

	entries := Group(notifs, 5*time.Minute, 3)

	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Nil(t, e.Group, "dos notificaciones no alcanzan el tamaño mínimo de grupo")
		assert.NotNil(t, e.Notification)
	}
}

// Artículos distintos jamás comparten grupo aunque coincidan en el tiempo.
func TestGroup_ArticulosDistintosNoSeMezclan(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	var notifs []*entity.Notification
	for i := 0; i < 3; i++ {
		notifs = append(notifs, notifAt(
			fmt.Sprintf("a-%d", i), "item-1",
			entity.NotificationLevelWarning, entity.NotificationKindExpirySoon,
			base.Add(time.Duration(i)*time.Minute),
		))
	}
	notifs = append(notifs, notifAt("b-0", "item-2",
		entity.NotificationLevelCritical, entity.NotificationKindExpired, base.Add(time.Minute)))

	entries := Group(notifs, 5*time.Minute, 3)

	require.Len(t, entries, 2)
	var group, single int
	for _, e := range entries {
		if e.Group != nil {
			group++
			assert.Equal(t, "item-1", e.Group.ItemID)
		} else {
			single++
			assert.Equal(t, "item-2", e.Notification.ItemID)
		}
	}
	assert.Equal(t, 1, group)
	assert.Equal(t, 1, single)
}

// Fuera de la ventana deslizante la ráfaga se parte: lo viejo queda aparte.
func TestGroup_FueraDeVentanaSePartenLosGrupos(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	var notifs []*entity.Notification
	// Ráfaga reciente de 3 dentro de la ventana.
	for i := 0; i < 3; i++ {
		notifs = append(notifs, notifAt(
			fmt.Sprintf("r-%d", i), "item-1",
			entity.NotificationLevelWarning, entity.NotificationKindExpirySoon,
			base.Add(time.Duration(i)*time.Minute),
		))
	}
	// Una muy anterior del mismo artículo, fuera de la ventana del ancla.
	notifs = append(notifs, notifAt("viejo", "item-1",
		entity.NotificationLevelWarning, entity.NotificationKindExpirySoon,
		base.Add(-30*time.Minute)))

	entries := Group(notifs, 5*time.Minute, 3)

	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].Group, "la entrada más reciente debe ser el grupo")
	assert.Equal(t, 3, entries[0].Group.OccurrenceCount)
	require.NotNil(t, entries[1].Notification, "la antigua queda individual")
	assert.Equal(t, "viejo", entries[1].Notification.ID)
}

// El nivel del grupo es el más severo de sus constituyentes.
func TestGroup_NivelDelGrupoEsElMasSevero(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	notifs := []*entity.Notification{
		notifAt("n-0", "item-1", entity.NotificationLevelWarning, entity.NotificationKindExpirySoon, base),
		notifAt("n-1", "item-1", entity.NotificationLevelCritical, entity.NotificationKindExpired, base.Add(time.Minute)),
		notifAt("n-2", "item-1", entity.NotificationLevelWarning, entity.NotificationKindExpirySoon, base.Add(2*time.Minute)),
	}

	entries := Group(notifs, 5*time.Minute, 3)

	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Group)
	assert.Equal(t, entity.NotificationLevelCritical, entries[0].Group.Level,
		"un critical dentro de la ráfaga eleva el nivel de todo el grupo")
	assert.ElementsMatch(t,
		[]string{entity.NotificationKindExpired, entity.NotificationKindExpirySoon},
		entries[0].Group.DistinctActionKinds)
}
