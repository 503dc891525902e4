package notification

import (
	"math"
	"sort"
	"time"

	"github.com/jhoicas/nevera-api/internal/application/dto"
	"github.com/jhoicas/nevera-api/internal/domain/entity"
)

// Valores por defecto de la agrupación.
const (
	DefaultGroupWindow  = 5 * time.Minute
	DefaultGroupMinSize = 3
)

// Group es una proyección de solo lectura: consolida ráfagas de
// notificaciones del mismo artículo dentro de una ventana deslizante en una
// sola entrada. No muta ni fusiona los registros subyacentes; resolver la
// vista agrupada implica resolver cada constituyente por separado (de ahí
// ConstituentIDs en el DTO).
//
// Regla: dos o más notificaciones se agrupan si comparten artículo y sus
// CreatedAt caen dentro de la ventana contada desde la más reciente del
// conjunto candidato. Solo se agrupa cuando la ráfaga alcanza minSize; las
// demás pasan sin transformar.
func Group(notifs []*entity.Notification, window time.Duration, minSize int) []dto.NotificationListEntry {
	if window <= 0 {
		window = DefaultGroupWindow
	}
	if minSize <= 0 {
		minSize = DefaultGroupMinSize
	}

	byItem := make(map[string][]*entity.Notification)
	order := make([]string, 0)
	for _, n := range notifs {
		if _, seen := byItem[n.ItemID]; !seen {
			order = append(order, n.ItemID)
		}
		byItem[n.ItemID] = append(byItem[n.ItemID], n)
	}

	var entries []dto.NotificationListEntry
	for _, itemID := range order {
		entries = append(entries, clusterItem(byItem[itemID], window, minSize)...)
	}

	// Más recientes primero, como cualquier bandeja de avisos.
	sort.SliceStable(entries, func(i, j int) bool {
		return entryTime(entries[i]).After(entryTime(entries[j]))
	})
	return entries
}

// clusterItem agrupa las notificaciones de un mismo artículo. Recorre de la
// más reciente a la más antigua: cada ancla absorbe todas las que caen dentro
// de su ventana; el resto forma el siguiente conjunto candidato.
func clusterItem(notifs []*entity.Notification, window time.Duration, minSize int) []dto.NotificationListEntry {
	sorted := make([]*entity.Notification, len(notifs))
	copy(sorted, notifs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	var entries []dto.NotificationListEntry
	for hi := len(sorted) - 1; hi >= 0; {
		anchor := sorted[hi]
		lo := hi
		for lo > 0 && anchor.CreatedAt.Sub(sorted[lo-1].CreatedAt) <= window {
			lo--
		}
		cluster := sorted[lo : hi+1]
		if len(cluster) >= minSize {
			entries = append(entries, dto.NotificationListEntry{Group: buildGroup(cluster)})
		} else {
			for i := len(cluster) - 1; i >= 0; i-- {
				entries = append(entries, dto.NotificationListEntry{Notification: toNotificationDTO(cluster[i])})
			}
		}
		hi = lo - 1
	}
	return entries
}

func buildGroup(cluster []*entity.Notification) *dto.GroupedNotificationDTO {
	latest := cluster[len(cluster)-1]
	earliest := cluster[0]

	kindSet := make(map[string]struct{})
	level := entity.NotificationLevelInfo
	ids := make([]string, 0, len(cluster))
	for _, n := range cluster {
		kindSet[n.Kind] = struct{}{}
		if severity(n.Level) > severity(level) {
			level = n.Level
		}
		ids = append(ids, n.ID)
	}
	kinds := make([]string, 0, len(kindSet))
	for k := range kindSet {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	span := int(math.Ceil(latest.CreatedAt.Sub(earliest.CreatedAt).Minutes()))
	return &dto.GroupedNotificationDTO{
		ItemID:              latest.ItemID,
		IngredientRef:       latest.IngredientRef,
		Level:               level,
		OccurrenceCount:     len(cluster),
		DistinctActionKinds: kinds,
		WindowSpanMinutes:   span,
		LatestAt:            latest.CreatedAt,
		ConstituentIDs:      ids,
	}
}

func severity(level string) int {
	switch level {
	case entity.NotificationLevelCritical:
		return 3
	case entity.NotificationLevelWarning:
		return 2
	default:
		return 1
	}
}

func entryTime(e dto.NotificationListEntry) time.Time {
	if e.Group != nil {
		return e.Group.LatestAt
	}
	return e.Notification.CreatedAt
}

func toNotificationDTO(n *entity.Notification) *dto.NotificationDTO {
	return &dto.NotificationDTO{
		ID:            n.ID,
		ItemID:        n.ItemID,
		IngredientRef: n.IngredientRef,
		Level:         n.Level,
		Kind:          n.Kind,
		DaysLeft:      n.DaysLeft,
		CreatedAt:     n.CreatedAt,
	}
}
