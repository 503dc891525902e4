package dto

import "time"

// NotificationDTO una notificación individual.
type NotificationDTO struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"item_id"`
	IngredientRef string    `json:"ingredient_ref"`
	Level         string    `json:"level"`
	Kind          string    `json:"kind"`
	DaysLeft      int       `json:"days_left"`
	CreatedAt     time.Time `json:"created_at"`
}

// GroupedNotificationDTO entrada consolidada de una ráfaga de notificaciones
// del mismo artículo dentro de la ventana deslizante. Es una proyección de
// lectura: ConstituentIDs permite resolver cada registro subyacente.
type GroupedNotificationDTO struct {
	ItemID              string    `json:"item_id"`
	IngredientRef       string    `json:"ingredient_ref"`
	Level               string    `json:"level"` // el más severo del grupo
	OccurrenceCount     int       `json:"occurrence_count"`
	DistinctActionKinds []string  `json:"distinct_action_kinds"`
	WindowSpanMinutes   int       `json:"window_span_minutes"`
	LatestAt            time.Time `json:"latest_at"`
	ConstituentIDs      []string  `json:"constituent_ids"`
}

// NotificationListEntry una entrada del listado: o bien una notificación
// individual, o bien un grupo (exactamente uno de los dos campos no es nil).
type NotificationListEntry struct {
	Notification *NotificationDTO        `json:"notification,omitempty"`
	Group        *GroupedNotificationDTO `json:"group,omitempty"`
}

// ListNotificationsResponse respuesta de GET /api/notifications. Las de nivel
// info van aparte y colapsadas por defecto en cualquier listado.
type ListNotificationsResponse struct {
	Entries       []NotificationListEntry `json:"entries"`
	InfoCollapsed []NotificationDTO       `json:"info_collapsed"`
}

// ResolveGroupRequest body para resolver un grupo: cada constituyente se
// resuelve individualmente (resolver el grupo no es una operación distinta).
type ResolveGroupRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

// UnreadCountDTO conteo para el badge. Total = Critical + Warning; info nunca
// cuenta para el badge.
type UnreadCountDTO struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}
