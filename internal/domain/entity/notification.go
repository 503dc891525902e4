package entity

import "time"

// Niveles de severidad de una notificación.
const (
	NotificationLevelCritical = "critical"
	NotificationLevelWarning  = "warning"
	NotificationLevelInfo     = "info"
)

// Estados del ciclo de vida. El estado solo avanza:
// active → resolved (acción del usuario) o active → expired (limpieza).
const (
	NotificationStatusActive   = "active"
	NotificationStatusResolved = "resolved"
	NotificationStatusExpired  = "expired"
)

// Tipos de evento que originan una notificación. El motor no emite textos en
// ningún idioma: el consumidor traduce Kind + datos estructurados.
const (
	NotificationKindExpirySoon   = "expiry_soon"
	NotificationKindExpired      = "expired"
	NotificationKindItemAdded    = "item_added"
	NotificationKindItemConsumed = "item_consumed"
	NotificationKindItemRemoved  = "item_removed"
	NotificationKindPriceChange  = "price_change"
)

// Notification es un aviso emitido ante una transición de estado de un
// artículo. DaysLeft es el valor calculado al momento de la emisión.
type Notification struct {
	ID            string
	UserID        string
	ItemID        string
	IngredientRef string
	Level         string
	Status        string
	Kind          string
	DaysLeft      int
	CreatedAt     time.Time
	ResolvedAt    *time.Time // nil mientras está activa
}

// IsActive indica si la notificación sigue visible y cuenta para el badge.
func (n *Notification) IsActive() bool {
	return n.Status == NotificationStatusActive
}
