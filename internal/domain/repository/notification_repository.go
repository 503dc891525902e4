package repository

import (
	"time"

	"github.com/jhoicas/nevera-api/internal/domain/entity"
)

// LevelCounts conteo de notificaciones activas por nivel.
type LevelCounts struct {
	Critical int
	Warning  int
	Info     int
}

// NotificationRepository define el puerto de persistencia de notificaciones.
type NotificationRepository interface {
	Create(n *entity.Notification) error
	GetByID(id string) (*entity.Notification, error)
	Update(n *entity.Notification) error
	// ListActiveByUser lista las notificaciones activas de un usuario en
	// orden cronológico (CreatedAt ascendente).
	ListActiveByUser(userID string) ([]*entity.Notification, error)
	// ListActiveByItem lista las notificaciones activas asociadas a un artículo.
	ListActiveByItem(itemID string) ([]*entity.Notification, error)
	CountActiveByLevel(userID string) (LevelCounts, error)
	// ResolveAllActive marca como resueltas todas las activas del usuario y
	// devuelve cuántas cambiaron.
	ResolveAllActive(userID string, resolvedAt time.Time) (int, error)
	// PurgeResolvedBefore elimina resueltas con ResolvedAt anterior al corte.
	PurgeResolvedBefore(cutoff time.Time) (int, error)
	// ListActive lista todas las notificaciones activas (limpieza periódica).
	ListActive() ([]*entity.Notification, error)
}
