// Package notification emite y administra los avisos generados por las
// transiciones de estado del inventario (caducidad, consumo, precio).
//
// El motor nunca produce textos en ningún idioma: emite enums cerrados
// (Level, Kind) y datos estructurados; la traducción es del consumidor.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/nevera-api/internal/application/dto"
	"github.com/jhoicas/nevera-api/internal/domain"
	"github.com/jhoicas/nevera-api/internal/domain/entity"
	"github.com/jhoicas/nevera-api/internal/domain/freshness"
	"github.com/jhoicas/nevera-api/internal/domain/repository"
	"github.com/jhoicas/nevera-api/pkg/logger"
)

// Engine casos de uso de notificaciones.
type Engine struct {
	notifs    repository.NotificationRepository
	items     repository.ItemRepository
	retention time.Duration // ventana de retención de resueltas (limpieza)
	warnDays  int
	log       *logger.Logger
}

// NewEngine construye el motor de notificaciones.
func NewEngine(notifs repository.NotificationRepository, items repository.ItemRepository, retention time.Duration, warnDays int, log *logger.Logger) *Engine {
	if warnDays <= 0 {
		warnDays = freshness.DefaultWarnThresholdDays
	}
	if log == nil {
		log = logger.New(logger.Config{Env: "production", Level: "error"})
	}
	return &Engine{notifs: notifs, items: items, retention: retention, warnDays: warnDays, log: log}
}

// Subject identifica el artículo que origina la notificación.
type Subject struct {
	UserID        string
	ItemID        string
	IngredientRef string
	DaysLeft      int // calculado con la regla ceil al momento de la emisión
}

// Emit crea una notificación activa y devuelve su ID.
func (e *Engine) Emit(_ context.Context, subject Subject, level, kind string, now time.Time) (string, error) {
	n := &entity.Notification{
		ID:            uuid.New().String(),
		UserID:        subject.UserID,
		ItemID:        subject.ItemID,
		IngredientRef: subject.IngredientRef,
		Level:         level,
		Status:        entity.NotificationStatusActive,
		Kind:          kind,
		DaysLeft:      subject.DaysLeft,
		CreatedAt:     now,
	}
	if err := e.notifs.Create(n); err != nil {
		return "", err
	}
	return n.ID, nil
}

// Resolve marca una notificación como resuelta. El estado solo avanza: una
// notificación resuelta o expirada deja de ser resoluble y queda excluida
// para siempre de los listados activos y del badge.
func (e *Engine) Resolve(_ context.Context, userID, notificationID string, now time.Time) error {
	n, err := e.notifs.GetByID(notificationID)
	if err != nil {
		return err
	}
	if n == nil {
		return domain.ErrNotificationNotFound
	}
	if n.UserID != userID {
		return domain.ErrForbidden
	}
	if !n.IsActive() {
		// Reintento sobre una ya resuelta/expirada: no-op, nunca retrocede.
		return nil
	}
	n.Status = entity.NotificationStatusResolved
	n.ResolvedAt = &now
	return e.notifs.Update(n)
}

// ResolveAll resuelve todas las notificaciones activas del usuario.
func (e *Engine) ResolveAll(_ context.Context, userID string, now time.Time) (int, error) {
	return e.notifs.ResolveAllActive(userID, now)
}

// UnreadCount devuelve el conteo del badge: total = critical + warning.
// Las de nivel info nunca cuentan para el badge.
func (e *Engine) UnreadCount(_ context.Context, userID string) (dto.UnreadCountDTO, error) {
	counts, err := e.notifs.CountActiveByLevel(userID)
	if err != nil {
		return dto.UnreadCountDTO{}, err
	}
	return dto.UnreadCountDTO{
		Critical: counts.Critical,
		Warning:  counts.Warning,
		Info:     counts.Info,
		Total:    counts.Critical + counts.Warning,
	}, nil
}

// ListActive devuelve el listado de notificaciones activas del usuario con la
// proyección agrupada aplicada a critical/warning; las info van aparte,
// colapsadas por defecto y fuera de cualquier agrupación.
func (e *Engine) ListActive(_ context.Context, userID string, window time.Duration, minSize int) (*dto.ListNotificationsResponse, error) {
	active, err := e.notifs.ListActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	var visible []*entity.Notification
	var infos []dto.NotificationDTO
	for _, n := range active {
		if n.Level == entity.NotificationLevelInfo {
			infos = append(infos, *toNotificationDTO(n))
			continue
		}
		visible = append(visible, n)
	}
	return &dto.ListNotificationsResponse{
		Entries:       Group(visible, window, minSize),
		InfoCollapsed: infos,
	}, nil
}

// SweepThresholds emite una alerta warning por cada artículo activo que entró
// en EXPIRING_SOON y aún no tiene una alerta de caducidad activa. Idempotente
// por construcción: la alerta existente suprime la re-emisión.
func (e *Engine) SweepThresholds(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(time.Duration(e.warnDays) * 24 * time.Hour)
	candidates, err := e.items.ListActiveExpiringBefore(cutoff)
	if err != nil {
		return 0, err
	}
	emitted := 0
	for _, item := range candidates {
		if freshness.Classify(item.ExpiresAt, now, e.warnDays) != freshness.StateExpiringSoon {
			continue
		}
		active, err := e.notifs.ListActiveByItem(item.ID)
		if err != nil {
			e.log.Warn().Err(err).Str("item_id", item.ID).Msg("alertas de caducidad: lectura de activas")
			continue
		}
		if hasExpiryNotification(active) {
			continue
		}
		subject := Subject{
			UserID:        item.UserID,
			ItemID:        item.ID,
			IngredientRef: item.IngredientRef,
			DaysLeft:      freshness.DaysLeft(*item.ExpiresAt, now),
		}
		if _, err := e.Emit(ctx, subject, entity.NotificationLevelWarning, entity.NotificationKindExpirySoon, now); err != nil {
			e.log.Warn().Err(err).Str("item_id", item.ID).Msg("alertas de caducidad: emisión")
			continue
		}
		emitted++
	}
	return emitted, nil
}

// Cleanup aplica la política temporal (no es una acción de usuario):
//   - purga resueltas con ResolvedAt anterior a la ventana de retención;
//   - pasa a expired las activas cuyo sujeto ya no cumple la condición que
//     las originó (artículo fuera del inventario activo, o alerta de
//     caducidad de un artículo que volvió a FRESH).
func (e *Engine) Cleanup(_ context.Context, now time.Time) (purged, expired int, err error) {
	cutoff := now.Add(-e.retention)
	purged, err = e.notifs.PurgeResolvedBefore(cutoff)
	if err != nil {
		return 0, 0, err
	}

	active, err := e.notifs.ListActive()
	if err != nil {
		return purged, 0, err
	}
	for _, n := range active {
		stale, err := e.isStale(n, now)
		if err != nil {
			e.log.Warn().Err(err).Str("notification_id", n.ID).Msg("limpieza: verificación de vigencia")
			continue
		}
		if !stale {
			continue
		}
		n.Status = entity.NotificationStatusExpired
		if err := e.notifs.Update(n); err != nil {
			e.log.Warn().Err(err).Str("notification_id", n.ID).Msg("limpieza: expirar notificación")
			continue
		}
		expired++
	}
	return purged, expired, nil
}

// isStale decide si una notificación activa dejó de tener sentido.
func (e *Engine) isStale(n *entity.Notification, now time.Time) (bool, error) {
	item, err := e.items.GetByID(n.ItemID)
	if err != nil {
		return false, err
	}
	if item == nil {
		return true, nil
	}
	switch n.Kind {
	case entity.NotificationKindExpirySoon:
		if !item.IsActive() {
			return true, nil
		}
		state := freshness.Classify(item.ExpiresAt, now, e.warnDays)
		return state != freshness.StateExpiringSoon && state != freshness.StateExpired, nil
	case entity.NotificationKindExpired:
		// La conversión deja el artículo en LOST; el aviso crítico sigue
		// vigente hasta que el usuario lo resuelva.
		if item.Status == entity.ItemStatusLost {
			return false, nil
		}
		if !item.IsActive() {
			return true, nil
		}
		return freshness.Classify(item.ExpiresAt, now, e.warnDays) != freshness.StateExpired, nil
	default:
		// Eventos puntuales (alta, consumo, precio): caducan con la retención.
		return n.CreatedAt.Before(now.Add(-e.retention)), nil
	}
}

func hasExpiryNotification(notifs []*entity.Notification) bool {
	for _, n := range notifs {
		if n.Kind == entity.NotificationKindExpirySoon || n.Kind == entity.NotificationKindExpired {
			return true
		}
	}
	return false
}

// ResolveAllForItem resuelve todas las activas de un artículo usando el
// repositorio recibido; pensado para ejecutarse dentro de la transacción de
// una conversión a pérdida, de modo que terminar el artículo y resolver sus
// avisos sea atómico.
func ResolveAllForItem(notifs repository.NotificationRepository, itemID string, now time.Time) error {
	active, err := notifs.ListActiveByItem(itemID)
	if err != nil {
		return err
	}
	for _, n := range active {
		n.Status = entity.NotificationStatusResolved
		n.ResolvedAt = &now
		if err := notifs.Update(n); err != nil {
			return err
		}
	}
	return nil
}
