package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/nevera-api/internal/domain/entity"
	"github.com/jhoicas/nevera-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

const notificationColumns = `id, user_id, item_id, ingredient_ref, level, status, kind,
	days_left, created_at, resolved_at`

// NotificationRepo implementación sobre PostgreSQL (usable con pool o tx).
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create persiste una notificación.
func (r *NotificationRepo) Create(n *entity.Notification) error {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		n.ID, n.UserID, n.ItemID, n.IngredientRef, n.Level, n.Status, n.Kind,
		n.DaysLeft, n.CreatedAt, n.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// GetByID obtiene una notificación; (nil, nil) si no existe.
func (r *NotificationRepo) GetByID(id string) (*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	var n entity.Notification
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&n.ID, &n.UserID, &n.ItemID, &n.IngredientRef, &n.Level, &n.Status, &n.Kind,
		&n.DaysLeft, &n.CreatedAt, &n.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &n, nil
}

// Update persiste estado y resolved_at.
func (r *NotificationRepo) Update(n *entity.Notification) error {
	query := `UPDATE notifications SET status = $2, resolved_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, n.ID, n.Status, n.ResolvedAt)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	return nil
}

// ListActiveByUser lista activas del usuario en orden cronológico.
func (r *NotificationRepo) ListActiveByUser(userID string) ([]*entity.Notification, error) {
	query := `
		SELECT ` + notificationColumns + ` FROM notifications
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, userID, entity.NotificationStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active notifications: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListActiveByItem lista activas asociadas a un artículo.
func (r *NotificationRepo) ListActiveByItem(itemID string) ([]*entity.Notification, error) {
	query := `
		SELECT ` + notificationColumns + ` FROM notifications
		WHERE item_id = $1 AND status = $2
		ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, itemID, entity.NotificationStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list item notifications: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListActive lista todas las activas (limpieza periódica).
func (r *NotificationRepo) ListActive() ([]*entity.Notification, error) {
	query := `
		SELECT ` + notificationColumns + ` FROM notifications
		WHERE status = $1
		ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, entity.NotificationStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active notifications: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// CountActiveByLevel cuenta activas por nivel para el badge.
func (r *NotificationRepo) CountActiveByLevel(userID string) (repository.LevelCounts, error) {
	query := `
		SELECT level, COUNT(*) FROM notifications
		WHERE user_id = $1 AND status = $2
		GROUP BY level`
	rows, err := r.q.Query(context.Background(), query, userID, entity.NotificationStatusActive)
	if err != nil {
		return repository.LevelCounts{}, fmt.Errorf("count notifications: %w", err)
	}
	defer rows.Close()

	var counts repository.LevelCounts
	for rows.Next() {
		var level string
		var n int
		if err := rows.Scan(&level, &n); err != nil {
			return repository.LevelCounts{}, fmt.Errorf("scan count: %w", err)
		}
		switch level {
		case entity.NotificationLevelCritical:
			counts.Critical = n
		case entity.NotificationLevelWarning:
			counts.Warning = n
		case entity.NotificationLevelInfo:
			counts.Info = n
		}
	}
	return counts, rows.Err()
}

// ResolveAllActive marca como resueltas todas las activas del usuario.
func (r *NotificationRepo) ResolveAllActive(userID string, resolvedAt time.Time) (int, error) {
	query := `
		UPDATE notifications SET status = $3, resolved_at = $4
		WHERE user_id = $1 AND status = $2`
	tag, err := r.q.Exec(context.Background(), query,
		userID, entity.NotificationStatusActive, entity.NotificationStatusResolved, resolvedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("resolve all notifications: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// PurgeResolvedBefore elimina resueltas anteriores al corte de retención.
func (r *NotificationRepo) PurgeResolvedBefore(cutoff time.Time) (int, error) {
	query := `DELETE FROM notifications WHERE status = $1 AND resolved_at < $2`
	tag, err := r.q.Exec(context.Background(), query, entity.NotificationStatusResolved, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *NotificationRepo) scanAll(rows pgx.Rows) ([]*entity.Notification, error) {
	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.ItemID, &n.IngredientRef, &n.Level, &n.Status, &n.Kind,
			&n.DaysLeft, &n.CreatedAt, &n.ResolvedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}
