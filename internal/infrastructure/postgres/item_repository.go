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

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, user_id, ingredient_ref, quantity_original, quantity_remaining,
	unit, status, acquired_at, expires_at, created_at, updated_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un artículo nuevo.
func (r *ItemRepo) Create(item *entity.InventoryItem) error {
	query := `
		INSERT INTO fridge_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.UserID, item.IngredientRef, item.QuantityOriginal, item.QuantityRemaining,
		item.Unit, item.Status, item.AcquiredAt, item.ExpiresAt, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID; (nil, nil) si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM fridge_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene el artículo y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM fridge_items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// Update persiste cantidad, estado y marcas de tiempo del artículo.
func (r *ItemRepo) Update(item *entity.InventoryItem) error {
	query := `
		UPDATE fridge_items
		SET quantity_original = $2, quantity_remaining = $3, status = $4,
		    expires_at = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.QuantityOriginal, item.QuantityRemaining, item.Status,
		item.ExpiresAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update item %s: fila inexistente", item.ID)
	}
	return nil
}

// ListActiveByUser lista los artículos activos de un usuario, los más
// próximos a caducar primero (sin caducidad al final).
func (r *ItemRepo) ListActiveByUser(userID string) ([]*entity.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + ` FROM fridge_items
		WHERE user_id = $1 AND status = $2
		ORDER BY expires_at ASC NULLS LAST, created_at ASC`
	rows, err := r.q.Query(context.Background(), query, userID, entity.ItemStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active items: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListActiveExpiringBefore lista artículos activos (todos los usuarios) con
// expires_at en o antes del corte. El corte es inclusivo: caducar justo en el
// umbral ya cuenta como dentro.
func (r *ItemRepo) ListActiveExpiringBefore(cutoff time.Time) ([]*entity.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + ` FROM fridge_items
		WHERE status = $1 AND expires_at IS NOT NULL AND expires_at <= $2
		ORDER BY expires_at ASC`
	rows, err := r.q.Query(context.Background(), query, entity.ItemStatusActive, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list expiring items: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *ItemRepo) scanOne(row pgx.Row) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := row.Scan(
		&item.ID, &item.UserID, &item.IngredientRef, &item.QuantityOriginal, &item.QuantityRemaining,
		&item.Unit, &item.Status, &item.AcquiredAt, &item.ExpiresAt, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &item, nil
}

func (r *ItemRepo) scanAll(rows pgx.Rows) ([]*entity.InventoryItem, error) {
	var list []*entity.InventoryItem
	for rows.Next() {
		var item entity.InventoryItem
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.IngredientRef, &item.QuantityOriginal, &item.QuantityRemaining,
			&item.Unit, &item.Status, &item.AcquiredAt, &item.ExpiresAt, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}
