package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/nevera-api/internal/domain/entity"
	"github.com/jhoicas/nevera-api/internal/domain/repository"
)

var _ repository.LossRecordRepository = (*LossRecordRepo)(nil)

// LossRecordRepo implementación sobre PostgreSQL. Append-only: los registros
// de pérdida son instantáneas históricas y no se modifican jamás.
type LossRecordRepo struct {
	q Querier
}

// NewLossRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLossRecordRepository(q Querier) *LossRecordRepo {
	return &LossRecordRepo{q: q}
}

// Create persiste un registro de pérdida.
func (r *LossRecordRepo) Create(record *entity.LossRecord) error {
	query := `
		INSERT INTO loss_records (id, user_id, item_id, ingredient_ref, quantity_lost, unit,
			value_lost, currency, value_known, cause, occurred_at, context_note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.UserID, record.ItemID, record.IngredientRef, record.QuantityLost, record.Unit,
		record.ValueLost, record.Currency, record.ValueKnown, record.Cause, record.OccurredAt,
		record.ContextNote, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create loss record: %w", err)
	}
	return nil
}

// ListByUser lista pérdidas del usuario en un rango opcional sobre
// occurred_at, de la más reciente a la más antigua.
func (r *LossRecordRepo) ListByUser(userID string, from, to *time.Time) ([]*entity.LossRecord, error) {
	query := `
		SELECT id, user_id, item_id, ingredient_ref, quantity_lost, unit,
			value_lost, currency, value_known, cause, occurred_at, context_note, created_at
		FROM loss_records WHERE user_id = $1`
	args := []any{userID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND occurred_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND occurred_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += " ORDER BY occurred_at DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list loss records: %w", err)
	}
	defer rows.Close()

	var list []*entity.LossRecord
	for rows.Next() {
		var rec entity.LossRecord
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.ItemID, &rec.IngredientRef, &rec.QuantityLost, &rec.Unit,
			&rec.ValueLost, &rec.Currency, &rec.ValueKnown, &rec.Cause, &rec.OccurredAt,
			&rec.ContextNote, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan loss record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
