package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/nevera-api/internal/domain/entity"
	"github.com/jhoicas/nevera-api/internal/domain/repository"
)

var _ repository.PriceEventRepository = (*PriceEventRepo)(nil)

// PriceEventRepo implementación del ledger de precios sobre PostgreSQL.
// Solo INSERT y SELECT: el contrato append-only no tiene update ni delete.
type PriceEventRepo struct {
	q Querier
}

// NewPriceEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceEventRepository(q Querier) *PriceEventRepo {
	return &PriceEventRepo{q: q}
}

// Append añade una observación; seq lo asigna la secuencia de la tabla y fija
// el orden de inserción para el desempate.
func (r *PriceEventRepo) Append(event *entity.PriceEvent) error {
	query := `
		INSERT INTO price_events (id, item_id, price_per_unit, currency, source, observed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq`
	err := r.q.QueryRow(context.Background(), query,
		event.ID, event.ItemID, event.PricePerUnit, event.Currency,
		event.Source, event.ObservedAt, event.CreatedAt,
	).Scan(&event.Seq)
	if err != nil {
		return fmt.Errorf("append price event: %w", err)
	}
	return nil
}

// Latest devuelve el evento más reciente por observed_at, desempatado por seq
// (la inserción posterior gana); (nil, nil) con ledger vacío.
func (r *PriceEventRepo) Latest(itemID string) (*entity.PriceEvent, error) {
	query := `
		SELECT id, item_id, price_per_unit, currency, source, observed_at, seq, created_at
		FROM price_events WHERE item_id = $1
		ORDER BY observed_at DESC, seq DESC
		LIMIT 1`
	var ev entity.PriceEvent
	err := r.q.QueryRow(context.Background(), query, itemID).Scan(
		&ev.ID, &ev.ItemID, &ev.PricePerUnit, &ev.Currency, &ev.Source, &ev.ObservedAt, &ev.Seq, &ev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest price event: %w", err)
	}
	return &ev, nil
}

// ListByItem devuelve el historial del más antiguo al más reciente.
func (r *PriceEventRepo) ListByItem(itemID string) ([]*entity.PriceEvent, error) {
	query := `
		SELECT id, item_id, price_per_unit, currency, source, observed_at, seq, created_at
		FROM price_events WHERE item_id = $1
		ORDER BY observed_at ASC, seq ASC`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list price events: %w", err)
	}
	defer rows.Close()

	var list []*entity.PriceEvent
	for rows.Next() {
		var ev entity.PriceEvent
		if err := rows.Scan(
			&ev.ID, &ev.ItemID, &ev.PricePerUnit, &ev.Currency, &ev.Source, &ev.ObservedAt, &ev.Seq, &ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan price event: %w", err)
		}
		list = append(list, &ev)
	}
	return list, rows.Err()
}
