package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate aplica el esquema de forma idempotente al arrancar. price_events y
// loss_records no tienen camino de UPDATE/DELETE en el código: son append-only
// por contrato.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS fridge_items (
			id                 TEXT PRIMARY KEY,
			user_id            TEXT NOT NULL,
			ingredient_ref     TEXT NOT NULL,
			quantity_original  NUMERIC(14,4) NOT NULL CHECK (quantity_original >= 0),
			quantity_remaining NUMERIC(14,4) NOT NULL CHECK (quantity_remaining >= 0),
			unit               TEXT NOT NULL,
			status             TEXT NOT NULL,
			acquired_at        TIMESTAMPTZ NOT NULL,
			expires_at         TIMESTAMPTZ,
			created_at         TIMESTAMPTZ NOT NULL,
			updated_at         TIMESTAMPTZ NOT NULL,
			CHECK (quantity_remaining <= quantity_original)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fridge_items_user_active
			ON fridge_items (user_id) WHERE status = 'ACTIVE'`,
		`CREATE INDEX IF NOT EXISTS idx_fridge_items_expires
			ON fridge_items (expires_at) WHERE status = 'ACTIVE'`,

		`CREATE TABLE IF NOT EXISTS price_events (
			id             TEXT PRIMARY KEY,
			item_id        TEXT NOT NULL REFERENCES fridge_items(id),
			price_per_unit NUMERIC(14,4) NOT NULL CHECK (price_per_unit > 0),
			currency       TEXT NOT NULL,
			source         TEXT NOT NULL,
			observed_at    TIMESTAMPTZ NOT NULL,
			seq            BIGSERIAL,
			created_at     TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_events_item
			ON price_events (item_id, observed_at, seq)`,

		`CREATE TABLE IF NOT EXISTS loss_records (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL,
			item_id        TEXT NOT NULL,
			ingredient_ref TEXT NOT NULL,
			quantity_lost  NUMERIC(14,4) NOT NULL,
			unit           TEXT NOT NULL,
			value_lost     NUMERIC(14,4) NOT NULL,
			currency       TEXT NOT NULL,
			value_known    BOOLEAN NOT NULL,
			cause          TEXT NOT NULL,
			occurred_at    TIMESTAMPTZ NOT NULL,
			context_note   TEXT NOT NULL DEFAULT '',
			created_at     TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_loss_records_user
			ON loss_records (user_id, occurred_at)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL,
			item_id        TEXT NOT NULL,
			ingredient_ref TEXT NOT NULL,
			level          TEXT NOT NULL,
			status         TEXT NOT NULL,
			kind           TEXT NOT NULL,
			days_left      INTEGER NOT NULL DEFAULT 0,
			created_at     TIMESTAMPTZ NOT NULL,
			resolved_at    TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_active
			ON notifications (user_id, created_at) WHERE status = 'active'`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_item_active
			ON notifications (item_id) WHERE status = 'active'`,

		`CREATE TABLE IF NOT EXISTS consume_receipts (
			key        TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			item_id    TEXT NOT NULL,
			amount     NUMERIC(14,4) NOT NULL,
			remaining  NUMERIC(14,4) NOT NULL,
			used_value NUMERIC(14,4),
			currency   TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("aplicar esquema: %w", err)
		}
	}
	return nil
}
