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

var _ repository.ConsumeReceiptRepository = (*ConsumeReceiptRepo)(nil)

const receiptColumns = `key, user_id, item_id, amount, remaining, used_value, currency, created_at`

// ConsumeReceiptRepo implementación sobre PostgreSQL. La clave primaria sobre
// key garantiza primer-escritor-gana entre transacciones concurrentes.
type ConsumeReceiptRepo struct {
	q Querier
}

// NewConsumeReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConsumeReceiptRepository(q Querier) *ConsumeReceiptRepo {
	return &ConsumeReceiptRepo{q: q}
}

// Claim intenta reclamar la clave. ON CONFLICT DO NOTHING evita el error de
// constraint; si no se insertó fila, la clave ya era de otro y se devuelve el
// recibo original.
func (r *ConsumeReceiptRepo) Claim(receipt *entity.ConsumeReceipt) (bool, *entity.ConsumeReceipt, error) {
	query := `
		INSERT INTO consume_receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (key) DO NOTHING`
	tag, err := r.q.Exec(context.Background(), query,
		receipt.Key, receipt.UserID, receipt.ItemID, receipt.Amount,
		receipt.Remaining, receipt.UsedValue, receipt.Currency, receipt.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			existing, gerr := r.Get(receipt.Key)
			if gerr != nil {
				return false, nil, gerr
			}
			return false, existing, nil
		}
		return false, nil, fmt.Errorf("claim receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.Get(receipt.Key)
		if err != nil {
			return false, nil, err
		}
		return false, existing, nil
	}
	return true, nil, nil
}

// Get obtiene el recibo de una clave; (nil, nil) si no existe.
func (r *ConsumeReceiptRepo) Get(key string) (*entity.ConsumeReceipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM consume_receipts WHERE key = $1`
	var rec entity.ConsumeReceipt
	err := r.q.QueryRow(context.Background(), query, key).Scan(
		&rec.Key, &rec.UserID, &rec.ItemID, &rec.Amount,
		&rec.Remaining, &rec.UsedValue, &rec.Currency, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	return &rec, nil
}

// PurgeBefore elimina recibos anteriores al corte de retención.
func (r *ConsumeReceiptRepo) PurgeBefore(cutoff time.Time) (int, error) {
	query := `DELETE FROM consume_receipts WHERE created_at < $1`
	tag, err := r.q.Exec(context.Background(), query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge receipts: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
