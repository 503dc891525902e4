package repository

import (
	"time"

	"github.com/jhoicas/nevera-api/internal/domain/entity"
)

// LossRecordRepository define el puerto de registros de pérdida.
// Append-only: un LossRecord es inmutable una vez creado.
type LossRecordRepository interface {
	Create(record *entity.LossRecord) error
	// ListByUser lista las pérdidas de un usuario, opcionalmente acotadas por
	// rango de fechas [from, to] sobre OccurredAt, de la más reciente a la
	// más antigua.
	ListByUser(userID string, from, to *time.Time) ([]*entity.LossRecord, error)
}
