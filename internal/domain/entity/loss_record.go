package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Causas de pérdida.
const (
	LossCauseExpired = "expired"
	LossCauseSpoiled = "spoiled"
	LossCauseDamaged = "damaged"
	LossCauseMistake = "mistake"
	LossCauseOther   = "other"
)

// LossRecord es el registro inmutable de una pérdida de inventario.
// ValueLost es una instantánea del último precio conocido al momento de la
// conversión; nunca se recalcula aunque lleguen eventos de precio posteriores.
// ValueKnown distingue "pérdida con valor conocido" de "pérdida sin precio"
// (en ese caso ValueLost es cero pero QuantityLost se conserva).
type LossRecord struct {
	ID            string
	UserID        string
	ItemID        string
	IngredientRef string
	QuantityLost  decimal.Decimal
	Unit          string
	ValueLost     decimal.Decimal
	Currency      string
	ValueKnown    bool
	Cause         string
	OccurredAt    time.Time
	ContextNote   string
	CreatedAt     time.Time
}

// ValidLossCause verifica que la causa sea una del enum cerrado.
func ValidLossCause(cause string) bool {
	switch cause {
	case LossCauseExpired, LossCauseSpoiled, LossCauseDamaged, LossCauseMistake, LossCauseOther:
		return true
	}
	return false
}
