package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ManualLossRequest body para POST /api/losses.
type ManualLossRequest struct {
	ItemID string `json:"item_id"`
	Cause  string `json:"cause"` // spoiled | damaged | mistake | other
	Note   string `json:"note,omitempty"`
}

// LossRecordDTO un registro de pérdida.
type LossRecordDTO struct {
	ID            string          `json:"id"`
	ItemID        string          `json:"item_id"`
	IngredientRef string          `json:"ingredient_ref"`
	QuantityLost  decimal.Decimal `json:"quantity_lost"`
	Unit          string          `json:"unit"`
	ValueLost     decimal.Decimal `json:"value_lost"`
	Currency      string          `json:"currency,omitempty"`
	ValueKnown    bool            `json:"value_known"`
	Cause         string          `json:"cause"`
	OccurredAt    time.Time       `json:"occurred_at"`
	ContextNote   string          `json:"context_note,omitempty"`
}

// LossSummaryDTO resumen de un rango de pérdidas. AvgLoss y TotalLoss suman
// solo registros con valor conocido; UnknownValueCount expone el resto.
type LossSummaryDTO struct {
	Count             int             `json:"count"`
	TotalLoss         decimal.Decimal `json:"total_loss"`
	AvgLoss           decimal.Decimal `json:"avg_loss"`
	UnknownValueCount int             `json:"unknown_value_count"`
}

// ListLossesResponse respuesta de GET /api/losses.
type ListLossesResponse struct {
	Records []LossRecordDTO `json:"records"`
	Summary LossSummaryDTO  `json:"summary"`
}
