package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordPriceRequest body para POST /api/fridge/items/:id/prices.
type RecordPriceRequest struct {
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Currency     string          `json:"currency,omitempty"`
	Source       string          `json:"source"`
	ObservedAt   *time.Time      `json:"observed_at,omitempty"` // por defecto: ahora
}

// PriceEventDTO un evento del historial de precios.
type PriceEventDTO struct {
	ID           string          `json:"id"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Currency     string          `json:"currency"`
	Source       string          `json:"source"`
	ObservedAt   time.Time       `json:"observed_at"`
}

// PriceHistoryResponse historial completo más el precio vigente.
// Current es nil si el ledger está vacío para el artículo.
type PriceHistoryResponse struct {
	ItemID  string          `json:"item_id"`
	Current *PriceEventDTO  `json:"current,omitempty"`
	History []PriceEventDTO `json:"history"`
}
