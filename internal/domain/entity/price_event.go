package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fuentes de una observación de precio.
const (
	PriceSourceManual   = "manual"
	PriceSourceReceipt  = "receipt"
	PriceSourceMarket   = "market"
	PriceSourceEstimate = "estimate"
	PriceSourceAI       = "ai"
)

// PriceEvent es una observación de precio de un artículo. El ledger es
// append-only: no existe update ni delete; una corrección es un evento nuevo
// más reciente. Seq es el orden de inserción y desempata ObservedAt iguales.
type PriceEvent struct {
	ID           string
	ItemID       string
	PricePerUnit decimal.Decimal // > 0 siempre
	Currency     string
	Source       string
	ObservedAt   time.Time
	Seq          int64
	CreatedAt    time.Time
}

// ValidPriceSource verifica que la fuente sea una del enum cerrado.
func ValidPriceSource(source string) bool {
	switch source {
	case PriceSourceManual, PriceSourceReceipt, PriceSourceMarket, PriceSourceEstimate, PriceSourceAI:
		return true
	}
	return false
}
