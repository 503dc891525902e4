package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsumeReceipt guarda el resultado de un consumo aplicado bajo una clave de
// idempotencia. Un reintento con la misma clave devuelve este resultado sin
// volver a mutar el inventario.
type ConsumeReceipt struct {
	Key       string
	UserID    string
	ItemID    string
	Amount    decimal.Decimal
	Remaining decimal.Decimal
	UsedValue *decimal.Decimal // nil si el artículo no tenía precio al consumir
	Currency  string           // moneda del valor usado; vacía si UsedValue es nil
	CreatedAt time.Time
}
