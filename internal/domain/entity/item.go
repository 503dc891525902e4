package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un artículo de la nevera.
const (
	ItemStatusActive   = "ACTIVE"   // en inventario, cantidad > 0
	ItemStatusConsumed = "CONSUMED" // cantidad llegó a cero por consumo
	ItemStatusLost     = "LOST"     // convertido en registro de pérdida
	ItemStatusRemoved  = "REMOVED"  // eliminado manualmente, sin pérdida
)

// Categorías de unidad. El motor no convierte entre unidades.
const (
	UnitGram       = "g"
	UnitMilliliter = "ml"
	UnitPiece      = "pc"
)

// InventoryItem representa un artículo perecedero en la nevera de un usuario.
// IngredientRef es una referencia opaca al catálogo externo de ingredientes;
// el motor nunca deriva nombres ni categorías a partir de ella.
type InventoryItem struct {
	ID                string
	UserID            string
	IngredientRef     string
	QuantityOriginal  decimal.Decimal
	QuantityRemaining decimal.Decimal
	Unit              string
	Status            string
	AcquiredAt        time.Time
	ExpiresAt         *time.Time // nil = sin caducidad registrada
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsActive indica si el artículo sigue en el inventario activo.
func (i *InventoryItem) IsActive() bool {
	return i.Status == ItemStatusActive
}

// ValidUnit verifica que la unidad sea una de las categorías soportadas.
func ValidUnit(unit string) bool {
	switch unit {
	case UnitGram, UnitMilliliter, UnitPiece:
		return true
	}
	return false
}
