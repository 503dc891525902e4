package repository

import "github.com/jhoicas/nevera-api/internal/domain/entity"

// PriceEventRepository define el puerto del ledger de precios.
// Append-only por contrato: no existe update ni delete.
type PriceEventRepository interface {
	Append(event *entity.PriceEvent) error
	// Latest devuelve el evento más reciente por ObservedAt, desempatado por
	// orden de inserción (Seq). (nil, nil) si el artículo no tiene precios:
	// "sin precio" nunca se confunde con precio cero.
	Latest(itemID string) (*entity.PriceEvent, error)
	// ListByItem devuelve el historial completo, del más antiguo al más reciente.
	ListByItem(itemID string) ([]*entity.PriceEvent, error)
}
