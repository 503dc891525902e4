package repository

import (
	"time"

	"github.com/jhoicas/nevera-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia de artículos de la nevera.
// GetByID devuelve (nil, nil) si el artículo no existe.
type ItemRepository interface {
	Create(item *entity.InventoryItem) error
	GetByID(id string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila para mutación (SELECT FOR UPDATE).
	// Toda mutación de QuantityRemaining pasa por este bloqueo por artículo.
	GetForUpdate(id string) (*entity.InventoryItem, error)
	Update(item *entity.InventoryItem) error
	// ListActiveByUser lista los artículos activos de un usuario (excluye
	// consumidos, perdidos y eliminados).
	ListActiveByUser(userID string) ([]*entity.InventoryItem, error)
	// ListActiveExpiringBefore lista artículos activos de todos los usuarios
	// con expires_at anterior al corte. Con corte = now alimenta el barrido de
	// pérdidas; con corte = now + umbral alimenta las alertas de caducidad.
	ListActiveExpiringBefore(cutoff time.Time) ([]*entity.InventoryItem, error)
}
