package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrItemNotFound         = errors.New("artículo no encontrado")
	ErrNotificationNotFound = errors.New("notificación no encontrada")
	ErrInvalidQuantity      = errors.New("cantidad inválida")
	ErrInvalidPrice         = errors.New("precio inválido")
	ErrInvalidCause         = errors.New("causa de pérdida inválida")
	ErrInsufficientQuantity = errors.New("cantidad disponible insuficiente")
	ErrDuplicateRequest     = errors.New("petición duplicada: ya aplicada")
	ErrIdempotencyKeyReuse  = errors.New("clave de idempotencia reutilizada con otra petición")
	ErrForbidden            = errors.New("acceso denegado")
	ErrInconsistentState    = errors.New("estado inconsistente del registro")
	ErrInvalidInput         = errors.New("entrada inválida")
)
