// Package freshness clasifica el estado de frescura de un artículo a partir
// de su fecha de caducidad (servicio de dominio, puro y sin I/O).
//
// Es la única fuente de verdad para "días restantes" en todo el motor:
// valoración, conversión de pérdidas y notificaciones usan DaysLeft, de modo
// que nunca pueden discrepar sobre el estado de un artículo.
package freshness

import (
	"math"
	"time"
)

// State es el estado de frescura derivado; nunca se persiste.
type State string

const (
	StateFresh        State = "FRESH"
	StateExpiringSoon State = "EXPIRING_SOON"
	StateExpired      State = "EXPIRED"
	StateUnknown      State = "UNKNOWN" // sin fecha de caducidad
)

// DefaultWarnThresholdDays umbral por defecto para EXPIRING_SOON.
const DefaultWarnThresholdDays = 2

// DaysLeft devuelve los días restantes hasta la caducidad: ceil((expiresAt-now)/24h).
// Caducidad hoy mismo cuenta como 1 si aún no pasó; valores negativos indican
// días transcurridos desde la caducidad.
func DaysLeft(expiresAt, now time.Time) int {
	diff := expiresAt.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// Classify determina el estado de frescura de (expiresAt, now, warnThresholdDays).
//
//	expiresAt == nil           → UNKNOWN
//	now > expiresAt            → EXPIRED
//	restante ≤ umbral (días)   → EXPIRING_SOON
//	en otro caso               → FRESH
func Classify(expiresAt *time.Time, now time.Time, warnThresholdDays int) State {
	if expiresAt == nil {
		return StateUnknown
	}
	if now.After(*expiresAt) {
		return StateExpired
	}
	if expiresAt.Sub(now) <= time.Duration(warnThresholdDays)*24*time.Hour {
		return StateExpiringSoon
	}
	return StateFresh
}
