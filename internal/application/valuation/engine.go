// Package valuation calcula el valor monetario del inventario activo a partir
// del ledger de precios y la clasificación de frescura.
//
// Toda la aritmética usa decimal de punto fijo; el redondeo a 2 decimales
// ocurre únicamente en la frontera de presentación (DTOs), nunca dentro de
// las agregaciones.
package valuation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nevera-api/internal/domain/entity"
	"github.com/jhoicas/nevera-api/internal/domain/freshness"
	"github.com/jhoicas/nevera-api/internal/domain/repository"
)

// Engine compone el ledger de precios con el clasificador de frescura.
type Engine struct {
	prices   repository.PriceEventRepository
	warnDays int
}

// NewEngine construye el motor de valoración.
func NewEngine(prices repository.PriceEventRepository, warnDays int) *Engine {
	if warnDays <= 0 {
		warnDays = freshness.DefaultWarnThresholdDays
	}
	return &Engine{prices: prices, warnDays: warnDays}
}

// ItemValue devuelve QuantityRemaining × precio vigente y la moneda del
// último evento. (nil, "") si el artículo no tiene precio registrado: "sin
// precio" nunca se reporta como cero.
func (e *Engine) ItemValue(item *entity.InventoryItem) (*decimal.Decimal, string, error) {
	ev, err := e.prices.Latest(item.ID)
	if err != nil {
		return nil, "", fmt.Errorf("valoración: precio vigente de %s: %w", item.ID, err)
	}
	if ev == nil {
		return nil, "", nil
	}
	v := item.QuantityRemaining.Mul(ev.PricePerUnit)
	return &v, ev.Currency, nil
}

// Summary agregados de valoración de un conjunto de artículos activos.
type Summary struct {
	Total        decimal.Decimal // suma de valores de artículos con precio
	AtRisk       decimal.Decimal // valor de EXPIRING_SOON + EXPIRED
	Currency     string          // moneda del primer artículo con precio
	WithoutPrice int             // artículos excluidos por no tener precio
	ExpiringSoon int
	Expired      int
}

// Summarize calcula el valor total, el valor en riesgo y los conteos de un
// conjunto de artículos. Los artículos sin precio quedan excluidos de las
// sumas pero su número se reporta para que el consumidor distinga "sin
// precios" de un total cero real.
func (e *Engine) Summarize(items []*entity.InventoryItem, now time.Time) (Summary, error) {
	s := Summary{Total: decimal.Zero, AtRisk: decimal.Zero}
	for _, item := range items {
		state := freshness.Classify(item.ExpiresAt, now, e.warnDays)
		switch state {
		case freshness.StateExpiringSoon:
			s.ExpiringSoon++
		case freshness.StateExpired:
			s.Expired++
		}

		value, currency, err := e.ItemValue(item)
		if err != nil {
			return Summary{}, err
		}
		if value == nil {
			s.WithoutPrice++
			continue
		}
		if s.Currency == "" {
			s.Currency = currency
		}
		s.Total = s.Total.Add(*value)
		if state == freshness.StateExpiringSoon || state == freshness.StateExpired {
			s.AtRisk = s.AtRisk.Add(*value)
		}
	}
	return s, nil
}
