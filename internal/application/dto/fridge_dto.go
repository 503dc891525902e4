package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddItemRequest body para POST /api/fridge/items.
// InitialPrice opcional registra el primer evento de precio en la misma petición.
type AddItemRequest struct {
	IngredientRef string               `json:"ingredient_ref"`
	Quantity      decimal.Decimal      `json:"quantity"`
	Unit          string               `json:"unit"`
	AcquiredAt    *time.Time           `json:"acquired_at,omitempty"`
	ExpiresAt     *time.Time           `json:"expires_at,omitempty"`
	InitialPrice  *InitialPriceRequest `json:"initial_price,omitempty"`
}

// InitialPriceRequest precio inicial dentro de AddItemRequest.
type InitialPriceRequest struct {
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Currency     string          `json:"currency,omitempty"`
	Source       string          `json:"source,omitempty"`
}

// ConsumeRequest body para POST /api/fridge/items/:id/consume.
type ConsumeRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// ConsumeResponse resultado de un consumo (o de su reintento idempotente).
type ConsumeResponse struct {
	ItemID    string           `json:"item_id"`
	Remaining decimal.Decimal  `json:"remaining"`
	UsedValue *decimal.Decimal `json:"used_value,omitempty"` // valor consumido; nil sin precio
	Currency  string           `json:"currency,omitempty"`
	Consumed  bool             `json:"consumed"`  // true si el artículo llegó a cero
	Duplicate bool             `json:"duplicate"` // true si la clave ya estaba aplicada
}

// RestockRequest body para POST /api/fridge/items/:id/restock.
type RestockRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// RestockResponse resultado de una reposición.
type RestockResponse struct {
	ItemID    string          `json:"item_id"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ItemResponse artículo activo con su estado derivado.
// Value es nil cuando el ledger no tiene precio para el artículo; nunca se
// reporta cero en ese caso.
type ItemResponse struct {
	ID                string           `json:"id"`
	IngredientRef     string           `json:"ingredient_ref"`
	QuantityOriginal  decimal.Decimal  `json:"quantity_original"`
	QuantityRemaining decimal.Decimal  `json:"quantity_remaining"`
	Unit              string           `json:"unit"`
	AcquiredAt        time.Time        `json:"acquired_at"`
	ExpiresAt         *time.Time       `json:"expires_at,omitempty"`
	Freshness         string           `json:"freshness"`
	DaysLeft          *int             `json:"days_left,omitempty"` // nil si no hay caducidad
	Value             *decimal.Decimal `json:"value,omitempty"`
	Currency          string           `json:"currency,omitempty"`
}

// FridgeSummaryDTO agregados del inventario activo. ItemsWithoutPrice permite
// a la UI distinguir "sin precios" de un total cero real.
type FridgeSummaryDTO struct {
	TotalValue        decimal.Decimal `json:"total_value"`
	AtRiskValue       decimal.Decimal `json:"at_risk_value"`
	Currency          string          `json:"currency"`
	ItemsTotal        int             `json:"items_total"`
	ItemsWithoutPrice int             `json:"items_without_price"`
	ItemsExpiringSoon int             `json:"items_expiring_soon"`
	ItemsExpired      int             `json:"items_expired"`
}

// ListItemsResponse respuesta de GET /api/fridge/items.
type ListItemsResponse struct {
	Items   []ItemResponse   `json:"items"`
	Summary FridgeSummaryDTO `json:"summary"`
}
