// Package pricing implementa el ledger de precios: registro append-only de
// observaciones y derivación del precio vigente e historial.
package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nevera-api/internal/application/dto"
	"github.com/jhoicas/nevera-api/internal/application/notification"
	"github.com/jhoicas/nevera-api/internal/domain"
	"github.com/jhoicas/nevera-api/internal/domain/entity"
	"github.com/jhoicas/nevera-api/internal/domain/freshness"
	"github.com/jhoicas/nevera-api/internal/domain/repository"
)

// UseCase casos de uso del ledger de precios. No existe corrección in situ:
// un precio equivocado se corrige registrando un evento nuevo más reciente.
type UseCase struct {
	prices   repository.PriceEventRepository
	items    repository.ItemRepository
	notifs   *notification.Engine
	currency string
}

// NewUseCase construye el caso de uso de precios.
func NewUseCase(prices repository.PriceEventRepository, items repository.ItemRepository, notifs *notification.Engine, defaultCurrency string) *UseCase {
	return &UseCase{prices: prices, items: items, notifs: notifs, currency: defaultCurrency}
}

// RecordPrice añade una observación de precio al ledger del artículo.
// Falla con ErrInvalidPrice si el precio por unidad no es positivo. Si el
// precio vigente cambia, emite una notificación info de tipo price_change.
func (uc *UseCase) RecordPrice(ctx context.Context, userID, itemID string, in dto.RecordPriceRequest) (*dto.PriceEventDTO, error) {
	if !in.PricePerUnit.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidPrice
	}
	source := in.Source
	if source == "" {
		source = entity.PriceSourceManual
	}
	if !entity.ValidPriceSource(source) {
		return nil, domain.ErrInvalidInput
	}

	item, err := uc.items.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	if item.UserID != userID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	observedAt := now
	if in.ObservedAt != nil {
		observedAt = *in.ObservedAt
	}
	currency := in.Currency
	if currency == "" {
		currency = uc.currency
	}

	previous, err := uc.prices.Latest(itemID)
	if err != nil {
		return nil, err
	}

	event := &entity.PriceEvent{
		ID:           uuid.New().String(),
		ItemID:       itemID,
		PricePerUnit: in.PricePerUnit,
		Currency:     currency,
		Source:       source,
		ObservedAt:   observedAt,
		CreatedAt:    now,
	}
	if err := uc.prices.Append(event); err != nil {
		return nil, err
	}

	if previous == nil || !previous.PricePerUnit.Equal(in.PricePerUnit) {
		subject := notification.Subject{
			UserID:        userID,
			ItemID:        itemID,
			IngredientRef: item.IngredientRef,
		}
		if item.ExpiresAt != nil {
			subject.DaysLeft = freshness.DaysLeft(*item.ExpiresAt, now)
		}
		if _, err := uc.notifs.Emit(ctx, subject, entity.NotificationLevelInfo, entity.NotificationKindPriceChange, now); err != nil {
			return nil, err
		}
	}

	d := toEventDTO(event)
	return &d, nil
}

// History devuelve el historial completo (del más antiguo al más reciente) y
// el precio vigente. Current es nil si el ledger está vacío: el consumidor
// debe distinguir "sin precio" de "gratis".
func (uc *UseCase) History(_ context.Context, userID, itemID string) (*dto.PriceHistoryResponse, error) {
	item, err := uc.items.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	if item.UserID != userID {
		return nil, domain.ErrForbidden
	}

	events, err := uc.prices.ListByItem(itemID)
	if err != nil {
		return nil, err
	}
	resp := &dto.PriceHistoryResponse{ItemID: itemID, History: make([]dto.PriceEventDTO, 0, len(events))}
	for _, ev := range events {
		resp.History = append(resp.History, toEventDTO(ev))
	}

	current, err := uc.prices.Latest(itemID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		d := toEventDTO(current)
		resp.Current = &d
	}
	return resp, nil
}

func toEventDTO(ev *entity.PriceEvent) dto.PriceEventDTO {
	return dto.PriceEventDTO{
		ID:           ev.ID,
		PricePerUnit: ev.PricePerUnit,
		Currency:     ev.Currency,
		Source:       ev.Source,
		ObservedAt:   ev.ObservedAt,
	}
}
