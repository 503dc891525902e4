// Package fridge implementa los casos de uso del inventario de la nevera:
// alta, consumo, reposición, eliminación y listado con estado derivado.
package fridge

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nevera-api/internal/application/dto"
	"github.com/jhoicas/nevera-api/internal/application/notification"
	"github.com/jhoicas/nevera-api/internal/application/ports"
	"github.com/jhoicas/nevera-api/internal/application/valuation"
	"github.com/jhoicas/nevera-api/internal/domain"
	"github.com/jhoicas/nevera-api/internal/domain/entity"
	"github.com/jhoicas/nevera-api/internal/domain/freshness"
	"github.com/jhoicas/nevera-api/internal/domain/repository"
)

// UseCase casos de uso del inventario. Toda mutación de cantidad pasa por una
// transacción con bloqueo de fila (GetForUpdate), que serializa consumo,
// reposición y barrido de pérdidas por artículo.
type UseCase struct {
	tx        ports.TxRunner
	items     repository.ItemRepository
	valuation *valuation.Engine
	notifs    *notification.Engine
	warnDays  int
	currency  string // moneda por defecto para precios sin moneda explícita
}

// NewUseCase construye el caso de uso del inventario.
func NewUseCase(tx ports.TxRunner, items repository.ItemRepository, val *valuation.Engine, notifs *notification.Engine, warnDays int, defaultCurrency string) *UseCase {
	if warnDays <= 0 {
		warnDays = freshness.DefaultWarnThresholdDays
	}
	return &UseCase{tx: tx, items: items, valuation: val, notifs: notifs, warnDays: warnDays, currency: defaultCurrency}
}

// AddItem da de alta un artículo; opcionalmente registra su primer evento de
// precio en la misma transacción. Falla con ErrInvalidQuantity si la cantidad
// no es positiva.
func (uc *UseCase) AddItem(ctx context.Context, userID string, in dto.AddItemRequest) (*dto.ItemResponse, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.IngredientRef == "" || !entity.ValidUnit(in.Unit) {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialPrice != nil && !in.InitialPrice.PricePerUnit.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidPrice
	}

	now := time.Now()
	acquiredAt := now
	if in.AcquiredAt != nil {
		acquiredAt = *in.AcquiredAt
	}
	item := &entity.InventoryItem{
		ID:                uuid.New().String(),
		UserID:            userID,
		IngredientRef:     in.IngredientRef,
		QuantityOriginal:  in.Quantity,
		QuantityRemaining: in.Quantity,
		Unit:              in.Unit,
		Status:            entity.ItemStatusActive,
		AcquiredAt:        acquiredAt,
		ExpiresAt:         in.ExpiresAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err := uc.tx.Run(ctx, func(
		items repository.ItemRepository,
		prices repository.PriceEventRepository,
		_ repository.LossRecordRepository,
		_ repository.ConsumeReceiptRepository,
		_ repository.NotificationRepository,
	) error {
		if err := items.Create(item); err != nil {
			return err
		}
		if in.InitialPrice == nil {
			return nil
		}
		source := in.InitialPrice.Source
		if source == "" {
			source = entity.PriceSourceManual
		}
		if !entity.ValidPriceSource(source) {
			return domain.ErrInvalidInput
		}
		currency := in.InitialPrice.Currency
		if currency == "" {
			currency = uc.currency
		}
		return prices.Append(&entity.PriceEvent{
			ID:           uuid.New().String(),
			ItemID:       item.ID,
			PricePerUnit: in.InitialPrice.PricePerUnit,
			Currency:     currency,
			Source:       source,
			ObservedAt:   now,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}

	// El alta ya está confirmada: un fallo al notificar no la deshace.
	subject := uc.subjectFor(item, now)
	_, _ = uc.notifs.Emit(ctx, subject, entity.NotificationLevelInfo, entity.NotificationKindItemAdded, now)

	resp := uc.toItemResponse(item, now)
	return &resp, nil
}

// Consume descuenta cantidad de un artículo de forma atómica.
//
// Con clave de idempotencia, un reintento (secuencial o concurrente) de la
// misma petición devuelve el resultado original con Duplicate=true sin volver
// a descontar. Si la cantidad pedida supera la disponible devuelve
// ErrInsufficientQuantity junto con la cantidad restante real, para que el
// consumidor pueda corregir sin otra llamada.
func (uc *UseCase) Consume(ctx context.Context, userID, itemID string, in dto.ConsumeRequest) (*dto.ConsumeResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	now := time.Now()
	resp := &dto.ConsumeResponse{ItemID: itemID}

	err := uc.tx.Run(ctx, func(
		items repository.ItemRepository,
		prices repository.PriceEventRepository,
		_ repository.LossRecordRepository,
		receipts repository.ConsumeReceiptRepository,
		_ repository.NotificationRepository,
	) error {
		// El bloqueo de fila va primero: serializa los consumos del artículo
		// y garantiza que la lectura del recibo vea el estado confirmado.
		item, err := items.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrItemNotFound
		}
		if item.UserID != userID {
			return domain.ErrForbidden
		}

		if in.IdempotencyKey != "" {
			existing, err := receipts.Get(in.IdempotencyKey)
			if err != nil {
				return err
			}
			if existing != nil {
				// Solo es duplicado si la petición es la misma: una clave ya
				// gastada con otro artículo u otra cantidad es un error del
				// llamador, no un reintento.
				if !receiptMatches(existing, userID, itemID, in.Amount) {
					return domain.ErrIdempotencyKeyReuse
				}
				fillFromReceipt(resp, existing, uc.currency)
				return domain.ErrDuplicateRequest
			}
		}

		if !item.IsActive() {
			return domain.ErrItemNotFound
		}
		if in.Amount.GreaterThan(item.QuantityRemaining) {
			resp.Remaining = item.QuantityRemaining
			return domain.ErrInsufficientQuantity
		}

		item.QuantityRemaining = item.QuantityRemaining.Sub(in.Amount)
		if item.QuantityRemaining.IsZero() {
			// Estado terminal por consumo, distinto de la pérdida por caducidad.
			item.Status = entity.ItemStatusConsumed
		}
		item.UpdatedAt = now
		if err := items.Update(item); err != nil {
			return err
		}

		// Valor usado al momento del consumo, no retroactivo.
		ev, err := prices.Latest(itemID)
		if err != nil {
			return err
		}
		if ev != nil {
			used := in.Amount.Mul(ev.PricePerUnit)
			resp.UsedValue = &used
			resp.Currency = ev.Currency
		}
		resp.Remaining = item.QuantityRemaining
		resp.Consumed = item.Status == entity.ItemStatusConsumed

		if in.IdempotencyKey != "" {
			claimed, existing, err := receipts.Claim(&entity.ConsumeReceipt{
				Key:       in.IdempotencyKey,
				UserID:    userID,
				ItemID:    itemID,
				Amount:    in.Amount,
				Remaining: resp.Remaining,
				UsedValue: resp.UsedValue,
				Currency:  resp.Currency,
				CreatedAt: now,
			})
			if err != nil {
				return err
			}
			if !claimed {
				// Un concurrente ganó la clave: descartar esta mutación y, si
				// era el mismo pedido, devolver el resultado ya confirmado.
				if existing == nil {
					return domain.ErrInconsistentState
				}
				if !receiptMatches(existing, userID, itemID, in.Amount) {
					return domain.ErrIdempotencyKeyReuse
				}
				fillFromReceipt(resp, existing, uc.currency)
				return domain.ErrDuplicateRequest
			}
		}
		return nil
	})

	if errors.Is(err, domain.ErrDuplicateRequest) {
		// "Ya aplicado" no es un fallo para el colaborador: se entrega el
		// resultado original.
		resp.Duplicate = true
		return resp, nil
	}
	if errors.Is(err, domain.ErrInsufficientQuantity) {
		return resp, err
	}
	if err != nil {
		return nil, err
	}

	if resp.Consumed {
		item, err := uc.items.GetByID(itemID)
		if err == nil && item != nil {
			subject := uc.subjectFor(item, now)
			_, _ = uc.notifs.Emit(ctx, subject, entity.NotificationLevelInfo, entity.NotificationKindItemConsumed, now)
		}
	}
	return resp, nil
}

// Restock repone cantidad de un artículo activo; QuantityOriginal crece si la
// reposición supera la cantidad original (mismo artículo físico rellenado).
func (uc *UseCase) Restock(ctx context.Context, userID, itemID string, amount decimal.Decimal) (*dto.RestockResponse, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	now := time.Now()
	resp := &dto.RestockResponse{ItemID: itemID}
	err := uc.tx.Run(ctx, func(
		items repository.ItemRepository,
		_ repository.PriceEventRepository,
		_ repository.LossRecordRepository,
		_ repository.ConsumeReceiptRepository,
		_ repository.NotificationRepository,
	) error {
		item, err := items.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil || !item.IsActive() {
			return domain.ErrItemNotFound
		}
		if item.UserID != userID {
			return domain.ErrForbidden
		}
		item.QuantityRemaining = item.QuantityRemaining.Add(amount)
		if item.QuantityRemaining.GreaterThan(item.QuantityOriginal) {
			item.QuantityOriginal = item.QuantityRemaining
		}
		item.UpdatedAt = now
		if err := items.Update(item); err != nil {
			return err
		}
		resp.Remaining = item.QuantityRemaining
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Remove retira un artículo del inventario activo sin registrar pérdida
// (corrección manual, no un siniestro).
func (uc *UseCase) Remove(ctx context.Context, userID, itemID string) error {
	now := time.Now()
	var removed *entity.InventoryItem
	err := uc.tx.Run(ctx, func(
		items repository.ItemRepository,
		_ repository.PriceEventRepository,
		_ repository.LossRecordRepository,
		_ repository.ConsumeReceiptRepository,
		notifs repository.NotificationRepository,
	) error {
		item, err := items.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil || !item.IsActive() {
			return domain.ErrItemNotFound
		}
		if item.UserID != userID {
			return domain.ErrForbidden
		}
		item.Status = entity.ItemStatusRemoved
		item.UpdatedAt = now
		if err := items.Update(item); err != nil {
			return err
		}
		if err := notification.ResolveAllForItem(notifs, itemID, now); err != nil {
			return err
		}
		removed = item
		return nil
	})
	if err != nil {
		return err
	}

	subject := uc.subjectFor(removed, now)
	_, _ = uc.notifs.Emit(ctx, subject, entity.NotificationLevelInfo, entity.NotificationKindItemRemoved, now)
	return nil
}

// ListActive lista los artículos activos del usuario con frescura, días
// restantes y valor derivados, más el resumen agregado del inventario.
func (uc *UseCase) ListActive(ctx context.Context, userID string, now time.Time) (*dto.ListItemsResponse, error) {
	items, err := uc.items.ListActiveByUser(userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListItemsResponse{Items: make([]dto.ItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, uc.toItemResponse(item, now))
	}

	summary, err := uc.valuation.Summarize(items, now)
	if err != nil {
		return nil, err
	}
	currency := summary.Currency
	if currency == "" {
		currency = uc.currency
	}
	// Redondeo a 2 decimales solo aquí, en la frontera de presentación.
	resp.Summary = dto.FridgeSummaryDTO{
		TotalValue:        summary.Total.Round(2),
		AtRiskValue:       summary.AtRisk.Round(2),
		Currency:          currency,
		ItemsTotal:        len(items),
		ItemsWithoutPrice: summary.WithoutPrice,
		ItemsExpiringSoon: summary.ExpiringSoon,
		ItemsExpired:      summary.Expired,
	}
	return resp, nil
}

func (uc *UseCase) toItemResponse(item *entity.InventoryItem, now time.Time) dto.ItemResponse {
	r := dto.ItemResponse{
		ID:                item.ID,
		IngredientRef:     item.IngredientRef,
		QuantityOriginal:  item.QuantityOriginal,
		QuantityRemaining: item.QuantityRemaining,
		Unit:              item.Unit,
		AcquiredAt:        item.AcquiredAt,
		ExpiresAt:         item.ExpiresAt,
		Freshness:         string(freshness.Classify(item.ExpiresAt, now, uc.warnDays)),
	}
	if item.ExpiresAt != nil {
		days := freshness.DaysLeft(*item.ExpiresAt, now)
		r.DaysLeft = &days
	}
	if value, currency, err := uc.valuation.ItemValue(item); err == nil && value != nil {
		rounded := value.Round(2)
		r.Value = &rounded
		r.Currency = currency
	}
	return r
}

func (uc *UseCase) subjectFor(item *entity.InventoryItem, now time.Time) notification.Subject {
	s := notification.Subject{
		UserID:        item.UserID,
		ItemID:        item.ID,
		IngredientRef: item.IngredientRef,
	}
	if item.ExpiresAt != nil {
		s.DaysLeft = freshness.DaysLeft(*item.ExpiresAt, now)
	}
	return s
}

// receiptMatches comprueba que el recibo corresponde a esta misma petición:
// mismo usuario, mismo artículo y misma cantidad.
func receiptMatches(receipt *entity.ConsumeReceipt, userID, itemID string, amount decimal.Decimal) bool {
	return receipt.UserID == userID && receipt.ItemID == itemID && receipt.Amount.Equal(amount)
}

func fillFromReceipt(resp *dto.ConsumeResponse, receipt *entity.ConsumeReceipt, fallbackCurrency string) {
	resp.Remaining = receipt.Remaining
	resp.UsedValue = receipt.UsedValue
	resp.Consumed = receipt.Remaining.IsZero()
	if receipt.UsedValue != nil {
		resp.Currency = receipt.Currency
		if resp.Currency == "" {
			resp.Currency = fallbackCurrency
		}
	}
}
