// Package loss implementa la conversión de artículos caducados (o declarados
// perdidos por el usuario) en registros de pérdida inmutables.
//
// Máquina de estados por artículo: ACTIVE → (caducidad cruzada) → conversión
// transaccional → LOST con su LossRecord. La conversión es idempotente: un
// artículo que ya salió del conjunto activo nunca genera un segundo registro.
package loss

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nevera-api/internal/application/dto"
	"github.com/jhoicas/nevera-api/internal/application/notification"
	"github.com/jhoicas/nevera-api/internal/application/ports"
	"github.com/jhoicas/nevera-api/internal/domain"
	"github.com/jhoicas/nevera-api/internal/domain/entity"
	"github.com/jhoicas/nevera-api/internal/domain/freshness"
	"github.com/jhoicas/nevera-api/internal/domain/repository"
	"github.com/jhoicas/nevera-api/pkg/logger"
)

// Converter convierte artículos en registros de pérdida.
type Converter struct {
	tx       ports.TxRunner
	items    repository.ItemRepository
	losses   repository.LossRecordRepository
	notifs   *notification.Engine
	warnDays int
	currency string
	log      *logger.Logger
}

// NewConverter construye el conversor de pérdidas.
func NewConverter(tx ports.TxRunner, items repository.ItemRepository, losses repository.LossRecordRepository, notifs *notification.Engine, warnDays int, defaultCurrency string, log *logger.Logger) *Converter {
	if warnDays <= 0 {
		warnDays = freshness.DefaultWarnThresholdDays
	}
	if log == nil {
		log = logger.New(logger.Config{Env: "production", Level: "error"})
	}
	return &Converter{tx: tx, items: items, losses: losses, notifs: notifs, warnDays: warnDays, currency: defaultCurrency, log: log}
}

// SweepExpired convierte todos los artículos activos ya caducados. Ejecutarlo
// dos veces seguidas produce el mismo conjunto de registros que una sola: el
// artículo convertido sale del conjunto activo y deja de ser candidato.
//
// Un fallo en un artículo se registra y se salta: un registro corrupto no
// detiene el barrido de los demás.
func (c *Converter) SweepExpired(ctx context.Context, now time.Time) ([]*entity.LossRecord, error) {
	candidates, err := c.items.ListActiveExpiringBefore(now)
	if err != nil {
		return nil, err
	}

	records := make([]*entity.LossRecord, 0, len(candidates))
	for _, item := range candidates {
		rec, err := c.convert(ctx, item.ID, item.UserID, entity.LossCauseExpired, "", now, true)
		if err != nil {
			c.log.Warn().Err(err).Str("item_id", item.ID).Msg("barrido de caducados: artículo saltado")
			continue
		}
		if rec == nil {
			continue // ya convertido por otro actor entre el listado y el lock
		}
		records = append(records, rec)

		subject := notification.Subject{
			UserID:        rec.UserID,
			ItemID:        rec.ItemID,
			IngredientRef: rec.IngredientRef,
			DaysLeft:      freshness.DaysLeft(rec.OccurredAt, now),
		}
		if _, err := c.notifs.Emit(ctx, subject, entity.NotificationLevelCritical, entity.NotificationKindExpired, now); err != nil {
			c.log.Warn().Err(err).Str("item_id", rec.ItemID).Msg("barrido de caducados: emisión de aviso")
		}
	}
	return records, nil
}

// ManualLoss registra una pérdida declarada por el usuario (spoiled, damaged,
// mistake, other) sin exigir que el artículo haya caducado. Mismo contrato de
// instantánea y terminación que el barrido.
func (c *Converter) ManualLoss(ctx context.Context, userID string, in dto.ManualLossRequest) (*dto.LossRecordDTO, error) {
	if !entity.ValidLossCause(in.Cause) {
		return nil, domain.ErrInvalidCause
	}
	now := time.Now()
	rec, err := c.convert(ctx, in.ItemID, userID, in.Cause, in.Note, now, false)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		// El artículo ya no estaba activo: para el usuario es un not-found.
		return nil, domain.ErrItemNotFound
	}
	d := toRecordDTO(rec)
	return &d, nil
}

// convert ejecuta la conversión transaccional de un artículo: instantánea de
// cantidad y precio vigente, creación del LossRecord, salida del conjunto
// activo y resolución de sus notificaciones activas (cualquier causa resuelve
// los avisos pendientes del artículo). Devuelve (nil, nil) si el artículo ya
// no era candidato.
func (c *Converter) convert(ctx context.Context, itemID, userID, cause, note string, now time.Time, requireExpired bool) (*entity.LossRecord, error) {
	var record *entity.LossRecord
	err := c.tx.Run(ctx, func(
		items repository.ItemRepository,
		prices repository.PriceEventRepository,
		losses repository.LossRecordRepository,
		_ repository.ConsumeReceiptRepository,
		notifs repository.NotificationRepository,
	) error {
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
		if !item.IsActive() {
			return nil // idempotencia: ya convertido o consumido
		}
		if requireExpired && freshness.Classify(item.ExpiresAt, now, c.warnDays) != freshness.StateExpired {
			return nil // dejó de estar caducado entre el listado y el lock
		}
		if item.QuantityRemaining.IsNegative() {
			return domain.ErrInconsistentState
		}

		// Instantánea congelada: el valor nunca se recalcula después.
		valueLost := decimal.Zero
		valueKnown := false
		currency := c.currency
		ev, err := prices.Latest(itemID)
		if err != nil {
			return err
		}
		if ev != nil {
			valueLost = item.QuantityRemaining.Mul(ev.PricePerUnit)
			valueKnown = true
			currency = ev.Currency
		}

		record = &entity.LossRecord{
			ID:            uuid.New().String(),
			UserID:        item.UserID,
			ItemID:        item.ID,
			IngredientRef: item.IngredientRef,
			QuantityLost:  item.QuantityRemaining,
			Unit:          item.Unit,
			ValueLost:     valueLost,
			Currency:      currency,
			ValueKnown:    valueKnown,
			Cause:         cause,
			OccurredAt:    occurredAt(item, cause, now),
			ContextNote:   note,
			CreatedAt:     now,
		}
		if err := losses.Create(record); err != nil {
			return err
		}

		item.Status = entity.ItemStatusLost
		item.UpdatedAt = now
		if err := items.Update(item); err != nil {
			return err
		}

		return notification.ResolveAllForItem(notifs, item.ID, now)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// occurredAt fija el momento de la pérdida: la caducidad real para el barrido,
// el momento de la declaración para pérdidas manuales.
func occurredAt(item *entity.InventoryItem, cause string, now time.Time) time.Time {
	if cause == entity.LossCauseExpired && item.ExpiresAt != nil {
		return *item.ExpiresAt
	}
	return now
}

// ListRecords devuelve las pérdidas del usuario en un rango opcional de días
// junto con el resumen {count, totalLoss, avgLoss}. El total y el promedio
// suman solo registros con valor conocido; los de valor desconocido se
// reportan aparte y jamás se confunden con pérdidas de valor cero.
func (c *Converter) ListRecords(_ context.Context, userID string, from, to *time.Time) (*dto.ListLossesResponse, error) {
	records, err := c.losses.ListByUser(userID, from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListLossesResponse{Records: make([]dto.LossRecordDTO, 0, len(records))}
	total := decimal.Zero
	known := 0
	for _, rec := range records {
		resp.Records = append(resp.Records, toRecordDTO(rec))
		if rec.ValueKnown {
			total = total.Add(rec.ValueLost)
			known++
		} else {
			resp.Summary.UnknownValueCount++
		}
	}
	resp.Summary.Count = len(records)
	resp.Summary.TotalLoss = total.Round(2)
	resp.Summary.AvgLoss = decimal.Zero
	if known > 0 {
		resp.Summary.AvgLoss = total.Div(decimal.NewFromInt(int64(known))).Round(2)
	}
	return resp, nil
}

func toRecordDTO(rec *entity.LossRecord) dto.LossRecordDTO {
	return dto.LossRecordDTO{
		ID:            rec.ID,
		ItemID:        rec.ItemID,
		IngredientRef: rec.IngredientRef,
		QuantityLost:  rec.QuantityLost,
		Unit:          rec.Unit,
		ValueLost:     rec.ValueLost.Round(2),
		Currency:      rec.Currency,
		ValueKnown:    rec.ValueKnown,
		Cause:         rec.Cause,
		OccurredAt:    rec.OccurredAt,
		ContextNote:   rec.ContextNote,
	}
}
