package loss

import (
	"context"
	"time"

	"github.com/jhoicas/nevera-api/internal/application/notification"
	"github.com/jhoicas/nevera-api/internal/domain/repository"
	"github.com/jhoicas/nevera-api/pkg/logger"
)

// Sweeper es la única tarea de fondo del motor: a intervalo fijo convierte
// caducados, emite alertas de umbral y aplica la limpieza de notificaciones
// y recibos de idempotencia. Todas las demás operaciones son síncronas.
type Sweeper struct {
	converter        *Converter
	notifs           *notification.Engine
	receipts         repository.ConsumeReceiptRepository
	interval         time.Duration
	receiptRetention time.Duration
	log              *logger.Logger
}

// NewSweeper construye la tarea periódica.
func NewSweeper(converter *Converter, notifs *notification.Engine, receipts repository.ConsumeReceiptRepository, interval, receiptRetention time.Duration, log *logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if receiptRetention <= 0 {
		receiptRetention = 24 * time.Hour
	}
	if log == nil {
		log = logger.New(logger.Config{Env: "production", Level: "error"})
	}
	return &Sweeper{converter: converter, notifs: notifs, receipts: receipts, interval: interval, receiptRetention: receiptRetention, log: log}
}

// Run ejecuta el ciclo hasta que el contexto se cancele. Pensado para correr
// en su propia goroutine desde main.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("barrido periódico iniciado")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("barrido periódico detenido")
			return
		case <-ticker.C:
			s.RunOnce(ctx, time.Now())
		}
	}
}

// RunOnce ejecuta un ciclo completo del barrido. Cada fase aísla sus fallos:
// un error en una no impide las siguientes.
func (s *Sweeper) RunOnce(ctx context.Context, now time.Time) {
	records, err := s.converter.SweepExpired(ctx, now)
	if err != nil {
		s.log.Error().Err(err).Msg("barrido: conversión de caducados")
	} else if len(records) > 0 {
		s.log.Info().Int("converted", len(records)).Msg("barrido: artículos convertidos en pérdida")
	}

	emitted, err := s.notifs.SweepThresholds(ctx, now)
	if err != nil {
		s.log.Error().Err(err).Msg("barrido: alertas de caducidad")
	} else if emitted > 0 {
		s.log.Info().Int("emitted", emitted).Msg("barrido: alertas emitidas")
	}

	purged, expired, err := s.notifs.Cleanup(ctx, now)
	if err != nil {
		s.log.Error().Err(err).Msg("barrido: limpieza de notificaciones")
	} else if purged > 0 || expired > 0 {
		s.log.Info().Int("purged", purged).Int("expired", expired).Msg("barrido: notificaciones depuradas")
	}

	if _, err := s.receipts.PurgeBefore(now.Add(-s.receiptRetention)); err != nil {
		s.log.Error().Err(err).Msg("barrido: purga de recibos de idempotencia")
	}
}
