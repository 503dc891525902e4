package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/nevera-api/internal/application/fridge"
	"github.com/jhoicas/nevera-api/internal/application/loss"
	"github.com/jhoicas/nevera-api/internal/application/notification"
	"github.com/jhoicas/nevera-api/internal/application/pricing"
	"github.com/jhoicas/nevera-api/internal/application/valuation"
	infrapdf "github.com/jhoicas/nevera-api/internal/infrastructure/pdf"
	"github.com/jhoicas/nevera-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/nevera-api/internal/interfaces/http"
	"github.com/jhoicas/nevera-api/pkg/config"
	"github.com/jhoicas/nevera-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}

	itemRepo := postgres.NewItemRepository(pool)
	priceRepo := postgres.NewPriceEventRepository(pool)
	lossRepo := postgres.NewLossRecordRepository(pool)
	receiptRepo := postgres.NewConsumeReceiptRepository(pool)
	notifRepo := postgres.NewNotificationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	warnDays := cfg.Engine.WarnThresholdDays
	retention := time.Duration(cfg.Engine.NotificationRetentionDays) * 24 * time.Hour

	valuationEngine := valuation.NewEngine(priceRepo, warnDays)
	notifEngine := notification.NewEngine(notifRepo, itemRepo, retention, warnDays, log)
	fridgeUC := fridge.NewUseCase(txRunner, itemRepo, valuationEngine, notifEngine, warnDays, cfg.Engine.DefaultCurrency)
	pricingUC := pricing.NewUseCase(priceRepo, itemRepo, notifEngine, cfg.Engine.DefaultCurrency)
	lossConverter := loss.NewConverter(txRunner, itemRepo, lossRepo, notifEngine, warnDays, cfg.Engine.DefaultCurrency, log)

	// PDF: informe de pérdidas del rango
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	lossReportUC := loss.NewReportUseCase(lossConverter, pdfGenerator)

	// Barrido periódico: caducados → pérdida, alertas de umbral y limpieza.
	sweeper := loss.NewSweeper(
		lossConverter, notifEngine, receiptRepo,
		time.Duration(cfg.Engine.SweepIntervalMinutes)*time.Minute,
		time.Duration(cfg.Engine.ReceiptRetentionHours)*time.Hour,
		log,
	)
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	go sweeper.Run(sweepCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Nevera API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		FridgeUC:      fridgeUC,
		PricingUC:     pricingUC,
		LossConverter: lossConverter,
		LossReport:    lossReportUC,
		Notifications: notifEngine,
		GroupWindow:   time.Duration(cfg.Engine.GroupWindowMinutes) * time.Minute,
		GroupMinSize:  cfg.Engine.GroupMinSize,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
