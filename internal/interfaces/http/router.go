package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nevera-api/internal/application/fridge"
	"github.com/jhoicas/nevera-api/internal/application/loss"
	"github.com/jhoicas/nevera-api/internal/application/notification"
	"github.com/jhoicas/nevera-api/internal/application/pricing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	FridgeUC      *fridge.UseCase
	PricingUC     *pricing.UseCase
	LossConverter *loss.Converter
	LossReport    *loss.ReportUseCase
	Notifications *notification.Engine
	GroupWindow   time.Duration
	GroupMinSize  int
	JWTSecret     string
}

// Router registra las rutas de la API. Todo el inventario es por usuario:
// cada ruta exige Bearer Token y opera sobre la nevera del token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Fridge (inventario)
	items := protected.Group("/fridge/items")
	fridgeHandler := NewFridgeHandler(deps.FridgeUC)
	items.Post("/", fridgeHandler.AddItem)
	items.Get("/", fridgeHandler.List)
	items.Post("/:id/consume", fridgeHandler.Consume)
	items.Post("/:id/restock", fridgeHandler.Restock)
	items.Delete("/:id", fridgeHandler.Remove)

	// Precios (ledger por artículo)
	priceHandler := NewPriceHandler(deps.PricingUC)
	items.Post("/:id/prices", priceHandler.RecordPrice)
	items.Get("/:id/prices", priceHandler.History)

	// Pérdidas
	losses := protected.Group("/losses")
	lossHandler := NewLossHandler(deps.LossConverter, deps.LossReport)
	losses.Post("/", lossHandler.DeclareLoss)
	losses.Get("/", lossHandler.List)
	losses.Get("/report.pdf", lossHandler.ReportPDF)

	// Notificaciones
	notifs := protected.Group("/notifications")
	notifHandler := NewNotificationHandler(deps.Notifications, deps.GroupWindow, deps.GroupMinSize)
	notifs.Get("/", notifHandler.List)
	notifs.Get("/unread-count", notifHandler.UnreadCount)
	notifs.Post("/resolve-all", notifHandler.ResolveAll)
	notifs.Post("/resolve-group", notifHandler.ResolveGroup)
	notifs.Post("/:id/resolve", notifHandler.Resolve)
}
