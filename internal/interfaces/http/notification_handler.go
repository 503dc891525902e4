package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nevera-api/internal/application/dto"
	"github.com/jhoicas/nevera-api/internal/application/notification"
)

// NotificationHandler maneja las peticiones HTTP de notificaciones (protegido).
type NotificationHandler struct {
	engine  *notification.Engine
	window  time.Duration // ventana deslizante de agrupación
	minSize int           // tamaño mínimo de grupo
}

// NewNotificationHandler construye el handler con la política de agrupación.
func NewNotificationHandler(engine *notification.Engine, window time.Duration, minSize int) *NotificationHandler {
	if window <= 0 {
		window = notification.DefaultGroupWindow
	}
	if minSize <= 0 {
		minSize = notification.DefaultGroupMinSize
	}
	return &NotificationHandler{engine: engine, window: window, minSize: minSize}
}

// List godoc
// @Summary      Listar notificaciones activas (agrupadas)
// @Description  Ráfagas del mismo artículo dentro de la ventana se consolidan
//
//	en una entrada; las info van aparte y colapsadas por defecto.
//
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListNotificationsResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.engine.ListActive(c.Context(), userID, h.window, h.minSize)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// UnreadCount godoc
// @Summary      Conteo para el badge
// @Description  total = critical + warning; las info nunca cuentan.
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UnreadCountDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	counts, err := h.engine.UnreadCount(c.Context(), userID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(counts)
}

// Resolve godoc
// @Summary      Resolver una notificación
// @Description  El estado solo avanza: resolver una ya resuelta es un no-op.
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la notificación"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/resolve [post]
func (h *NotificationHandler) Resolve(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	if err := h.engine.Resolve(c.Context(), userID, id, time.Now()); err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "notificación resuelta"})
}

// ResolveGroup godoc
// @Summary      Resolver un grupo de notificaciones
// @Description  Resuelve cada constituyente individualmente con los IDs que
//
//	expone la entrada agrupada del listado.
//
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResolveGroupRequest  true  "notification_ids"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/notifications/resolve-group [post]
func (h *NotificationHandler) ResolveGroup(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ResolveGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.NotificationIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "notification_ids requerido"})
	}
	now := time.Now()
	resolved := 0
	for _, id := range in.NotificationIDs {
		if err := h.engine.Resolve(c.Context(), userID, id, now); err != nil {
			return mapDomainError(c, err)
		}
		resolved++
	}
	return c.JSON(fiber.Map{"resolved": resolved})
}

// ResolveAll godoc
// @Summary      Resolver todas las notificaciones activas del usuario
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/notifications/resolve-all [post]
func (h *NotificationHandler) ResolveAll(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	n, err := h.engine.ResolveAll(c.Context(), userID, time.Now())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{"resolved": n})
}
