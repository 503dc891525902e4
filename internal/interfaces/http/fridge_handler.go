package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nevera-api/internal/application/dto"
	"github.com/jhoicas/nevera-api/internal/application/fridge"
	"github.com/jhoicas/nevera-api/internal/domain"
)

// FridgeHandler maneja las peticiones HTTP del inventario de la nevera (protegido).
type FridgeHandler struct {
	uc *fridge.UseCase
}

// NewFridgeHandler construye el handler.
func NewFridgeHandler(uc *fridge.UseCase) *FridgeHandler {
	return &FridgeHandler{uc: uc}
}

// AddItem godoc
// @Summary      Dar de alta un artículo en la nevera
// @Tags         fridge
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddItemRequest  true  "ingredient_ref, quantity, unit; expires_at e initial_price opcionales"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/fridge/items [post]
func (h *FridgeHandler) AddItem(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.AddItem(c.Context(), userID, in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// List godoc
// @Summary      Listar artículos activos con frescura, valor y resumen
// @Tags         fridge
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListItemsResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/fridge/items [get]
func (h *FridgeHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.ListActive(c.Context(), userID, time.Now())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// Consume godoc
// @Summary      Consumir cantidad de un artículo
// @Description  Con idempotency_key un reintento devuelve el resultado original
//
//	con duplicate=true sin volver a descontar.
//
// @Tags         fridge
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del artículo"
// @Param        body  body  dto.ConsumeRequest  true  "amount; idempotency_key opcional"
// @Success      200   {object}  dto.ConsumeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_QUANTITY incluye remaining; IDEMPOTENCY_CONFLICT si la clave ya se usó con otra petición"
// @Router       /api/fridge/items/{id}/consume [post]
func (h *FridgeHandler) Consume(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	itemID := c.Params("id")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Consume(c.Context(), userID, itemID, in)
	if err == domain.ErrInsufficientQuantity {
		remaining := resp.Remaining.String()
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_QUANTITY", Message: "cantidad disponible insuficiente", Remaining: &remaining,
		})
	}
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// Restock godoc
// @Summary      Reponer cantidad de un artículo activo
// @Tags         fridge
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del artículo"
// @Param        body  body  dto.RestockRequest  true  "amount"
// @Success      200   {object}  dto.RestockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/fridge/items/{id}/restock [post]
func (h *FridgeHandler) Restock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	itemID := c.Params("id")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Restock(c.Context(), userID, itemID, in.Amount)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// Remove godoc
// @Summary      Retirar un artículo sin registrar pérdida
// @Tags         fridge
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/fridge/items/{id} [delete]
func (h *FridgeHandler) Remove(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	itemID := c.Params("id")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	if err := h.uc.Remove(c.Context(), userID, itemID); err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "artículo retirado"})
}

// mapDomainError traduce errores de dominio a códigos HTTP.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidQuantity:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "cantidad inválida"})
	case domain.ErrInvalidPrice:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PRICE", Message: "precio inválido"})
	case domain.ErrInvalidCause:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CAUSE", Message: "causa de pérdida inválida"})
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrItemNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo no encontrado"})
	case domain.ErrNotificationNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "notificación no encontrada"})
	case domain.ErrForbidden:
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case domain.ErrInsufficientQuantity:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_QUANTITY", Message: "cantidad disponible insuficiente"})
	case domain.ErrIdempotencyKeyReuse:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_CONFLICT", Message: "clave de idempotencia reutilizada con otra petición"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
