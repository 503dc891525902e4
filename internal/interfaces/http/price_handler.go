package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nevera-api/internal/application/dto"
	"github.com/jhoicas/nevera-api/internal/application/pricing"
)

// PriceHandler maneja las peticiones HTTP del ledger de precios (protegido).
type PriceHandler struct {
	uc *pricing.UseCase
}

// NewPriceHandler construye el handler.
func NewPriceHandler(uc *pricing.UseCase) *PriceHandler {
	return &PriceHandler{uc: uc}
}

// RecordPrice godoc
// @Summary      Registrar una observación de precio
// @Description  El ledger es append-only: un precio equivocado se corrige con
//
//	un evento nuevo más reciente, nunca editando el anterior.
//
// @Tags         prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del artículo"
// @Param        body  body  dto.RecordPriceRequest  true  "price_per_unit, source; currency y observed_at opcionales"
// @Success      201   {object}  dto.PriceEventDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/fridge/items/{id}/prices [post]
func (h *PriceHandler) RecordPrice(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	itemID := c.Params("id")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.RecordPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	event, err := h.uc.RecordPrice(c.Context(), userID, itemID, in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// History godoc
// @Summary      Historial de precios y precio vigente de un artículo
// @Description  current es null si el artículo nunca tuvo precio: "sin precio"
//
//	no es lo mismo que "gratis".
//
// @Tags         prices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.PriceHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/fridge/items/{id}/prices [get]
func (h *PriceHandler) History(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	itemID := c.Params("id")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	resp, err := h.uc.History(c.Context(), userID, itemID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}
