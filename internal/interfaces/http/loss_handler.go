package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nevera-api/internal/application/dto"
	"github.com/jhoicas/nevera-api/internal/application/loss"
)

// LossHandler maneja las peticiones HTTP de pérdidas (protegido).
type LossHandler struct {
	converter *loss.Converter
	report    *loss.ReportUseCase
}

// NewLossHandler construye el handler.
func NewLossHandler(converter *loss.Converter, report *loss.ReportUseCase) *LossHandler {
	return &LossHandler{converter: converter, report: report}
}

// DeclareLoss godoc
// @Summary      Declarar una pérdida manual (spoiled, damaged, mistake, other)
// @Tags         losses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ManualLossRequest  true  "item_id, cause; note opcional"
// @Success      201   {object}  dto.LossRecordDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/losses [post]
func (h *LossHandler) DeclareLoss(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ManualLossRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id requerido"})
	}
	rec, err := h.converter.ManualLoss(c.Context(), userID, in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// List godoc
// @Summary      Listar pérdidas con resumen del rango
// @Description  El resumen suma solo registros con valor conocido;
//
//	unknown_value_count expone cuántos quedaron fuera.
//
// @Tags         losses
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Inicio del rango (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Fin del rango (RFC3339 o YYYY-MM-DD)"
// @Success      200   {object}  dto.ListLossesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/losses [get]
func (h *LossHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido"})
	}
	resp, err := h.converter.ListRecords(c.Context(), userID, from, to)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// ReportPDF godoc
// @Summary      Informe de pérdidas en PDF
// @Tags         losses
// @Security     Bearer
// @Produce      application/pdf
// @Param        from  query  string  false  "Inicio del rango (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Fin del rango (RFC3339 o YYYY-MM-DD)"
// @Success      200   {file}    binary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/losses/report.pdf [get]
func (h *LossHandler) ReportPDF(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	from, to, err := parseRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido"})
	}
	pdfBytes, err := h.report.GeneratePDF(c.Context(), userID, from, to)
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="informe-perdidas.pdf"`)
	return c.Send(pdfBytes)
}

// parseRange lee from/to de la query; acepta RFC3339 o fecha sola.
func parseRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if v := c.Query("from"); v != "" {
		t, perr := parseDate(v)
		if perr != nil {
			return nil, nil, perr
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, perr := parseDate(v)
		if perr != nil {
			return nil, nil, perr
		}
		to = &t
	}
	return from, to, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
