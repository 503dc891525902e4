package loss

import (
	"context"
	"time"

	"github.com/jhoicas/nevera-api/internal/application/dto"
)

// ReportPDFGenerator es el puerto de generación del informe de pérdidas.
// La implementación vive en infrastructure/pdf.
type ReportPDFGenerator interface {
	GenerateLossReportPDF(ctx context.Context, report *dto.ListLossesResponse, from, to *time.Time) ([]byte, error)
}

// ReportUseCase arma el informe de pérdidas en PDF para un usuario.
type ReportUseCase struct {
	converter *Converter
	generator ReportPDFGenerator
}

// NewReportUseCase construye el caso de uso del informe.
func NewReportUseCase(converter *Converter, generator ReportPDFGenerator) *ReportUseCase {
	return &ReportUseCase{converter: converter, generator: generator}
}

// GeneratePDF lista las pérdidas del rango y devuelve los bytes del PDF.
func (uc *ReportUseCase) GeneratePDF(ctx context.Context, userID string, from, to *time.Time) ([]byte, error) {
	report, err := uc.converter.ListRecords(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateLossReportPDF(ctx, report, from, to)
}
