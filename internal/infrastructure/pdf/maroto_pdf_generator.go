// Package pdf implementa la generación del informe de pérdidas en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + rango de fechas                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: registros / pérdida total / promedio / sin valor  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Ingrediente | Cant | Causa | Valor          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/nevera-api/internal/application/dto"
	apploss "github.com/jhoicas/nevera-api/internal/application/loss"
)

var _ apploss.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLoss    = &props.Color{Red: 160, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa loss.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateLossReportPDF genera el informe y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateLossReportPDF(
	_ context.Context,
	report *dto.ListLossesResponse,
	from, to *time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de pérdidas", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(from, to))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report.Summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRecordRows(report.Records) {
		m.AddRows(r)
	}
	if len(report.Records) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin pérdidas registradas en el rango.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y rango de fechas (der).
func headerRow(from, to *time.Time) core.Row {
	return row.New(14).Add(
		col.New(7).Add(
			text.New("INFORME DE PÉRDIDAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("Rango: "+rangeLabel(from, to), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
			text.New("Generado: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// summaryRow: bloque de cifras del rango.
func summaryRow(s dto.LossSummaryDTO) core.Row {
	cell := func(label, value string, valueColor *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 6, Color: valueColor,
			}),
		)
	}
	return row.New(14).Add(
		cell("Registros", fmt.Sprintf("%d", s.Count), colorPrimary),
		cell("Pérdida total", s.TotalLoss.StringFixed(2), colorLoss),
		cell("Pérdida promedio", s.AvgLoss.StringFixed(2), colorLoss),
		cell("Sin valor conocido", fmt.Sprintf("%d", s.UnknownValueCount), colorGray),
	)
}

// tableHeaderRow: cabecera de la tabla de registros.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Ingrediente", 4, align.Left),
		h("Cantidad", 2, align.Right),
		h("Causa", 2, align.Center),
		h("Valor", 2, align.Right),
	)
}

// tableRecordRows: una fila por registro de pérdida.
func tableRecordRows(records []dto.LossRecordDTO) []core.Row {
	result := make([]core.Row, 0, len(records))
	for _, rec := range records {
		value := "—"
		if rec.ValueKnown {
			value = rec.ValueLost.StringFixed(2) + " " + rec.Currency
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				rec.OccurredAt.Format("02/01/2006"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				rec.IngredientRef,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				rec.QuantityLost.String()+" "+rec.Unit,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				rec.Cause,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				value,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorLoss},
			)),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func rangeLabel(from, to *time.Time) string {
	f, t := "inicio", "hoy"
	if from != nil {
		f = from.Format("02/01/2006")
	}
	if to != nil {
		t = to.Format("02/01/2006")
	}
	return f + " – " + t
}
