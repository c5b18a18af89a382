// Package pdf implementa la generación del reporte imprimible de alertas de
// stock bajo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + NIT  │  Fecha del corte             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: total de alertas                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Bodega | Stock | Mín | Días | Prov │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda de interpretación                          │
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

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	appinventory "github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 40, Blue: 30}
)

var _ appinventory.AlertReportGenerator = (*MarotoReportGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa inventory.AlertReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateLowStockReport genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateLowStockReport(
	_ context.Context,
	company *entity.Company,
	alerts []dto.AlertDTO,
	asOf time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Stock Bajo", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(company, asOf))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(len(alerts)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, a := range alerts {
		m.AddRows(alertRow(a))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social + NIT (izq) y fecha del corte (der).
func headerRow(company *entity.Company, asOf time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+company.NIT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE STOCK BAJO", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Corte: "+asOf.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// summaryRow: total de alertas del corte.
func summaryRow(total int) core.Row {
	msg := fmt.Sprintf("%d producto(s) por debajo de su nivel mínimo de stock", total)
	if total == 0 {
		msg = "Sin alertas: todos los productos están por encima de su nivel mínimo"
	}
	return row.New(8).Add(
		col.New(12).Add(text.New(msg, props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2,
		})),
	)
}

// tableHeaderRow: cabecera de la tabla de alertas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Bodega", 2, align.Left),
		h("Stock", 1, align.Right),
		h("Mín.", 1, align.Right),
		h("Días", 1, align.Center),
		h("Proveedor sugerido", 2, align.Left),
	)
}

// alertRow: una fila por alerta. Días en rojo cuando el agotamiento es inminente.
func alertRow(a dto.AlertDTO) core.Row {
	days := "—"
	daysColor := colorGray
	if a.DaysUntilStockout != nil {
		days = fmt.Sprintf("%d", *a.DaysUntilStockout)
		if *a.DaysUntilStockout <= 7 {
			daysColor = colorAlert
		}
	}
	supplier := "—"
	if a.Supplier != nil {
		supplier = a.Supplier.Name
	}
	name := a.ProductName
	if a.IsBundle {
		name += " (combo)"
	}
	return row.New(7).Add(
		col.New(2).Add(text.New(a.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(3).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(a.WarehouseName, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(1).Add(text.New(fmt.Sprintf("%d", a.CurrentStock), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
		col.New(1).Add(text.New(fmt.Sprintf("%d", a.MinStockLevel), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorGray,
		})),
		col.New(1).Add(text.New(days, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1, Color: daysColor,
		})),
		col.New(2).Add(text.New(supplier, props.Text{Size: 8, Top: 1, Left: 1})),
	)
}

// footerRow: leyenda de interpretación de la columna Días.
func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Días = proyección de agotamiento según la velocidad de venta reciente. "+
				"\"—\" indica proyección indeterminada (sin ventas en la ventana de análisis).",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}
