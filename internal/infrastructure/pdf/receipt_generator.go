// Package pdf genera el comprobante de entrega de un pedido.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Marca + tienda       │  N° Pedido + Fecha + Estado  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE / ENTREGA: nombre, dirección, repartidor            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Total                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Envío / Servicio / TOTAL                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/localmart-api/internal/application/ordering"
)

var _ ordering.ReceiptGenerator = (*ReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 12, Green: 110, Blue: 72}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa ordering.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct {
	brand    string
	currency string
	printer  *message.Printer
}

// NewReceiptGenerator brand va en el encabezado; currency es el símbolo que precede a los montos.
func NewReceiptGenerator(brand, currency string, lang language.Tag) *ReceiptGenerator {
	return &ReceiptGenerator{
		brand:    brand,
		currency: currency,
		printer:  message.NewPrinter(lang),
	}
}

// GenerateReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateReceipt(_ context.Context, data ordering.ReceiptData) ([]byte, error) {
	if data.Order == nil {
		return nil, fmt.Errorf("pdf: pedido requerido")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de entrega", true).
		WithAuthor(g.brand, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(deliveryRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, l := range data.Lines {
		m.AddRows(g.lineRow(l))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// Money formatea el monto con el símbolo y la separación de miles del idioma.
func (g *ReceiptGenerator) Money(d decimal.Decimal) string {
	return g.currency + g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *ReceiptGenerator) headerRow(data ordering.ReceiptData) core.Row {
	o := data.Order
	return row.New(20).Add(
		col.New(7).Add(
			text.New(g.brand, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(data.ShopName, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 8,
			}),
			text.New(nonEmpty(data.ShopAddress, "—"), props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE ENTREGA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Pedido "+shortID(o.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+o.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
			text.New("Estado: "+o.Status, props.Text{
				Size: 8, Align: align.Right, Top: 16, Color: colorGray,
			}),
		),
	)
}

func deliveryRow(data ordering.ReceiptData) core.Row {
	o := data.Order
	notes := ""
	if o.Notes != nil {
		notes = *o.Notes
	}
	return row.New(20).Add(
		col.New(12).Add(
			text.New("CLIENTE / ENTREGA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(data.CustomerName, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Dirección: "+o.DeliveryAddress, props.Text{Size: 8, Top: 11, Color: colorGray}),
			text.New(fmt.Sprintf("Repartidor: %s   |   Notas: %s",
				nonEmpty(data.CourierName, "sin asignar"),
				nonEmpty(notes, "—"),
			), props.Text{Size: 8, Top: 15, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func (g *ReceiptGenerator) lineRow(l ordering.ReceiptLine) core.Row {
	return row.New(7).Add(
		col.New(1).Add(text.New(fmt.Sprintf("%d", l.Quantity),
			props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(6).Add(text.New(l.Name,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(2).Add(text.New(g.Money(l.UnitPrice),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(3).Add(text.New(g.Money(l.Total),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func (g *ReceiptGenerator) totalsRow(data ordering.ReceiptData) core.Row {
	o := data.Order
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top,
		})
	}
	return row.New(28).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Envío:", 6),
			label("Servicio:", 11),
			grand("TOTAL:", 18),
		),
		col.New(3).Add(
			value(g.Money(o.Subtotal), 1),
			value(g.Money(o.DeliveryFee), 6),
			value(g.Money(o.ServiceFee), 11),
			grand(g.Money(o.TotalAmount), 18),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// shortID primeros 8 caracteres del uuid, suficiente para el cliente.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
