package synth

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Pages are drawn at A4 proportions with the bitmap font the drawing context
// ships with, then upscaled so the text lands at a size Tesseract handles
// well. Recorded boxes are scaled along with the pixels.
const (
	drawWidth  = 620
	drawHeight = 877
	pageScale  = 2

	PageWidth  = drawWidth * pageScale
	PageHeight = drawHeight * pageScale
)

type page struct {
	dc    *gg.Context
	boxes map[string]image.Rectangle
}

func newPage() *page {
	dc := gg.NewContext(drawWidth, drawHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	return &page{dc: dc, boxes: make(map[string]image.Rectangle)}
}

func (p *page) mark(class string, x1, y1, x2, y2 float64) {
	p.boxes[class] = image.Rect(int(x1), int(y1), int(x2), int(y2))
}

func (p *page) text(s string, x, y float64) {
	p.dc.DrawString(s, x, y)
}

func (p *page) textRight(s string, x, y float64) {
	w, _ := p.dc.MeasureString(s)
	p.dc.DrawString(s, x-w, y)
}

func (p *page) textCentered(s string, x, y float64) {
	p.dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
}

func (p *page) line(x1, y1, x2, y2 float64) {
	p.dc.DrawLine(x1, y1, x2, y2)
	p.dc.Stroke()
}

// qrPlaceholder draws a QR-looking module grid. The detector only needs the
// visual pattern; the payload is never decoded downstream.
func (p *page) qrPlaceholder(data string, x, y, size float64) {
	const modules = 21
	cell := size / modules
	p.dc.DrawRectangle(x, y, size, size)
	p.dc.Stroke()
	seed := len(data)
	for i := 0; i < modules; i++ {
		for j := 0; j < modules; j++ {
			if (i*31+j*17+seed)%3 == 0 {
				p.dc.DrawRectangle(x+float64(i)*cell, y+float64(j)*cell, cell, cell)
				p.dc.Fill()
			}
		}
	}
}

func (p *page) finish() (image.Image, map[string]image.Rectangle) {
	img := imaging.Resize(p.dc.Image(), PageWidth, PageHeight, imaging.Lanczos)
	scaled := make(map[string]image.Rectangle, len(p.boxes))
	for class, box := range p.boxes {
		scaled[class] = image.Rect(
			box.Min.X*pageScale, box.Min.Y*pageScale,
			box.Max.X*pageScale, box.Max.Y*pageScale,
		)
	}
	return img, scaled
}

// RenderInvoice draws an A, B or C invoice and returns the page plus the
// ground-truth box of every labeled region.
func RenderInvoice(doc *Document) (image.Image, map[string]image.Rectangle) {
	p := newPage()
	dc := p.dc
	const m = 59.0
	right := drawWidth - m - 5.0

	// Outer frame
	dc.DrawRectangle(m, m, drawWidth-2*m, drawHeight-2*m)
	dc.Stroke()

	// Invoice-type letter box, top center
	dc.DrawRectangle(drawWidth/2-29, 74, 59, 59)
	dc.Stroke()
	p.textCentered(doc.Kind, drawWidth/2, 103)
	p.mark("tipo_factura", drawWidth/2-29, 74, drawWidth/2+30, 133)

	// Issuer block, top left
	p.text(doc.CompanyName, m+5, 74)
	cuitLine := fmt.Sprintf("CUIT: %s  |  IVA: %s", doc.CUIT, doc.IVAStatus)
	p.text(cuitLine, m+5, 89)
	p.text("Domicilio: "+doc.Address, m+5, 103)
	p.mark("razon_social", m+5, 62, m+200, 108)
	p.mark("cuit_emisor", m+5, 80, m+180, 94)

	// Invoice info, top right
	p.textRight("Factura "+doc.Kind, right, 74)
	p.textRight(fmt.Sprintf("P.V: %s N° %s", doc.PointOfSale, doc.Number), right, 89)
	p.mark("numero_factura", right-150, 80, right, 94)
	p.textRight("Fecha: "+doc.Date, right, 103)
	p.mark("fecha", right-110, 94, right, 108)

	// Customer block
	p.line(m+5, 118, right, 118)
	p.text("Cliente: "+doc.Customer, m+5, 136)
	p.text("Condición frente al IVA: "+doc.CustomerTax, m+5, 151)
	p.text("Condición de venta: "+doc.SaleTerms, m+5, 166)

	// Items table
	headerY := 236.0
	p.line(m+5, headerY, right, headerY)
	p.text("Producto / Servicio", m+8, headerY+16)
	p.textCentered("Cantidad", 400, headerY+12)
	p.textRight("Subtotal", right, headerY+16)

	y := headerY + 40
	for _, it := range doc.Items {
		p.text(it.Description, m+8, y)
		p.textCentered(fmt.Sprintf("%d", it.Quantity), 400, y-4)
		p.textRight("$"+FormatMoney(it.Subtotal), right, y)
		y += 16
	}
	p.mark("tabla_items", m+5, headerY-4, right, y-8)

	// Totals
	y += 10
	if doc.Kind == "A" {
		p.textRight("Subtotal:", right-120, y)
		p.textRight("$"+FormatMoney(doc.Base), right, y)
		y += 15
		p.textRight("IVA 21%:", right-120, y)
		p.textRight("$"+FormatMoney(doc.IVAAmount), right, y)
		y += 20
	} else {
		p.textRight("IVA incluido en el precio final", right, y)
		y += 20
	}
	p.textRight("TOTAL:", right-120, y)
	p.textRight("$"+FormatMoney(doc.Total), right, y)
	p.mark("total", right-160, y-12, right, y+6)

	// Footer
	p.text(fmt.Sprintf("CAE: %s  |  Vto CAE: %s", doc.CAE, doc.CAEDue), m+5, drawHeight-74)
	p.qrPlaceholder(doc.QRData, right-84, drawHeight-m-110, 84)
	p.mark("qr", right-84, drawHeight-m-110, right, drawHeight-m-26)
	p.textCentered("Documento generado sintéticamente - No válido fiscalmente", drawWidth/2, drawHeight-30)

	return p.finish()
}

// RenderTicket draws a common retail ticket: a narrow centered column in the
// style of a thermal printer receipt.
func RenderTicket(doc *Document) (image.Image, map[string]image.Rectangle) {
	p := newPage()
	const tw = 236.0
	x0 := (drawWidth - tw) / 2
	cx := x0 + tw/2

	y := 118.0
	p.textCentered(doc.Expected()["razon_social"], cx, y)
	p.mark("razon_social", x0, y-10, x0+tw, y+8)
	y += 14

	p.textCentered(fmt.Sprintf("CUIT: %s - IVA INSC.", doc.CUIT), cx, y)
	p.mark("cuit_emisor", x0, y-7, x0+tw, y+7)
	y += 14

	p.textCentered(doc.Address, cx, y)
	y += 14

	p.textCentered(fmt.Sprintf("Fecha: %s %s  TICKET #%s", doc.Date, doc.Time, doc.Number), cx, y)
	p.mark("fecha", x0, y-7, x0+tw, y+7)
	p.boxes["numero_factura"] = p.boxes["fecha"]
	y += 12

	p.line(x0, y, x0+tw, y)
	y += 14

	itemsTop := y - 10
	for _, it := range doc.Items {
		desc := it.Description
		if r := []rune(desc); len(r) > 20 {
			desc = string(r[:20])
		}
		p.text(fmt.Sprintf("%dx %s", it.Quantity, desc), x0+6, y)
		p.textRight("$"+FormatMoney(it.Subtotal), x0+tw-6, y)
		y += 12
	}
	p.mark("tabla_items", x0+6, itemsTop, x0+tw-6, y-4)

	y += 4
	p.line(x0, y, x0+tw, y)
	y += 16

	p.textRight(fmt.Sprintf("TOTAL: $%s", FormatMoney(doc.Total)), x0+tw-6, y)
	p.mark("total", x0, y-10, x0+tw, y+8)
	y += 16

	p.text("Forma de pago: "+doc.Payment, x0+6, y)
	y += 20

	p.qrPlaceholder(doc.QRData, cx-30, y, 60)
	p.mark("qr", cx-30, y, cx+30, y+60)
	y += 80

	p.textCentered("Comprobante No Fiscal - Ley 27.430", cx, y)
	p.textCentered("Controlado por AFIP - RG 1415/03", cx, y+12)
	p.textCentered("Gracias por su compra", cx, y+24)

	return p.finish()
}
