package synth

import (
	"image"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCUITFormat(t *testing.T) {
	g := NewGenerator(1)
	pattern := regexp.MustCompile(`^\d{2}-\d{8}-\d$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, g.CUIT())
	}
}

func TestGeneratorIsDeterministic(t *testing.T) {
	a := NewGenerator(42).Invoice("A")
	b := NewGenerator(42).Invoice("A")
	assert.Equal(t, a, b)
}

func TestFormatMoney(t *testing.T) {
	cases := map[float64]string{
		129067.54:  "129.067,54",
		54.5:       "54,50",
		999:        "999,00",
		1234567.89: "1.234.567,89",
	}
	for v, want := range cases {
		assert.Equal(t, want, FormatMoney(v))
	}
}

func TestInvoiceTotals(t *testing.T) {
	g := NewGenerator(7)

	a := g.Invoice("A")
	assert.InDelta(t, a.Base*0.21, a.IVAAmount, 0.01)
	assert.InDelta(t, a.Base+a.IVAAmount, a.Total, 0.001)

	b := g.Invoice("B")
	assert.Equal(t, b.Base, b.Total)
	assert.Zero(t, b.IVAAmount)
}

func TestExpectedValues(t *testing.T) {
	g := NewGenerator(3)

	inv := g.Invoice("B")
	exp := inv.Expected()
	assert.Equal(t, "B", exp["tipo_factura"])
	assert.Equal(t, inv.Number, exp["numero_factura"])
	assert.Equal(t, FormatMoney(inv.Total), exp["total"])

	tk := g.Ticket()
	texp := tk.Expected()
	assert.Empty(t, texp["tipo_factura"])
	assert.Equal(t, strings.ToUpper(tk.CompanyName), texp["razon_social"])
}

func TestRenderInvoiceCoversAllClasses(t *testing.T) {
	doc := NewGenerator(11).Invoice("A")
	img, boxes := RenderInvoice(doc)

	bounds := img.Bounds()
	assert.Equal(t, PageWidth, bounds.Dx())
	assert.Equal(t, PageHeight, bounds.Dy())

	page := image.Rect(0, 0, PageWidth, PageHeight)
	for class := range YOLOClassMap {
		box, ok := boxes[class]
		require.True(t, ok, "missing box for %s", class)
		assert.True(t, box.In(page), "box for %s outside page: %v", class, box)
		assert.False(t, box.Empty(), "empty box for %s", class)
	}
}

func TestRenderTicketSharesDateAndNumberBox(t *testing.T) {
	doc := NewGenerator(13).Ticket()
	_, boxes := RenderTicket(doc)

	assert.Equal(t, boxes["fecha"], boxes["numero_factura"])
	for class := range YOLOClassMap {
		assert.Contains(t, boxes, class)
	}
}

func TestYOLOLabels(t *testing.T) {
	boxes := map[string]image.Rectangle{
		"fecha":   image.Rect(100, 200, 300, 240),
		"qr":      image.Rect(0, 0, 50, 50),
		"ignored": image.Rect(1, 1, 2, 2),
	}
	lines := YOLOLabels(boxes, 1000, 1000)
	require.Len(t, lines, 2)
	assert.Equal(t, "1 0.200000 0.220000 0.200000 0.040000", lines[0])
	assert.Equal(t, "7 0.025000 0.025000 0.050000 0.050000", lines[1])
}
