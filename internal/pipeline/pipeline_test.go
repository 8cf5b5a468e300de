package pipeline

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"facturador/internal/detect"
	"facturador/internal/errs"
	"facturador/internal/extract"
	"facturador/internal/ocr"
)

type stubDetector struct {
	detections []detect.Detection
	err        error
}

func (d *stubDetector) Detect(context.Context, image.Image) ([]detect.Detection, error) {
	return d.detections, d.err
}

// stubReader answers by crop width; every region in the fixture has a
// distinct width after box adjustment.
type stubReader struct {
	byWidth map[int]string
}

func (r *stubReader) ReadRegion(_ context.Context, img image.Image) (string, error) {
	if text, ok := r.byWidth[img.Bounds().Dx()]; ok {
		return text, nil
	}
	return ocr.Unreadable, nil
}

func testPage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 1000, 1400))
}

func TestProcessFullDocument(t *testing.T) {
	detector := &stubDetector{detections: []detect.Detection{
		{Class: "razon_social", Confidence: 0.93, Box: image.Rect(50, 60, 650, 100)},
		{Class: "numero_factura", Confidence: 0.91, Box: image.Rect(700, 60, 900, 100)},
		{Class: "fecha", Confidence: 0.88, Box: image.Rect(0, 0, 100, 40)},
		{Class: "cuit_emisor", Confidence: 0.90, Box: image.Rect(100, 100, 300, 130)},
		{Class: "tipo_factura", Confidence: 0.72, Box: image.Rect(470, 100, 530, 200)},
		{Class: "tabla_items", Confidence: 0.85, Box: image.Rect(50, 500, 950, 900)},
		{Class: "total", Confidence: 0.89, Box: image.Rect(600, 1200, 900, 1240)},
	}}

	reader := &stubReader{byWidth: map[int]string{
		600: "FR. Gomez-Luna SRL",
		200: "P.V: 0004 N° 95898083",
		100: "Fecha: 26-06-2024",
		240: "CUIT: 30.88429230.3",
		70:  "COD. 006 B",
		900: "Producto/Servicio Cantidad Subtotal Yerba Mate 1kg 2 $3.500,00 Pan Lactal 1 1.800,50",
		340: "TOTAL $ 129.067,54",
	}}

	p := New(detector, reader, zap.NewNop())
	result, err := p.Process(context.Background(), testPage())
	require.NoError(t, err)

	assert.Equal(t, "GOMEZ-LUNA SRL", result.Value(extract.FieldCompanyName))
	assert.Equal(t, "95898083", result.Value(extract.FieldInvoiceNumber))
	assert.Equal(t, "26/06/2024", result.Value(extract.FieldDate))
	assert.Equal(t, "30-88429230-3", result.Value(extract.FieldCUIT))
	assert.Equal(t, "B", result.Value(extract.FieldInvoiceType))
	assert.Equal(t, "129067.54", result.Value(extract.FieldTotal))

	// Total pre-extraction keeps only the strict amount as raw text.
	assert.Equal(t, "129.067,54", result.Fields[extract.FieldTotal].RawText)

	items := result.Items()
	require.Len(t, items, 2)
	assert.Equal(t, extract.LineItem{Description: "Yerba Mate 1kg", Quantity: 2, Subtotal: 3500.00}, items[0])
	assert.Equal(t, extract.LineItem{Description: "Pan Lactal", Quantity: 1, Subtotal: 1800.50}, items[1])

	// Kinds the detector did not report are absent, not defaulted.
	_, present := result.Fields[extract.FieldQR]
	assert.False(t, present)
}

func TestProcessUnreadableRegionBecomesEmpty(t *testing.T) {
	detector := &stubDetector{detections: []detect.Detection{
		{Class: "fecha", Confidence: 0.5, Box: image.Rect(0, 0, 100, 40)},
	}}
	reader := &stubReader{} // answers Unreadable for everything

	p := New(detector, reader, zap.NewNop())
	result, err := p.Process(context.Background(), testPage())
	require.NoError(t, err)

	field, ok := result.Fields[extract.FieldDate]
	require.True(t, ok)
	assert.Equal(t, "", field.RawText)
	assert.Equal(t, "", field.Normalized)
}

func TestProcessDetectorFailureAborts(t *testing.T) {
	detector := &stubDetector{err: errors.New("connection refused")}

	p := New(detector, &stubReader{}, zap.NewNop())
	_, err := p.Process(context.Background(), testPage())
	require.Error(t, err)
	assert.Equal(t, errs.KindInternal, errs.KindOf(err))
}

func TestProcessIgnoresUnknownClasses(t *testing.T) {
	detector := &stubDetector{detections: []detect.Detection{
		{Class: "marca_de_agua", Confidence: 0.99, Box: image.Rect(0, 0, 50, 50)},
	}}

	p := New(detector, &stubReader{}, zap.NewNop())
	result, err := p.Process(context.Background(), testPage())
	require.NoError(t, err)
	assert.Empty(t, result.Fields)
}
