package detect

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturador/internal/extract"
)

func testPage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 1000, 1400))
}

func TestCropRegionsExpandsCUITAndTotal(t *testing.T) {
	regions := CropRegions(testPage(), []Detection{
		{Class: "cuit_emisor", Confidence: 0.9, Box: image.Rect(100, 100, 300, 130)},
		{Class: "total", Confidence: 0.8, Box: image.Rect(600, 1200, 900, 1240)},
	})

	require.Len(t, regions, 2)
	assert.Equal(t, image.Rect(80, 80, 320, 150), regions[extract.FieldCUIT].Box)
	assert.Equal(t, image.Rect(580, 1180, 920, 1260), regions[extract.FieldTotal].Box)
}

func TestCropRegionsClampsToImageBounds(t *testing.T) {
	regions := CropRegions(testPage(), []Detection{
		{Class: "cuit_emisor", Confidence: 0.9, Box: image.Rect(5, 5, 990, 1395)},
	})

	require.Contains(t, regions, extract.FieldCUIT)
	assert.Equal(t, image.Rect(0, 0, 1000, 1400), regions[extract.FieldCUIT].Box)
}

func TestCropRegionsInvoiceTypeAsymmetric(t *testing.T) {
	regions := CropRegions(testPage(), []Detection{
		{Class: "tipo_factura", Confidence: 0.7, Box: image.Rect(470, 100, 530, 200)},
	})

	require.Contains(t, regions, extract.FieldInvoiceType)
	// x widened by 5, top lifted by 25, bottom cut by 30.
	assert.Equal(t, image.Rect(465, 75, 535, 170), regions[extract.FieldInvoiceType].Box)
}

func TestCropRegionsInvoiceTypeMinHeight(t *testing.T) {
	regions := CropRegions(testPage(), []Detection{
		{Class: "tipo_factura", Confidence: 0.7, Box: image.Rect(470, 100, 530, 120)},
	})

	require.Contains(t, regions, extract.FieldInvoiceType)
	box := regions[extract.FieldInvoiceType].Box
	assert.Equal(t, 20, box.Dy())
}

func TestCropRegionsItemsTableDropsHeader(t *testing.T) {
	regions := CropRegions(testPage(), []Detection{
		{Class: "tabla_items", Confidence: 0.9, Box: image.Rect(50, 500, 950, 900)},
	})

	require.Contains(t, regions, extract.FieldItemsTable)
	assert.Equal(t, image.Rect(50, 530, 950, 900), regions[extract.FieldItemsTable].Box)
}

func TestCropRegionsIgnoresUnknownClass(t *testing.T) {
	regions := CropRegions(testPage(), []Detection{
		{Class: "logo", Confidence: 0.99, Box: image.Rect(0, 0, 100, 100)},
	})

	assert.Empty(t, regions)
}

func TestCropRegionsLastDetectionWins(t *testing.T) {
	regions := CropRegions(testPage(), []Detection{
		{Class: "fecha", Confidence: 0.4, Box: image.Rect(0, 0, 100, 40)},
		{Class: "fecha", Confidence: 0.9, Box: image.Rect(200, 0, 300, 40)},
	})

	require.Len(t, regions, 1)
	assert.Equal(t, 0.9, regions[extract.FieldDate].Confidence)
	assert.Equal(t, image.Rect(200, 0, 300, 40), regions[extract.FieldDate].Box)
}

func TestCropRegionsSkipsEmptyBox(t *testing.T) {
	// Table header trim can swallow a box shorter than the trim margin.
	regions := CropRegions(testPage(), []Detection{
		{Class: "tabla_items", Confidence: 0.9, Box: image.Rect(50, 500, 950, 520)},
	})

	assert.Empty(t, regions)
}

func TestCropRegionsCropMatchesBox(t *testing.T) {
	regions := CropRegions(testPage(), []Detection{
		{Class: "numero_factura", Confidence: 0.9, Box: image.Rect(700, 60, 900, 100)},
	})

	require.Contains(t, regions, extract.FieldInvoiceNumber)
	crop := regions[extract.FieldInvoiceNumber].Crop
	assert.Equal(t, 200, crop.Bounds().Dx())
	assert.Equal(t, 40, crop.Bounds().Dy())
}
