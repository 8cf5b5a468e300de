package detect

import (
	"image"

	"facturador/internal/extract"

	"github.com/disintegration/imaging"
)

// Region is one detected field with its OCR-ready crop.
type Region struct {
	Kind       extract.FieldKind
	Box        image.Rectangle
	Confidence float64
	Crop       image.Image
}

// CropRegions applies the per-field box adjustments tuned against the
// synthetic dataset and crops each region out of the page. Classes outside
// the known vocabulary are ignored; when a class is detected more than once
// the last detection wins.
func CropRegions(img image.Image, detections []Detection) map[extract.FieldKind]Region {
	bounds := img.Bounds()
	regions := make(map[extract.FieldKind]Region)

	for _, det := range detections {
		kind, ok := extract.KindFromClass(det.Class)
		if !ok {
			continue
		}

		box := adjustBox(kind, det.Box, bounds)
		if box.Dx() <= 0 || box.Dy() <= 0 {
			continue
		}

		regions[kind] = Region{
			Kind:       kind,
			Box:        box,
			Confidence: det.Confidence,
			Crop:       imaging.Crop(img, box),
		}
	}

	return regions
}

func adjustBox(kind extract.FieldKind, box image.Rectangle, bounds image.Rectangle) image.Rectangle {
	switch kind {
	case extract.FieldCUIT, extract.FieldTotal:
		box = expandBox(box, 20, bounds)
	case extract.FieldInvoiceType:
		// The letter box detection tends to include the surrounding frame:
		// widen slightly, lift the top and cut the bottom, keeping a minimum
		// height.
		box.Min.X = max(bounds.Min.X, box.Min.X-5)
		box.Max.X = min(bounds.Max.X, box.Max.X+5)
		box.Min.Y = max(bounds.Min.Y, box.Min.Y-25)
		box.Max.Y = max(box.Min.Y+20, box.Max.Y-30)
	case extract.FieldItemsTable:
		// Drop the column headers from the top of the table.
		box.Min.Y = min(bounds.Max.Y, box.Min.Y+30)
	}

	return box.Intersect(bounds)
}

func expandBox(box image.Rectangle, px int, bounds image.Rectangle) image.Rectangle {
	return image.Rect(
		max(bounds.Min.X, box.Min.X-px),
		max(bounds.Min.Y, box.Min.Y-px),
		min(bounds.Max.X, box.Max.X+px),
		min(bounds.Max.Y, box.Max.Y+px),
	).Intersect(bounds)
}
