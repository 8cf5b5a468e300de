package ocr

import (
	"image"
	"path/filepath"
	"strings"

	"facturador/internal/errs"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
)

// LoadImage turns an uploaded file into a page image. PNG and JPEG are
// decoded directly; for a PDF the first page is rendered. Anything else is
// rejected here, before any detection or OCR work starts.
func LoadImage(path string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		img, err := imaging.Open(path, imaging.AutoOrientation(true))
		if err != nil {
			return nil, errs.Wrap(errs.KindInvalidImage, "", err)
		}
		return img, nil
	case ".pdf":
		return renderPDFPage(path)
	default:
		return nil, errs.Newf(errs.KindInvalidImage,
			"formato no soportado: %s (se acepta png, jpg, jpeg, pdf)", filepath.Ext(path))
	}
}

func renderPDFPage(path string) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidPDF, "", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, errs.New(errs.KindInvalidPDF, "el PDF no tiene páginas")
	}

	img, err := doc.Image(0)
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidPDF, "", err)
	}

	return img, nil
}
