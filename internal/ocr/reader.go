// Package ocr wraps the Tesseract engine behind the TextReader contract and
// converts uploaded files into images the detector can work with.
package ocr

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"sync"

	"facturador/pkg/config"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// Unreadable is returned when a region cannot be read at all, so callers can
// tell "no text on the crop" from "extraction failed".
const Unreadable = "UNREADABLE"

// TextReader extracts raw text from one cropped region.
type TextReader interface {
	ReadRegion(ctx context.Context, img image.Image) (string, error)
}

// TesseractReader runs the local Tesseract engine. The underlying client is
// not safe for concurrent use, so calls are serialized with a mutex.
type TesseractReader struct {
	mu     sync.Mutex
	client *gosseract.Client
	logger *zap.Logger
}

func NewTesseractReader(cfg *config.OCRConfig, logger *zap.Logger) (*TesseractReader, error) {
	client := gosseract.NewClient()

	if cfg.Languages != "" {
		langs := strings.Split(cfg.Languages, "+")
		if err := client.SetLanguage(langs...); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	if cfg.DataPath != "" {
		if err := client.SetTessdataPrefix(cfg.DataPath); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	// Crops are single uniform blocks of text.
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &TesseractReader{client: client, logger: logger}, nil
}

func (r *TesseractReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client.Close()
}

// ReadRegion runs OCR on a crop. Failures are absorbed into the Unreadable
// sentinel rather than surfaced as errors: a bad crop degrades one field, it
// never fails the document.
func (r *TesseractReader) ReadRegion(_ context.Context, img image.Image) (string, error) {
	if img == nil {
		return Unreadable, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, preprocess(img)); err != nil {
		r.logger.Warn("Failed to encode region for OCR", zap.Error(err))
		return Unreadable, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.client.SetImageFromBytes(buf.Bytes()); err != nil {
		r.logger.Warn("Failed to set OCR image", zap.Error(err))
		return Unreadable, nil
	}

	text, err := r.client.Text()
	if err != nil {
		r.logger.Warn("OCR failed on region", zap.Error(err))
		return Unreadable, nil
	}

	return CleanText(text), nil
}

// preprocess enhances a crop before recognition: grayscale, contrast boost
// and sharpening make the thresholding inside Tesseract far more reliable on
// scanned invoices.
func preprocess(img image.Image) image.Image {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 30)
	return imaging.Sharpen(out, 1.5)
}

// CleanText collapses all whitespace runs (including newlines) into single
// spaces and trims the result.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
