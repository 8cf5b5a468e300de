// Package pipeline sequences one document through detection, OCR and
// normalization. It holds no state between runs: every invocation takes an
// image and returns a fresh extraction.
package pipeline

import (
	"context"
	"image"
	"regexp"
	"strings"

	"facturador/internal/detect"
	"facturador/internal/errs"
	"facturador/internal/extract"
	"facturador/internal/ocr"

	"go.uber.org/zap"
)

// Amounts printed on the total line follow the strict Argentine grouping;
// pre-extracting with this pattern strips labels like "TOTAL $" before the
// general amount normalizer runs.
var reStrictAmount = regexp.MustCompile(`\d{1,3}(\.\d{3})*,\d{2}`)

type Pipeline struct {
	detector detect.Detector
	reader   ocr.TextReader
	logger   *zap.Logger
}

// New wires the pipeline with its collaborators. Both are injected so tests
// can run with fakes and the process can share one Tesseract client.
func New(detector detect.Detector, reader ocr.TextReader, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		detector: detector,
		reader:   reader,
		logger:   logger,
	}
}

// Process runs the full extraction for one page image. Fields the detector
// did not find are absent from the result; unreadable regions come back with
// an empty value. Only detector transport failures abort the run.
func (p *Pipeline) Process(ctx context.Context, img image.Image) (*extract.Extraction, error) {
	detections, err := p.detector.Detect(ctx, img)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "falló la detección de regiones", err)
	}

	regions := detect.CropRegions(img, detections)
	fields := make(map[extract.FieldKind]extract.Field, len(regions))

	for kind, region := range regions {
		text, err := p.reader.ReadRegion(ctx, region.Crop)
		if err != nil {
			p.logger.Warn("Region read failed",
				zap.String("field", string(kind)),
				zap.Error(err),
			)
			text = ocr.Unreadable
		}
		if text == ocr.Unreadable {
			text = ""
		}

		if kind == extract.FieldTotal {
			if m := reStrictAmount.FindString(text); m != "" {
				text = m
			}
		}

		field := extract.Field{
			Kind:       kind,
			RawText:    text,
			Confidence: region.Confidence,
			Box:        region.Box,
		}

		if kind == extract.FieldItemsTable {
			field.Items = extract.NormalizeTableItems(text)
			field.Normalized = strings.TrimSpace(text)
		} else {
			field.Normalized = extract.Normalize(kind, text)
		}

		p.logger.Debug("Field extracted",
			zap.String("field", string(kind)),
			zap.Float64("confidence", region.Confidence),
			zap.String("raw", field.RawText),
			zap.String("normalized", field.Normalized),
		)

		fields[kind] = field
	}

	return &extract.Extraction{Fields: fields}, nil
}
