package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"facturador/internal/dto"
	"facturador/internal/errs"
	"facturador/internal/extract"
	"facturador/internal/ocr"
	"facturador/internal/pipeline"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".pdf":  true,
}

// ProcessService accepts an uploaded document, runs the extraction pipeline
// and returns the structured result for review. Nothing is persisted here.
type ProcessService struct {
	pipeline  *pipeline.Pipeline
	uploadDir string
	logger    *zap.Logger
}

func NewProcessService(p *pipeline.Pipeline, uploadDir string, logger *zap.Logger) *ProcessService {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		logger.Warn("Failed to create upload directory", zap.Error(err))
	}

	return &ProcessService{
		pipeline:  p,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// ProcessUpload saves the file, converts it to a page image and runs the
// extraction pipeline. Unsupported formats are rejected before any detection
// or OCR work begins.
func (s *ProcessService) ProcessUpload(ctx context.Context, file io.Reader, fileName string) (*dto.ExtractionResponse, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !supportedExtensions[ext] {
		return nil, errs.Newf(errs.KindInvalidImage,
			"formato no soportado: %s (se acepta png, jpg, jpeg, pdf)", ext)
	}

	path := filepath.Join(s.uploadDir, uuid.New().String()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "", err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		return nil, errs.Wrap(errs.KindInternal, "", err)
	}
	dst.Close()

	img, err := ocr.LoadImage(path)
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	result, err := s.pipeline.Process(ctx, img)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Document processed",
		zap.String("file", fileName),
		zap.Int("fields", len(result.Fields)),
	)

	return toExtractionResponse(result), nil
}

func toExtractionResponse(result *extract.Extraction) *dto.ExtractionResponse {
	resp := &dto.ExtractionResponse{
		TipoFactura:   result.Value(extract.FieldInvoiceType),
		RazonSocial:   result.Value(extract.FieldCompanyName),
		CUITEmisor:    result.Value(extract.FieldCUIT),
		NumeroFactura: result.Value(extract.FieldInvoiceNumber),
		Fecha:         result.Value(extract.FieldDate),
		Total:         result.Value(extract.FieldTotal),
		TablaItems:    make([]dto.LineItemPayload, 0, len(result.Items())),
		Confianza:     make(map[string]float64, len(result.Fields)),
	}

	for _, item := range result.Items() {
		resp.TablaItems = append(resp.TablaItems, dto.LineItemPayload{
			Descripcion: item.Description,
			Cantidad:    item.Quantity,
			Subtotal:    item.Subtotal,
		})
	}

	for kind, field := range result.Fields {
		resp.Confianza[string(kind)] = field.Confidence
	}

	return resp
}
