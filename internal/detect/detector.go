// Package detect holds the contract with the region-detection model and the
// field-specific ROI cropping applied to its output. The model itself runs
// out of process; this package only knows how to call it and how to turn its
// boxes into OCR-ready crops.
package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"

	"facturador/pkg/config"

	"go.uber.org/zap"
)

// Detection is one box reported by the model.
type Detection struct {
	Class      string
	Confidence float64
	Box        image.Rectangle
}

// Detector maps an image to the regions found on it.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Detection, error)
}

// HTTPDetector calls a YOLO inference sidecar over HTTP: the request body is
// the PNG-encoded page, the response lists class/confidence/box triples.
type HTTPDetector struct {
	endpoint      string
	minConfidence float64
	client        *http.Client
	logger        *zap.Logger
}

func NewHTTPDetector(cfg *config.DetectorConfig, logger *zap.Logger) *HTTPDetector {
	return &HTTPDetector{
		endpoint:      cfg.Endpoint,
		minConfidence: cfg.MinConfidence,
		client:        &http.Client{Timeout: cfg.Timeout},
		logger:        logger,
	}
}

type detectionPayload struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	Box        [4]int  `json:"box"` // x1, y1, x2, y2
}

type detectResponse struct {
	Detections []detectionPayload `json:"detections"`
}

func (d *HTTPDetector) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build detector request: %w", err)
	}
	req.Header.Set("Content-Type", "image/png")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detector request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detector returned status %d", resp.StatusCode)
	}

	var payload detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode detector response: %w", err)
	}

	detections := make([]Detection, 0, len(payload.Detections))
	for _, det := range payload.Detections {
		if det.Confidence < d.minConfidence {
			continue
		}
		detections = append(detections, Detection{
			Class:      det.Class,
			Confidence: det.Confidence,
			Box:        image.Rect(det.Box[0], det.Box[1], det.Box[2], det.Box[3]),
		})
	}

	d.logger.Debug("Detection completed",
		zap.Int("detections", len(detections)),
		zap.Int("below_threshold", len(payload.Detections)-len(detections)),
	)

	return detections, nil
}
