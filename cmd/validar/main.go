// validar runs the real extraction pipeline over a directory of rendered
// invoices and scores every field against the expected.yaml ground truth,
// appending the comparison to a CSV validation log.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"facturador/internal/accuracy"
	"facturador/internal/detect"
	"facturador/internal/ocr"
	"facturador/internal/pipeline"
	"facturador/pkg/config"
	"facturador/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	var (
		dir      = flag.String("dir", "facturas_prueba", "directory of PNG documents to validate")
		expected = flag.String("expected", "", "ground truth file (default <dir>/expected.yaml)")
		out      = flag.String("out", "logs/validacion_ocr.csv", "CSV output path")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	expectedPath := *expected
	if expectedPath == "" {
		expectedPath = filepath.Join(*dir, "expected.yaml")
	}
	groundTruth, err := accuracy.LoadExpected(expectedPath)
	if err != nil {
		appLogger.Fatal("Failed to load expected values", zap.String("path", expectedPath), zap.Error(err))
	}

	reader, err := ocr.NewTesseractReader(&cfg.OCR, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize OCR engine", zap.Error(err))
	}
	defer reader.Close()

	detector := detect.NewHTTPDetector(&cfg.Detector, appLogger)
	extractor := pipeline.New(detector, reader, appLogger)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		appLogger.Fatal("Failed to read directory", zap.String("dir", *dir), zap.Error(err))
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	ctx := context.Background()
	var rows []accuracy.Row
	for _, name := range files {
		exp, ok := groundTruth[name]
		if !ok {
			appLogger.Warn("No ground truth for file, skipping", zap.String("file", name))
			continue
		}

		img, err := ocr.LoadImage(filepath.Join(*dir, name))
		if err != nil {
			appLogger.Error("Failed to load image", zap.String("file", name), zap.Error(err))
			continue
		}

		result, err := extractor.Process(ctx, img)
		if err != nil {
			appLogger.Error("Pipeline failed", zap.String("file", name), zap.Error(err))
			continue
		}

		rows = append(rows, accuracy.Evaluate(name, result, exp)...)
		appLogger.Info("Validated document", zap.String("file", name))
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		appLogger.Fatal("Failed to create output directory", zap.Error(err))
	}
	f, err := os.Create(*out)
	if err != nil {
		appLogger.Fatal("Failed to create CSV", zap.String("path", *out), zap.Error(err))
	}
	defer f.Close()

	if err := accuracy.WriteCSV(f, rows); err != nil {
		appLogger.Fatal("Failed to write CSV", zap.Error(err))
	}

	appLogger.Info("Validation complete",
		zap.String("csv", *out),
		zap.Int("fields", len(rows)),
		zap.Float64("accuracy", accuracy.Accuracy(rows)),
	)
}
