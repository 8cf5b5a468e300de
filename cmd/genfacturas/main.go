// genfacturas renders a synthetic dataset of Argentine invoices and tickets:
// a PNG page, a YOLO label file per page, annotations.json with the full
// metadata and expected.yaml with the ground truth the accuracy tool reads.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"facturador/internal/synth"
	"facturador/pkg/logger"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var typeDirs = map[string]string{
	"A":      "Factura_A",
	"B":      "Factura_B",
	"C":      "Factura_C",
	"TICKET": "Ticket_Comun",
}

func main() {
	var (
		perType = flag.Int("n", 10, "documents to generate per type")
		outDir  = flag.String("out", "facturas", "output directory")
		seed    = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	if err := logger.Init("info"); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	gen := synth.NewGenerator(*seed)
	annotations := make(map[string]*synth.Document)
	expected := make(map[string]map[string]string)

	write := func(kind string, index int, doc *synth.Document) error {
		dir := filepath.Join(*outDir, typeDirs[kind])
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}

		var base string
		var img image.Image
		var boxes map[string]image.Rectangle
		if kind == "TICKET" {
			base = fmt.Sprintf("ticket_%04d", index)
			img, boxes = synth.RenderTicket(doc)
		} else {
			base = fmt.Sprintf("factura_%s_%04d", kind, index)
			img, boxes = synth.RenderInvoice(doc)
		}

		pngPath := filepath.Join(dir, base+".png")
		if err := imaging.Save(img, pngPath); err != nil {
			return err
		}

		var labels []byte
		for _, line := range synth.YOLOLabels(boxes, synth.PageWidth, synth.PageHeight) {
			labels = append(labels, line...)
			labels = append(labels, '\n')
		}
		if err := os.WriteFile(filepath.Join(dir, base+".txt"), labels, 0644); err != nil {
			return err
		}

		key := typeDirs[kind] + "/" + base + ".png"
		annotations[key] = doc
		expected[base+".png"] = doc.Expected()
		return nil
	}

	for _, kind := range []string{"A", "B", "C", "TICKET"} {
		for i := 1; i <= *perType; i++ {
			var doc *synth.Document
			if kind == "TICKET" {
				doc = gen.Ticket()
			} else {
				doc = gen.Invoice(kind)
			}
			if err := write(kind, i, doc); err != nil {
				appLogger.Fatal("Failed to write document", zap.String("kind", kind), zap.Int("index", i), zap.Error(err))
			}
		}
		appLogger.Info("Generated documents", zap.String("kind", kind), zap.Int("count", *perType))
	}

	annPath := filepath.Join(*outDir, "annotations.json")
	annData, err := json.MarshalIndent(annotations, "", "  ")
	if err != nil {
		appLogger.Fatal("Failed to marshal annotations", zap.Error(err))
	}
	if err := os.WriteFile(annPath, annData, 0644); err != nil {
		appLogger.Fatal("Failed to write annotations", zap.Error(err))
	}

	expPath := filepath.Join(*outDir, "expected.yaml")
	expData, err := yaml.Marshal(expected)
	if err != nil {
		appLogger.Fatal("Failed to marshal expected values", zap.Error(err))
	}
	if err := os.WriteFile(expPath, expData, 0644); err != nil {
		appLogger.Fatal("Failed to write expected values", zap.Error(err))
	}

	appLogger.Info("Dataset generated",
		zap.String("dir", *outDir),
		zap.Int("documents", len(annotations)),
	)
}
