// Package accuracy measures field-level OCR quality against ground truth.
// Both the OCR output and the expected value run through the same
// normalization, so the comparison scores the pipeline, not formatting noise.
package accuracy

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"facturador/internal/extract"

	"gopkg.in/yaml.v3"
)

// Row is one field comparison in the validation log.
type Row struct {
	Factura                  string
	Campo                    string
	TextoOCR                 string
	TextoOCRNormalizado      string
	TextoEsperado            string
	TextoEsperadoNormalizado string
	Correcto                 bool
}

// Evaluate compares an extraction with the expected values of one document.
// Only fields present in the expected map are scored; rows come out in the
// canonical field order.
func Evaluate(file string, result *extract.Extraction, expected map[string]string) []Row {
	rows := make([]Row, 0, len(expected))
	for _, kind := range extract.Kinds {
		expectedRaw, ok := expected[string(kind)]
		if !ok {
			continue
		}

		var raw, normalized string
		if field, found := result.Fields[kind]; found {
			raw = field.RawText
			normalized = field.Normalized
		}
		expectedNorm := extract.Normalize(kind, expectedRaw)

		rows = append(rows, Row{
			Factura:                  file,
			Campo:                    string(kind),
			TextoOCR:                 raw,
			TextoOCRNormalizado:      normalized,
			TextoEsperado:            expectedRaw,
			TextoEsperadoNormalizado: expectedNorm,
			Correcto:                 normalized == expectedNorm,
		})
	}
	return rows
}

// Accuracy returns the fraction of correct rows, 0 when there are none.
func Accuracy(rows []Row) float64 {
	if len(rows) == 0 {
		return 0
	}
	correct := 0
	for _, r := range rows {
		if r.Correcto {
			correct++
		}
	}
	return float64(correct) / float64(len(rows))
}

// LoadExpected reads the ground-truth file: a map of image file name to
// field name to expected text.
func LoadExpected(path string) (map[string]map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	expected := make(map[string]map[string]string)
	if err := yaml.Unmarshal(data, &expected); err != nil {
		return nil, err
	}
	return expected, nil
}

// WriteCSV writes the validation log with its fixed column set.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	header := []string{
		"factura", "campo", "texto_ocr", "texto_ocr_normalizado",
		"texto_esperado", "texto_esperado_normalizado", "correcto",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Factura, r.Campo, r.TextoOCR, r.TextoOCRNormalizado,
			r.TextoEsperado, r.TextoEsperadoNormalizado, strconv.FormatBool(r.Correcto),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
