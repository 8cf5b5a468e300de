// Package extract turns noisy OCR text into the structured fields of an
// Argentine invoice. It holds the per-field normalizers, the line-items table
// parser and the total reconciliation check.
package extract

import (
	"image"
	"strings"
)

// FieldKind identifies one of the document regions the detector is trained
// on. The set is closed; the string values double as detector class names and
// persistence column names.
type FieldKind string

const (
	FieldInvoiceNumber FieldKind = "numero_factura"
	FieldDate          FieldKind = "fecha"
	FieldCUIT          FieldKind = "cuit_emisor"
	FieldCompanyName   FieldKind = "razon_social"
	FieldInvoiceType   FieldKind = "tipo_factura"
	FieldItemsTable    FieldKind = "tabla_items"
	FieldTotal         FieldKind = "total"
	FieldQR            FieldKind = "qr"
)

// Kinds lists every field kind in detector class order.
var Kinds = []FieldKind{
	FieldInvoiceNumber,
	FieldDate,
	FieldCUIT,
	FieldCompanyName,
	FieldInvoiceType,
	FieldItemsTable,
	FieldTotal,
	FieldQR,
}

// KindFromClass maps a detector class name to a FieldKind, reporting whether
// the class belongs to the known vocabulary.
func KindFromClass(class string) (FieldKind, bool) {
	for _, k := range Kinds {
		if string(k) == class {
			return k, true
		}
	}
	return "", false
}

// LineItem is one parsed row of the items table. Quantity and Subtotal are
// zeroed when their text failed to parse; the row is still kept.
type LineItem struct {
	Description string  `json:"descripcion"`
	Quantity    int     `json:"cantidad"`
	Subtotal    float64 `json:"subtotal"`
}

// Field is one recognized document region after OCR and normalization.
type Field struct {
	Kind       FieldKind       `json:"campo"`
	RawText    string          `json:"texto_ocr"`
	Normalized string          `json:"texto_normalizado"`
	Items      []LineItem      `json:"items,omitempty"` // only for tabla_items
	Confidence float64         `json:"confianza"`
	Box        image.Rectangle `json:"-"`
}

// Extraction is the assembled result of one pipeline run. Kinds the detector
// did not find are simply absent.
type Extraction struct {
	Fields map[FieldKind]Field
}

// Value returns the normalized text for kind, or "" when the region was not
// detected.
func (e *Extraction) Value(kind FieldKind) string {
	if f, ok := e.Fields[kind]; ok {
		return f.Normalized
	}
	return ""
}

// Items returns the parsed line items, or nil when the table was not detected.
func (e *Extraction) Items() []LineItem {
	if f, ok := e.Fields[FieldItemsTable]; ok {
		return f.Items
	}
	return nil
}

// Normalize dispatches text to the normalizer for kind. Unknown kinds fall
// back to whitespace trimming.
func Normalize(kind FieldKind, text string) string {
	switch kind {
	case FieldCUIT:
		return NormalizeCUIT(text)
	case FieldDate:
		return NormalizeDate(text)
	case FieldTotal:
		return NormalizeAmount(text)
	case FieldCompanyName:
		return NormalizeCompanyName(text)
	case FieldInvoiceNumber:
		return NormalizeInvoiceNumber(text)
	case FieldInvoiceType:
		return NormalizeInvoiceType(text)
	default:
		return strings.TrimSpace(text)
	}
}
