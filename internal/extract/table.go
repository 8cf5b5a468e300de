package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reTableHeader = regexp.MustCompile(`(?i)producto\s*/?\s*servicio\s*cantidad\s*subtotal`)

	// One row: shortest description, then quantity digits, then an optional
	// currency symbol and the subtotal, which must end at whitespace or at the
	// end of the blob. Rows arrive as one undivided string, so the boundary
	// between a subtotal and the next description is inferred from this
	// pattern alone — best effort, not exact.
	reTableRow = regexp.MustCompile(`(.+?)\s+(\d+)\s+\$?([\d.,]+)(?:\s|$)`)
)

// NormalizeTableItems parses the OCR blob of the items-table region into
// structured rows. A row whose quantity or subtotal fails to parse is still
// emitted with the broken field zeroed: partial extraction beats dropping the
// whole table.
func NormalizeTableItems(text string) []LineItem {
	if text == "" {
		return nil
	}

	t := reTableHeader.ReplaceAllString(text, "")
	t = strings.Join(strings.Fields(t), " ")

	matches := reTableRow.FindAllStringSubmatch(t, -1)

	var items []LineItem
	for _, m := range matches {
		quantity, err := strconv.Atoi(m[2])
		if err != nil {
			quantity = 0
		}

		raw := strings.ReplaceAll(m[3], ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
		subtotal, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			subtotal = 0.0
		}

		items = append(items, LineItem{
			Description: strings.TrimSpace(m[1]),
			Quantity:    quantity,
			Subtotal:    subtotal,
		})
	}

	return items
}
