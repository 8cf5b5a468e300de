package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTableItemsEmpty(t *testing.T) {
	assert.Empty(t, NormalizeTableItems(""))
}

func TestNormalizeTableItemsTwoRows(t *testing.T) {
	blob := "Producto/Servicio Cantidad Subtotal Yerba Mate 1kg 2 $3.500,00 Pan Lactal 1 1.800,50"

	items := NormalizeTableItems(blob)
	require.Len(t, items, 2)

	assert.Equal(t, LineItem{Description: "Yerba Mate 1kg", Quantity: 2, Subtotal: 3500.00}, items[0])
	assert.Equal(t, LineItem{Description: "Pan Lactal", Quantity: 1, Subtotal: 1800.50}, items[1])
}

func TestNormalizeTableItemsHeaderVariants(t *testing.T) {
	// Header tolerates missing slash, mixed case and irregular whitespace.
	for _, blob := range []string{
		"PRODUCTO / SERVICIO   CANTIDAD  SUBTOTAL Azúcar 1kg 3 2.100,00",
		"producto servicio cantidad subtotal Azúcar 1kg 3 2.100,00",
	} {
		items := NormalizeTableItems(blob)
		require.Len(t, items, 1, "blob %q", blob)
		assert.Equal(t, "Azúcar 1kg", items[0].Description)
		assert.Equal(t, 3, items[0].Quantity)
		assert.Equal(t, 2100.00, items[0].Subtotal)
	}
}

func TestNormalizeTableItemsPartialRow(t *testing.T) {
	// A subtotal that does not survive the decimal conversion is zeroed, the
	// row itself is kept.
	items := NormalizeTableItems("Servicio técnico 1 ,,")
	require.Len(t, items, 1)
	assert.Equal(t, "Servicio técnico", items[0].Description)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 0.0, items[0].Subtotal)
}

func TestNormalizeTableItemsNoMatch(t *testing.T) {
	assert.Empty(t, NormalizeTableItems("texto sin estructura de tabla"))
}

func TestNormalizeTableItemsCollapsesNewlines(t *testing.T) {
	blob := "Leche Entera 1L\n2\n$2.400,00\nGaseosa Cola 2L 1 3.900,00"

	items := NormalizeTableItems(blob)
	require.Len(t, items, 2)
	assert.Equal(t, "Leche Entera 1L", items[0].Description)
	assert.Equal(t, 2400.00, items[0].Subtotal)
	assert.Equal(t, "Gaseosa Cola 2L", items[1].Description)
}
