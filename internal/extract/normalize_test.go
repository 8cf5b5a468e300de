package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCUIT(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean eleven digits", "20123456789", "20-12345678-9"},
		{"already formatted", "20-12345678-9", "20-12345678-9"},
		{"noise around digits", "CUIT: 30.88429230.3", "30-88429230-3"},
		{"ten digits passes through", " 0123456789 ", "0123456789"},
		{"twelve digits passes through", "201234567890", "201234567890"},
		{"no digits passes through", "  sin cuit  ", "sin cuit"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCUIT(tt.in))
		})
	}
}

func TestNormalizeCUITIdempotent(t *testing.T) {
	for _, in := range []string{"20123456789", "CUIT 30-88429230-3", "basura 123"} {
		once := NormalizeCUIT(in)
		assert.Equal(t, once, NormalizeCUIT(once), "input %q", in)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"slash dmy", "26/06/2024", "26/06/2024"},
		{"dash dmy", "26-06-2024", "26/06/2024"},
		{"iso dash", "2024-06-26", "26/06/2024"},
		{"iso slash", "2024/06/26", "26/06/2024"},
		{"embedded in noise", "Fecha: 19/05/2024 hs", "19/05/2024"},
		{"invalid day passes through", "45/13/2024", "45/13/2024"},
		{"garbage passes through", "  sin fecha  ", "sin fecha"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.in))
		})
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	for _, in := range []string{"2024-06-26", "Fecha 08/03/2025", "no es fecha"} {
		once := NormalizeDate(in)
		assert.Equal(t, once, NormalizeDate(once), "input %q", in)
	}
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"thousands and decimals", "2.757,90", "2757.90"},
		{"labeled total", "TOTAL $ 129.067,54", "129067.54"},
		{"plain decimals", "154,29", "154.29"},
		{"spaces inside number", "1 2.757,90", "12757.90"},
		{"canonical form unchanged", "2757.90", "2757.90"},
		{"garbage passes through", "  ilegible  ", "ilegible"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAmount(tt.in))
		})
	}
}

func TestNormalizeAmountIdempotent(t *testing.T) {
	for _, in := range []string{"2.757,90", "TOTAL $ 129.067,54", "154,29"} {
		once := NormalizeAmount(in)
		assert.Equal(t, once, NormalizeAmount(once), "input %q", in)
	}
}

func TestNormalizeCompanyName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name uppercased", "Diaz-Benitez S.A.", "DIAZ-BENITEZ S.A."},
		{"ocr prefix stripped", "FR. Gomez-Luna SRL", "GOMEZ-LUNA SRL"},
		{"cod fragment removed", "_? Castillo-Acosta S.A. COD. 123", "CASTILLO-ACOSTA S.A."},
		{"longest run wins", "@@ PANADERÍA LA NUEVA @ KM", "PANADERÍA LA NUEVA"},
		{"collapses whitespace", "SUPERMERCADO   LOS  ANDES", "SUPERMERCADO LOS ANDES"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCompanyName(tt.in))
		})
	}
}

func TestNormalizeInvoiceNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single run", "95898083", "95898083"},
		{"longest run wins", "P.V: 0004 N° 95898083", "95898083"},
		{"first of equal lengths", "1234 5678", "1234"},
		{"no digits passes through", " S/N ", "S/N"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeInvoiceNumber(tt.in))
		})
	}
}

func TestNormalizeInvoiceType(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare letter", "A", "A"},
		{"lowercase", "b", "B"},
		{"letter after cod label", "COD. 006 B", "B"},
		{"cod label only", "COD. 6", ""},
		{"letter inside word", "FACTURA", "A"},
		{"no letter", "XYZ 99", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeInvoiceType(tt.in))
		})
	}
}

func TestNormalizeDispatch(t *testing.T) {
	assert.Equal(t, "20-12345678-9", Normalize(FieldCUIT, "20123456789"))
	assert.Equal(t, "26/06/2024", Normalize(FieldDate, "2024-06-26"))
	assert.Equal(t, "2757.90", Normalize(FieldTotal, "2.757,90"))
	assert.Equal(t, "B", Normalize(FieldInvoiceType, "COD. 006 B"))
	// QR and unknown kinds just trim.
	assert.Equal(t, "https://afip.gob.ar/fe", Normalize(FieldQR, " https://afip.gob.ar/fe "))
}

func TestKindFromClass(t *testing.T) {
	kind, ok := KindFromClass("tabla_items")
	assert.True(t, ok)
	assert.Equal(t, FieldItemsTable, kind)

	_, ok = KindFromClass("logo")
	assert.False(t, ok)
}
