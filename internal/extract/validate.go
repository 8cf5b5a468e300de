package extract

import (
	"facturador/internal/errs"

	"github.com/shopspring/decimal"
)

// ReconcileTotal checks the declared total against the sum of line-item
// subtotals, both rounded to two decimal places. A mismatch is reported, not
// corrected: there is no way to know which of the two values is the wrong one.
func ReconcileTotal(total string, items []LineItem) error {
	declared, err := decimal.NewFromString(total)
	if err != nil {
		return errs.Newf(errs.KindInvalidData, "el total %q no es un monto válido", total)
	}

	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(decimal.NewFromFloat(item.Subtotal))
	}

	declared = declared.Round(2)
	sum = sum.Round(2)

	if !declared.Equal(sum) {
		return errs.Newf(errs.KindInvalidData,
			"el total declarado %s no coincide con la suma de los items %s",
			declared.StringFixed(2), sum.StringFixed(2))
	}

	return nil
}
