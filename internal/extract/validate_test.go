package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturador/internal/errs"
)

func TestReconcileTotalMatch(t *testing.T) {
	items := []LineItem{
		{Description: "Yerba Mate 1kg", Quantity: 2, Subtotal: 60.00},
		{Description: "Pan Lactal", Quantity: 1, Subtotal: 40.00},
	}

	assert.NoError(t, ReconcileTotal("100.00", items))
}

func TestReconcileTotalRoundsBeforeComparing(t *testing.T) {
	items := []LineItem{
		{Subtotal: 33.333},
		{Subtotal: 66.667},
	}

	assert.NoError(t, ReconcileTotal("100.00", items))
}

func TestReconcileTotalMismatch(t *testing.T) {
	items := []LineItem{{Subtotal: 99.99}}

	err := ReconcileTotal("100.00", items)
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalidData, errs.KindOf(err))
	// The rejection must reference both values.
	assert.Contains(t, err.Error(), "100.00")
	assert.Contains(t, err.Error(), "99.99")
}

func TestReconcileTotalUnparsedTotal(t *testing.T) {
	err := ReconcileTotal("ilegible", nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalidData, errs.KindOf(err))
}

func TestReconcileTotalEmptyItems(t *testing.T) {
	assert.NoError(t, ReconcileTotal("0.00", nil))
	assert.Error(t, ReconcileTotal("10.00", nil))
}
