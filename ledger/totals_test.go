package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billbook/models"
)

func TestComputeInvoiceTotals(t *testing.T) {
	totals, err := ComputeInvoiceTotals([]models.InvoiceItemInput{
		{Particular: "Cement bags", Quantity: 2.0, Rate: 100.0},
		{Particular: "Sand", Quantity: "1.5", Rate: "350"},
	}, 50.0, nil)
	require.NoError(t, err)

	require.Len(t, totals.Items, 2)
	assert.Equal(t, 200.00, totals.Items[0].Amount)
	assert.Equal(t, 525.00, totals.Items[1].Amount)
	assert.Equal(t, 725.00, totals.TotalAmount)
	// total - received + previous
	assert.Equal(t, 675.00, totals.CurrentBalance)
}

func TestComputeInvoiceTotalsDropsInvalidItems(t *testing.T) {
	totals, err := ComputeInvoiceTotals([]models.InvoiceItemInput{
		{Particular: "Kept", Quantity: 1.0, Rate: 10.0},
		{Particular: "", Quantity: 1.0, Rate: 10.0},
		{Particular: "   ", Quantity: 1.0, Rate: 10.0},
		{Particular: "Zero quantity", Quantity: 0.0, Rate: 10.0},
		{Particular: "Zero rate", Quantity: 1.0, Rate: 0.0},
		{Particular: "Negative quantity", Quantity: -2.0, Rate: 10.0},
		{Particular: "Garbage quantity", Quantity: "n/a", Rate: 10.0},
	}, nil, nil)
	require.NoError(t, err)

	require.Len(t, totals.Items, 1)
	assert.Equal(t, "Kept", totals.Items[0].Particular)
	assert.Equal(t, 10.00, totals.TotalAmount)
}

func TestComputeInvoiceTotalsNoValidItems(t *testing.T) {
	_, err := ComputeInvoiceTotals([]models.InvoiceItemInput{
		{Particular: "Dropped", Quantity: 0.0, Rate: 100.0},
	}, nil, nil)
	assert.ErrorIs(t, err, ErrNoValidItems)

	_, err = ComputeInvoiceTotals(nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoValidItems)
}

func TestComputeInvoiceTotalsRounding(t *testing.T) {
	totals, err := ComputeInvoiceTotals([]models.InvoiceItemInput{
		{Particular: "Fine measure", Quantity: 1.2345, Rate: 9.999},
	}, nil, nil)
	require.NoError(t, err)

	// Quantity normalized to 3 decimals, rate to 2, amount to 2.
	assert.Equal(t, 1.235, totals.Items[0].Quantity)
	assert.Equal(t, 10.00, totals.Items[0].Rate)
	assert.Equal(t, 12.35, totals.Items[0].Amount)
}

func TestCurrentBalance(t *testing.T) {
	assert.Equal(t, 150.00, CurrentBalance(200, 50, 0))
	assert.Equal(t, 250.00, CurrentBalance(200, 50, 100))
	// Negative carried-forward balances are legitimate (overpayment).
	assert.Equal(t, -30.00, CurrentBalance(20, 0, -50))
	// Coerce-to-zero applies to received and previous.
	assert.Equal(t, 200.00, CurrentBalance(200, Coerce("oops"), Coerce(nil)))
}
