package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billbook/models"
)

func TestBuildStatement(t *testing.T) {
	customer := models.Customer{ID: 1, Name: "Sharma Traders"}
	invoice := inv(1, "2024-01-10", 200, 50, 150, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	invoice.Items = []models.InvoiceItem{
		{Particular: "Cement bags", Quantity: 2, Rate: 75, Amount: 150},
		{Particular: "Sand", Quantity: 2.5, Rate: 20, Amount: 50},
	}

	rec, err := Reconstruct([]models.Invoice{invoice}, "2024-01-01", "2024-01-31", TrustedCheckpoint)
	require.NoError(t, err)

	stmt := BuildStatement(customer, rec)
	assert.Equal(t, customer, stmt.Customer)
	assert.Equal(t, 0.0, stmt.OpeningBalance)

	// No opening row when the opening balance is zero: invoice row, two
	// item rows, totals row.
	require.Len(t, stmt.Rows, 4)

	assert.Equal(t, RowInvoice, stmt.Rows[0].Kind)
	assert.Equal(t, "2024-01-10", stmt.Rows[0].Date)
	assert.Equal(t, 200.00, stmt.Rows[0].Amount)
	assert.Equal(t, 50.00, stmt.Rows[0].Received)
	assert.Equal(t, 150.00, stmt.Rows[0].Balance)

	assert.Equal(t, RowItem, stmt.Rows[1].Kind)
	assert.Equal(t, "Cement bags", stmt.Rows[1].Particular)
	assert.Equal(t, "2", stmt.Rows[1].Quantity)
	assert.Equal(t, RowItem, stmt.Rows[2].Kind)
	assert.Equal(t, "2.500", stmt.Rows[2].Quantity)

	assert.Equal(t, RowTotal, stmt.Rows[3].Kind)
	assert.Equal(t, 200.00, stmt.Rows[3].Amount)
	assert.Equal(t, 50.00, stmt.Rows[3].Received)
	assert.Equal(t, 150.00, stmt.Rows[3].Balance)
}

func TestBuildStatementOpeningRow(t *testing.T) {
	prior := inv(1, "2023-12-20", 300, 0, 300, time.Date(2023, 12, 20, 9, 0, 0, 0, time.UTC))
	current := inv(2, "2024-01-10", 100, 0, 400, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))

	rec, err := Reconstruct([]models.Invoice{prior, current}, "2024-01-01", "2024-01-31", TrustedCheckpoint)
	require.NoError(t, err)

	stmt := BuildStatement(models.Customer{ID: 1, Name: "Sharma Traders"}, rec)
	require.NotEmpty(t, stmt.Rows)
	assert.Equal(t, RowOpening, stmt.Rows[0].Kind)
	assert.Equal(t, 300.00, stmt.Rows[0].Balance)
	assert.Equal(t, RowTotal, stmt.Rows[len(stmt.Rows)-1].Kind)
	assert.Equal(t, 400.00, stmt.FinalBalance)
}

func TestBuildStatementEmptyWindow(t *testing.T) {
	rec, err := Reconstruct(nil, "2024-01-01", "2024-01-31", TrustedCheckpoint)
	require.NoError(t, err)

	stmt := BuildStatement(models.Customer{ID: 1, Name: "Sharma Traders"}, rec)
	// Only the totals row.
	require.Len(t, stmt.Rows, 1)
	assert.Equal(t, RowTotal, stmt.Rows[0].Kind)
	assert.Equal(t, 0.0, stmt.FinalBalance)
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "2", FormatQuantity(2))
	assert.Equal(t, "2.500", FormatQuantity(2.5))
	assert.Equal(t, "0.125", FormatQuantity(0.125))
	assert.Equal(t, "10", FormatQuantity(10.0))
}
