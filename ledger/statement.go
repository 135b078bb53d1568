package ledger

import (
	"math"
	"strconv"

	"billbook/models"
)

// RowKind discriminates the display rows of a statement.
type RowKind string

const (
	RowOpening RowKind = "opening"
	RowInvoice RowKind = "invoice"
	RowItem    RowKind = "item"
	RowTotal   RowKind = "total"
)

// StatementRow is one display-ready line of a statement. Which fields are
// meaningful depends on Kind: invoice rows carry date, number, amounts and
// the running balance; item rows carry particular, quantity, rate and amount;
// the totals row carries the grand totals and final balance.
type StatementRow struct {
	Kind          RowKind `json:"kind"`
	Date          string  `json:"date,omitempty"`
	InvoiceNumber string  `json:"invoice_number,omitempty"`
	Particular    string  `json:"particular,omitempty"`
	Quantity      string  `json:"quantity,omitempty"`
	Rate          float64 `json:"rate,omitempty"`
	Amount        float64 `json:"amount"`
	Received      float64 `json:"received"`
	Balance       float64 `json:"balance"`
}

// Statement is the presentation-ready form of a reconstruction.
type Statement struct {
	Customer           models.Customer `json:"customer"`
	OpeningBalance     float64         `json:"opening_balance"`
	Rows               []StatementRow  `json:"rows"`
	TotalInvoiceAmount float64         `json:"total_invoice_amount"`
	TotalReceived      float64         `json:"total_received"`
	FinalBalance       float64         `json:"final_balance"`
}

// BuildStatement maps a reconstruction onto display rows: an opening-balance
// row when the opening balance is non-zero, then each invoice row followed by
// one sub-row per retained item, then a synthesized totals row. Purely a
// formatting transform.
func BuildStatement(customer models.Customer, rec Reconstruction) Statement {
	stmt := Statement{
		Customer:           customer,
		OpeningBalance:     rec.OpeningBalance,
		TotalInvoiceAmount: rec.TotalInvoiceAmount,
		TotalReceived:      rec.TotalReceived,
		FinalBalance:       rec.FinalBalance,
	}

	if rec.OpeningBalance != 0 {
		stmt.Rows = append(stmt.Rows, StatementRow{
			Kind:       RowOpening,
			Particular: "Opening Balance (B/F)",
			Balance:    rec.OpeningBalance,
		})
	}

	for _, row := range rec.Rows {
		stmt.Rows = append(stmt.Rows, StatementRow{
			Kind:          RowInvoice,
			Date:          row.Invoice.InvoiceDate,
			InvoiceNumber: row.Invoice.InvoiceNumber,
			Particular:    "Invoice",
			Amount:        row.Invoice.TotalAmount,
			Received:      row.Invoice.ReceivedAmount,
			Balance:       row.RunningBalance,
		})
		for _, item := range row.Invoice.Items {
			stmt.Rows = append(stmt.Rows, StatementRow{
				Kind:       RowItem,
				Particular: item.Particular,
				Quantity:   FormatQuantity(item.Quantity),
				Rate:       item.Rate,
				Amount:     item.Amount,
			})
		}
	}

	stmt.Rows = append(stmt.Rows, StatementRow{
		Kind:     RowTotal,
		Amount:   rec.TotalInvoiceAmount,
		Received: rec.TotalReceived,
		Balance:  rec.FinalBalance,
	})
	return stmt
}

// FormatQuantity renders a quantity as an integer when it has no fractional
// part, otherwise to 3 decimals.
func FormatQuantity(q float64) string {
	if q == math.Trunc(q) {
		return strconv.FormatFloat(q, 'f', 0, 64)
	}
	return strconv.FormatFloat(q, 'f', 3, 64)
}
