package ledger

import (
	"errors"
	"strings"

	"billbook/models"
)

// ErrNoValidItems is returned when a save is attempted and no line item
// survives the retention rule. Callers must reject the save rather than
// persist an empty invoice.
var ErrNoValidItems = errors.New("invoice has no valid line items")

// InvoiceTotals is the result of recomputing an invoice from its raw input.
type InvoiceTotals struct {
	Items          []models.InvoiceItem
	TotalAmount    float64
	CurrentBalance float64
}

// ComputeInvoiceTotals filters raw line items and derives the invoice total
// and current balance. An item is dropped when its particular is empty after
// trimming or its quantity or rate is not positive; dropped items are never
// persisted.
func ComputeInvoiceTotals(items []models.InvoiceItemInput, received, previous any) (InvoiceTotals, error) {
	var kept []models.InvoiceItem
	var sum float64
	for _, it := range items {
		particular := strings.TrimSpace(it.Particular)
		quantity := Round3(Coerce(it.Quantity))
		rate := Round2(Coerce(it.Rate))
		if particular == "" || quantity <= 0 || rate <= 0 {
			continue
		}
		amount := Round2(quantity * rate)
		kept = append(kept, models.InvoiceItem{
			Particular: particular,
			Quantity:   quantity,
			Rate:       rate,
			Amount:     amount,
		})
		sum += amount
	}
	if len(kept) == 0 {
		return InvoiceTotals{}, ErrNoValidItems
	}
	total := Round2(sum)
	return InvoiceTotals{
		Items:          kept,
		TotalAmount:    total,
		CurrentBalance: CurrentBalance(total, Coerce(received), Coerce(previous)),
	}, nil
}

// CurrentBalance derives an invoice's balance from its total, the amount
// received against it, and the balance carried forward at save time.
func CurrentBalance(total, received, previous float64) float64 {
	return Round2(total - Coerce(received) + Coerce(previous))
}
