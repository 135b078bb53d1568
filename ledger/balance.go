package ledger

import (
	"errors"
	"sort"
	"time"

	"billbook/models"
)

// ErrInvalidRange is returned when the statement window is malformed or its
// end precedes its start. No partial result is produced.
var ErrInvalidRange = errors.New("invalid statement date range")

// CheckpointPolicy selects how the opening balance is derived from the
// invoices preceding the statement window.
type CheckpointPolicy int

const (
	// TrustedCheckpoint takes the stored current balance of the
	// chronologically last pre-window invoice. Cheap, and correct as long
	// as invoices are never edited out of chronological order.
	TrustedCheckpoint CheckpointPolicy = iota
	// FullReplay recomputes the opening balance from account inception,
	// ignoring stored balance fields.
	FullReplay
)

// Row is one line of the reconstructed ledger: an invoice and the running
// balance after it.
type Row struct {
	Invoice        models.Invoice `json:"invoice"`
	RunningBalance float64        `json:"running_balance"`
}

// Reconstruction is the output of replaying a customer's invoice history over
// a statement window.
type Reconstruction struct {
	OpeningBalance     float64 `json:"opening_balance"`
	Rows               []Row   `json:"rows"`
	TotalInvoiceAmount float64 `json:"total_invoice_amount"`
	TotalReceived      float64 `json:"total_received"`
	FinalBalance       float64 `json:"final_balance"`
}

const dateLayout = "2006-01-02"

type datedInvoice struct {
	inv  models.Invoice
	date time.Time
}

// Reconstruct computes the opening balance and the ordered running-balance
// ledger for the window [fromDate, toDate], both inclusive. It takes the
// customer's complete invoice history; invoices dated after toDate are
// discarded. The canonical order is (invoice date asc, created at asc);
// created at breaks ties because invoice dates are not unique.
//
// The in-range walk recomputes each running balance from the opening
// checkpoint using the invoices' own total and received amounts, so the
// statement stays self-consistent even if a stored current balance drifted.
func Reconstruct(invoices []models.Invoice, fromDate, toDate string, policy CheckpointPolicy) (Reconstruction, error) {
	from, err := time.Parse(dateLayout, fromDate)
	if err != nil {
		return Reconstruction{}, ErrInvalidRange
	}
	to, err := time.Parse(dateLayout, toDate)
	if err != nil {
		return Reconstruction{}, ErrInvalidRange
	}
	if to.Before(from) {
		return Reconstruction{}, ErrInvalidRange
	}

	var before, inRange []datedInvoice
	for _, inv := range invoices {
		// An unparseable invoice date becomes the zero date and sorts
		// before any window, consistent with the coerce-to-zero policy.
		d, _ := time.Parse(dateLayout, inv.InvoiceDate)
		switch {
		case d.Before(from):
			before = append(before, datedInvoice{inv, d})
		case !d.After(to):
			inRange = append(inRange, datedInvoice{inv, d})
		}
	}
	sortChronological(before)
	sortChronological(inRange)

	opening := 0.0
	switch policy {
	case FullReplay:
		for _, e := range before {
			opening = Round2(opening + e.inv.TotalAmount - e.inv.ReceivedAmount)
		}
	default:
		if len(before) > 0 {
			// Stored value, not recomputed: the persisted balance is
			// the ledger checkpoint at that point in time.
			opening = before[len(before)-1].inv.CurrentBalance
		}
	}

	rec := Reconstruction{OpeningBalance: opening, FinalBalance: opening}
	running := opening
	var totalAmount, totalReceived float64
	for _, e := range inRange {
		running = Round2(running + e.inv.TotalAmount - e.inv.ReceivedAmount)
		rec.Rows = append(rec.Rows, Row{Invoice: e.inv, RunningBalance: running})
		totalAmount += e.inv.TotalAmount
		totalReceived += e.inv.ReceivedAmount
	}
	rec.TotalInvoiceAmount = Round2(totalAmount)
	rec.TotalReceived = Round2(totalReceived)
	if len(rec.Rows) > 0 {
		rec.FinalBalance = running
	}
	return rec, nil
}

func sortChronological(entries []datedInvoice) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].date.Equal(entries[j].date) {
			return entries[i].date.Before(entries[j].date)
		}
		return entries[i].inv.CreatedAt.Before(entries[j].inv.CreatedAt)
	})
}
