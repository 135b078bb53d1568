package models

import "time"

// InvoiceItem is a line item owned by exactly one invoice. Amount is derived
// from quantity and rate and recomputed on every save.
type InvoiceItem struct {
	Particular string  `json:"particular"`
	Quantity   float64 `json:"quantity"`
	Rate       float64 `json:"rate"`
	Amount     float64 `json:"amount"`
}

// Invoice represents a customer invoice with its balance chain fields.
// PreviousBalance is frozen at save time; the statement engine replays
// in-range balances from the opening checkpoint instead of trusting
// CurrentBalance row by row.
type Invoice struct {
	ID              int           `json:"id"`
	CustomerID      int           `json:"customer_id"`
	InvoiceNumber   string        `json:"invoice_number"`
	InvoiceDate     string        `json:"invoice_date"` // YYYY-MM-DD
	TotalAmount     float64       `json:"total_amount"`
	ReceivedAmount  float64       `json:"received_amount"`
	PreviousBalance float64       `json:"previous_balance"`
	CurrentBalance  float64       `json:"current_balance"`
	CreatedAt       time.Time     `json:"created_at"`
	Items           []InvoiceItem `json:"items,omitempty"`
	// Computed fields
	CustomerName    *string `json:"customer_name,omitempty"`
	CustomerAddress *string `json:"customer_address,omitempty"`
}

// InvoiceInput is used for creating/updating invoices. Received amount and
// previous balance arrive from partially-filled forms and may be numbers,
// numeric strings, or absent; they are coerced by the ledger package.
type InvoiceInput struct {
	CustomerID      int                `json:"customer_id"`
	InvoiceNumber   string             `json:"invoice_number"`
	InvoiceDate     string             `json:"invoice_date"`
	Items           []InvoiceItemInput `json:"items"`
	ReceivedAmount  any                `json:"received_amount"`
	PreviousBalance any                `json:"previous_balance"`
}

// InvoiceItemInput is a raw line item as submitted. Quantity and rate may be
// numbers or decimal strings.
type InvoiceItemInput struct {
	Particular string `json:"particular"`
	Quantity   any    `json:"quantity"`
	Rate       any    `json:"rate"`
}

func (i *InvoiceInput) Validate() string {
	if i.CustomerID <= 0 {
		return "customer_id is required"
	}
	if i.InvoiceDate == "" {
		return "invoice_date is required"
	}
	if len(i.Items) == 0 {
		return "at least one item is required"
	}
	return ""
}
