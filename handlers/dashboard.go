package handlers

import (
	"net/http"
)

type dashboardData struct {
	TotalCustomers int `json:"total_customers"`
	TotalInvoices  int `json:"total_invoices"`

	// Sum of each customer's most recent stored balance.
	TotalReceivable float64 `json:"total_receivable"`

	RecentInvoices []map[string]any `json:"recent_invoices"`
}

// GetDashboard retrieves dashboard summary statistics
// @Summary      Get dashboard
// @Description  Get customer and invoice counts, total receivable, and recent invoices.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  Response{data=dashboardData}
// @Router       /dashboard [get]
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	var d dashboardData

	DB.QueryRow("SELECT COUNT(*) FROM customers").Scan(&d.TotalCustomers)
	DB.QueryRow("SELECT COUNT(*) FROM invoices").Scan(&d.TotalInvoices)

	DB.QueryRow(`SELECT COALESCE(SUM(latest), 0) FROM (
		SELECT (SELECT i.current_balance FROM invoices i
			WHERE i.customer_id = c.id
			ORDER BY i.created_at DESC, i.id DESC LIMIT 1) AS latest
		FROM customers c)`).Scan(&d.TotalReceivable)

	// Recent 5 invoices
	rows, err := DB.Query(`SELECT i.id, i.invoice_number, i.invoice_date, i.total_amount, i.current_balance, c.name
		FROM invoices i LEFT JOIN customers c ON i.customer_id = c.id
		ORDER BY i.created_at DESC, i.id DESC LIMIT 5`)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var id int
			var number, date, name *string
			var total, balance float64
			rows.Scan(&id, &number, &date, &total, &balance, &name)
			d.RecentInvoices = append(d.RecentInvoices, map[string]any{
				"id":              id,
				"invoice_number":  number,
				"invoice_date":    date,
				"total_amount":    total,
				"current_balance": balance,
				"customer_name":   name,
			})
		}
	}
	if d.RecentInvoices == nil {
		d.RecentInvoices = []map[string]any{}
	}

	writeJSON(w, http.StatusOK, d)
}
