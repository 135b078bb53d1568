package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"billbook/ledger"
	"billbook/models"
)

// GetStatement generates a customer statement for a date range
// @Summary      Customer statement
// @Description  Compute the opening balance, per-invoice running balances, and totals for the window [fromDate, toDate], both inclusive. Balances inside the window are replayed from the opening checkpoint rather than read from stored fields.
// @Tags         statements
// @Produce      json
// @Param        id        path      int     true  "Customer ID"
// @Param        fromDate  query     string  true  "Window start (YYYY-MM-DD)"
// @Param        toDate    query     string  true  "Window end (YYYY-MM-DD)"
// @Success      200       {object}  Response{data=ledger.Statement}
// @Failure      400       {object}  Response{error=string}
// @Failure      404       {object}  Response{error=string}
// @Router       /customers/{id}/statement [get]
func GetStatement(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	fromDate := r.URL.Query().Get("fromDate")
	toDate := r.URL.Query().Get("toDate")
	if fromDate == "" || toDate == "" {
		writeError(w, http.StatusBadRequest, "fromDate and toDate are required")
		return
	}

	customer, err := getCustomerByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "customer not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	invoices, err := customerInvoicesWithItems(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec, err := ledger.Reconstruct(invoices, fromDate, toDate, ledger.TrustedCheckpoint)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidRange) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, ledger.BuildStatement(customer, rec))
}

// customerInvoicesWithItems loads the customer's complete invoice history
// with line items. The engine re-sorts; the query order is only a stable
// starting point.
func customerInvoicesWithItems(customerID int) ([]models.Invoice, error) {
	rows, err := DB.Query(`SELECT id, customer_id, invoice_number, invoice_date, total_amount,
		received_amount, previous_balance, current_balance, created_at
		FROM invoices WHERE customer_id = ? ORDER BY created_at, id`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	index := make(map[int]int)
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.CustomerID, &inv.InvoiceNumber, &inv.InvoiceDate,
			&inv.TotalAmount, &inv.ReceivedAmount, &inv.PreviousBalance, &inv.CurrentBalance, &inv.CreatedAt); err != nil {
			return nil, err
		}
		index[inv.ID] = len(invoices)
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := DB.Query(`SELECT invoice_id, particular, quantity, rate, amount
		FROM invoice_items
		WHERE invoice_id IN (SELECT id FROM invoices WHERE customer_id = ?)
		ORDER BY invoice_id, id`, customerID)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var invoiceID int
		var it models.InvoiceItem
		if err := itemRows.Scan(&invoiceID, &it.Particular, &it.Quantity, &it.Rate, &it.Amount); err != nil {
			return nil, err
		}
		if i, ok := index[invoiceID]; ok {
			invoices[i].Items = append(invoices[i].Items, it)
		}
	}
	return invoices, itemRows.Err()
}
