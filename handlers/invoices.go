package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"billbook/ledger"
	"billbook/models"
)

const invoiceSelectQuery = `SELECT i.id, i.customer_id, i.invoice_number, i.invoice_date, i.total_amount,
	i.received_amount, i.previous_balance, i.current_balance, i.created_at,
	c.name, c.address
	FROM invoices i
	JOIN customers c ON i.customer_id = c.id`

func scanInvoice(scanner interface{ Scan(...any) error }) (models.Invoice, error) {
	var inv models.Invoice
	err := scanner.Scan(&inv.ID, &inv.CustomerID, &inv.InvoiceNumber, &inv.InvoiceDate,
		&inv.TotalAmount, &inv.ReceivedAmount, &inv.PreviousBalance, &inv.CurrentBalance, &inv.CreatedAt,
		&inv.CustomerName, &inv.CustomerAddress)
	return inv, err
}

func getInvoiceByID(id int) (models.Invoice, error) {
	inv, err := scanInvoice(DB.QueryRow(invoiceSelectQuery+" WHERE i.id = ?", id))
	if err != nil {
		return inv, err
	}
	inv.Items, err = invoiceItems(id)
	return inv, err
}

func invoiceItems(invoiceID int) ([]models.InvoiceItem, error) {
	rows, err := DB.Query(`SELECT particular, quantity, rate, amount
		FROM invoice_items WHERE invoice_id = ? ORDER BY id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.InvoiceItem
	for rows.Next() {
		var it models.InvoiceItem
		if err := rows.Scan(&it.Particular, &it.Quantity, &it.Rate, &it.Amount); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func insertItems(tx *sql.Tx, invoiceID int, items []models.InvoiceItem) error {
	for _, it := range items {
		if _, err := tx.Exec(`INSERT INTO invoice_items (invoice_id, particular, quantity, rate, amount)
			VALUES (?, ?, ?, ?, ?)`, invoiceID, it.Particular, it.Quantity, it.Rate, it.Amount); err != nil {
			return err
		}
	}
	return nil
}

// ListInvoices lists all invoices
// @Summary      List invoices
// @Description  Get invoices, optionally filtered by customer and issue date range.
// @Tags         invoices
// @Produce      json
// @Param        customer_id  query     int     false  "Filter by customer"
// @Param        from         query     string  false  "Earliest invoice date (YYYY-MM-DD)"
// @Param        to           query     string  false  "Latest invoice date (YYYY-MM-DD)"
// @Param        search       query     string  false  "Search by invoice number or customer name"
// @Success      200          {object}  Response{data=[]models.Invoice}
// @Router       /invoices [get]
func ListInvoices(w http.ResponseWriter, r *http.Request) {
	query := invoiceSelectQuery
	var conditions []string
	var args []any

	if cid := r.URL.Query().Get("customer_id"); cid != "" {
		conditions = append(conditions, "i.customer_id = ?")
		args = append(args, cid)
	}
	if from := r.URL.Query().Get("from"); from != "" {
		conditions = append(conditions, "i.invoice_date >= ?")
		args = append(args, from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		conditions = append(conditions, "i.invoice_date <= ?")
		args = append(args, to)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		conditions = append(conditions, "(i.invoice_number LIKE ? OR c.name LIKE ?)")
		s := "%" + search + "%"
		args = append(args, s, s)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY i.created_at DESC, i.id DESC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		invoices = append(invoices, inv)
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	writeJSON(w, http.StatusOK, invoices)
}

// GetInvoice retrieves a single invoice with its items
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  Response{data=models.Invoice}
// @Failure      404  {object}  Response{error=string}
// @Router       /invoices/{id} [get]
func GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	inv, err := getInvoiceByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "invoice not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// CreateInvoice creates a new invoice with its items
// @Summary      Create invoice
// @Description  Item amounts, the invoice total, and the current balance are recomputed server-side. Items with an empty particular or non-positive quantity or rate are dropped; a save with no surviving items is rejected.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        invoice  body      models.InvoiceInput  true  "Invoice contents"
// @Success      201      {object}  Response{data=models.Invoice}
// @Failure      400      {object}  Response{error=string}
// @Router       /invoices [post]
func CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var input models.InvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	totals, err := ledger.ComputeInvoiceTotals(input.Items, input.ReceivedAmount, input.PreviousBalance)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()

	received := ledger.Coerce(input.ReceivedAmount)
	previous := ledger.Coerce(input.PreviousBalance)
	result, err := tx.Exec(`INSERT INTO invoices
		(customer_id, invoice_number, invoice_date, total_amount, received_amount, previous_balance, current_balance)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		input.CustomerID, input.InvoiceNumber, input.InvoiceDate,
		totals.TotalAmount, received, previous, totals.CurrentBalance)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	id, _ := result.LastInsertId()
	if err := insertItems(tx, int(id), totals.Items); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	inv, err := getInvoiceByID(int(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created invoice: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// UpdateInvoice updates an existing invoice, replacing its items
// @Summary      Update invoice
// @Description  Recomputes totals and balance like create; the item list is replaced atomically.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Invoice ID"
// @Param        invoice  body      models.InvoiceInput  true  "Updated invoice contents"
// @Success      200      {object}  Response{data=models.Invoice}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Router       /invoices/{id} [put]
func UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.InvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	totals, err := ledger.ComputeInvoiceTotals(input.Items, input.ReceivedAmount, input.PreviousBalance)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()

	received := ledger.Coerce(input.ReceivedAmount)
	previous := ledger.Coerce(input.PreviousBalance)
	res, err := tx.Exec(`UPDATE invoices SET invoice_number = ?, invoice_date = ?, total_amount = ?,
		received_amount = ?, previous_balance = ?, current_balance = ? WHERE id = ?`,
		input.InvoiceNumber, input.InvoiceDate,
		totals.TotalAmount, received, previous, totals.CurrentBalance, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}
	if _, err := tx.Exec("DELETE FROM invoice_items WHERE invoice_id = ?", id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := insertItems(tx, id, totals.Items); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	inv, err := getInvoiceByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated invoice: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// DeleteInvoice deletes an invoice and its items
// @Summary      Delete invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /invoices/{id} [delete]
func DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM invoices WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
