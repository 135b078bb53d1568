package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"billbook/models"
)

const customerSelectQuery = `SELECT id, name, address, phone, email, gstin, created_at FROM customers`

func scanCustomer(scanner interface{ Scan(...any) error }) (models.Customer, error) {
	var c models.Customer
	err := scanner.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.Gstin, &c.CreatedAt)
	return c, err
}

func getCustomerByID(id int) (models.Customer, error) {
	return scanCustomer(DB.QueryRow(customerSelectQuery+" WHERE id = ?", id))
}

// ListCustomers lists all customers
// @Summary      List customers
// @Description  Get all customers ordered by name.
// @Tags         customers
// @Produce      json
// @Param        search  query     string  false  "Search by name, phone, or email"
// @Success      200     {object}  Response{data=[]models.Customer}
// @Router       /customers [get]
func ListCustomers(w http.ResponseWriter, r *http.Request) {
	query := customerSelectQuery
	var args []any
	var conditions []string

	if search := r.URL.Query().Get("search"); search != "" {
		conditions = append(conditions, "(name LIKE ? OR phone LIKE ? OR email LIKE ?)")
		s := "%" + search + "%"
		args = append(args, s, s, s)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		customers = append(customers, c)
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

// GetCustomer retrieves a single customer by ID
// @Summary      Get customer
// @Tags         customers
// @Produce      json
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  Response{data=models.Customer}
// @Failure      404  {object}  Response{error=string}
// @Router       /customers/{id} [get]
func GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	c, err := getCustomerByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "customer not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateCustomer creates a new customer
// @Summary      Create customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        customer  body      models.CustomerInput  true  "Customer contents"
// @Success      201       {object}  Response{data=models.Customer}
// @Failure      400       {object}  Response{error=string}
// @Router       /customers [post]
func CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var input models.CustomerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	result, err := DB.Exec("INSERT INTO customers (name, address, phone, email, gstin) VALUES (?, ?, ?, ?, ?)",
		input.Name, input.Address, input.Phone, input.Email, input.Gstin)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	id, _ := result.LastInsertId()
	c, err := getCustomerByID(int(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created customer: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCustomer updates an existing customer
// @Summary      Update customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id        path      int                   true  "Customer ID"
// @Param        customer  body      models.CustomerInput  true  "Updated customer contents"
// @Success      200       {object}  Response{data=models.Customer}
// @Failure      400       {object}  Response{error=string}
// @Failure      404       {object}  Response{error=string}
// @Router       /customers/{id} [put]
func UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.CustomerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := DB.Exec("UPDATE customers SET name = ?, address = ?, phone = ?, email = ?, gstin = ? WHERE id = ?",
		input.Name, input.Address, input.Phone, input.Email, input.Gstin, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	c, err := getCustomerByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated customer: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCustomer deletes a customer and all of its invoices
// @Summary      Delete customer
// @Description  Remove a customer; invoices and their items cascade.
// @Tags         customers
// @Produce      json
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /customers/{id} [delete]
func DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// GetLatestBalance returns the customer's most recent stored balance
// @Summary      Latest balance
// @Description  Stored current balance of the customer's most recently created invoice, or 0.
// @Tags         customers
// @Produce      json
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  Response{data=map[string]float64}
// @Router       /customers/{id}/latest-balance [get]
func GetLatestBalance(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var balance float64
	err := DB.QueryRow(`SELECT current_balance FROM invoices
		WHERE customer_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`, id).Scan(&balance)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"balance": balance})
}

// ListCustomerInvoices lists a customer's invoices, newest first
// @Summary      List customer invoices
// @Tags         customers
// @Produce      json
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  Response{data=[]models.Invoice}
// @Router       /customers/{id}/invoices [get]
func ListCustomerInvoices(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	rows, err := DB.Query(`SELECT id, customer_id, invoice_number, invoice_date, total_amount,
		received_amount, previous_balance, current_balance, created_at
		FROM invoices WHERE customer_id = ? ORDER BY created_at DESC, id DESC`, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.CustomerID, &inv.InvoiceNumber, &inv.InvoiceDate,
			&inv.TotalAmount, &inv.ReceivedAmount, &inv.PreviousBalance, &inv.CurrentBalance, &inv.CreatedAt); err != nil {
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
