package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"billbook/db"
	"billbook/models"
)

// setupDB points the handlers at a migrated in-memory database.
func setupDB(t *testing.T) {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.Migrate(database))
	DB = database
}

// newRouter mirrors the API routes without the session gate; the gate has its
// own tests.
func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/api/customers", ListCustomers)
	r.Post("/api/customers", CreateCustomer)
	r.Get("/api/customers/{id}", GetCustomer)
	r.Put("/api/customers/{id}", UpdateCustomer)
	r.Delete("/api/customers/{id}", DeleteCustomer)
	r.Get("/api/customers/{id}/latest-balance", GetLatestBalance)
	r.Get("/api/customers/{id}/invoices", ListCustomerInvoices)
	r.Get("/api/customers/{id}/statement", GetStatement)
	r.Get("/api/invoices", ListInvoices)
	r.Post("/api/invoices", CreateInvoice)
	r.Get("/api/invoices/{id}", GetInvoice)
	r.Put("/api/invoices/{id}", UpdateInvoice)
	r.Delete("/api/invoices/{id}", DeleteInvoice)
	r.Get("/api/dashboard", GetDashboard)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp struct {
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Empty(t, resp.Error)
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func createCustomer(t *testing.T, h http.Handler, name string) models.Customer {
	t.Helper()
	w := doRequest(t, h, http.MethodPost, "/api/customers", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, w.Code)
	var c models.Customer
	decodeData(t, w, &c)
	return c
}

func createInvoice(t *testing.T, h http.Handler, input map[string]any) models.Invoice {
	t.Helper()
	w := doRequest(t, h, http.MethodPost, "/api/invoices", input)
	require.Equal(t, http.StatusCreated, w.Code)
	var inv models.Invoice
	decodeData(t, w, &inv)
	return inv
}
