package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billbook/db"
)

func newAuthRouter() chi.Router {
	r := chi.NewRouter()
	r.Post("/api/login", Login)
	r.Post("/api/logout", Logout)
	r.Get("/api/auth/check", AuthCheck)
	r.Group(func(r chi.Router) {
		r.Use(RequireSession)
		r.Get("/api/customers", ListCustomers)
	})
	return r
}

func TestLoginWrongCredentials(t *testing.T) {
	setupDB(t)
	require.NoError(t, db.SeedUser(DB, "admin", "secret"))
	r := newAuthRouter()

	// Unknown user and wrong password both yield 200 with success=false.
	for _, creds := range []map[string]string{
		{"username": "nobody", "password": "secret"},
		{"username": "admin", "password": "wrong"},
	} {
		w := doRequest(t, r, http.MethodPost, "/api/login", creds)
		require.Equal(t, http.StatusOK, w.Code)
		var out map[string]bool
		decodeData(t, w, &out)
		assert.False(t, out["success"])
		assert.Empty(t, w.Result().Cookies())
	}
}

func TestLoginSessionLifecycle(t *testing.T) {
	setupDB(t)
	require.NoError(t, db.SeedUser(DB, "admin", "secret"))
	r := newAuthRouter()

	// Gated endpoint without a session.
	w := doRequest(t, r, http.MethodGet, "/api/customers", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Log in.
	w = doRequest(t, r, http.MethodPost, "/api/login",
		map[string]string{"username": "admin", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]bool
	decodeData(t, w, &out)
	require.True(t, out["success"])

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	session := cookies[0]
	assert.Equal(t, sessionCookie, session.Name)
	assert.True(t, session.HttpOnly)

	withSession := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.AddCookie(session)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	// Session opens the gate.
	assert.Equal(t, http.StatusOK, withSession(http.MethodGet, "/api/customers").Code)

	rec := withSession(http.MethodGet, "/api/auth/check")
	decodeData(t, rec, &out)
	assert.True(t, out["authenticated"])

	// Log out and verify the session is dead.
	rec = withSession(http.MethodPost, "/api/logout")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, withSession(http.MethodGet, "/api/customers").Code)
	rec = withSession(http.MethodGet, "/api/auth/check")
	decodeData(t, rec, &out)
	assert.False(t, out["authenticated"])
}

func TestSeedUserRequiresCredentials(t *testing.T) {
	setupDB(t)
	assert.Error(t, db.SeedUser(DB, "admin", ""))
	assert.Error(t, db.SeedUser(DB, "", "secret"))
}

func TestSeedUserUpdatesPassword(t *testing.T) {
	setupDB(t)
	require.NoError(t, db.SeedUser(DB, "admin", "old"))
	require.NoError(t, db.SeedUser(DB, "admin", "new"))
	r := newAuthRouter()

	w := doRequest(t, r, http.MethodPost, "/api/login",
		map[string]string{"username": "admin", "password": "old"})
	var out map[string]bool
	decodeData(t, w, &out)
	assert.False(t, out["success"])

	w = doRequest(t, r, http.MethodPost, "/api/login",
		map[string]string{"username": "admin", "password": "new"})
	decodeData(t, w, &out)
	assert.True(t, out["success"])
}
