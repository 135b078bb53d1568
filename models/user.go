package models

// User is a login account. The application is effectively single-user; the
// table exists so the credential is stored hashed rather than compared in
// config.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"` // bcrypt hash
}
