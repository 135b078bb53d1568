package db

import (
	"database/sql"
	"fmt"

	"billbook/auth"
)

// SeedUser creates or updates the login user from configuration. The stored
// credential is always the bcrypt hash, never the plaintext.
func SeedUser(db *sql.DB, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("both username and password are required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT INTO users (username, password) VALUES (?, ?)
		ON CONFLICT(username) DO UPDATE SET password = excluded.password`,
		username, hash)
	if err != nil {
		return fmt.Errorf("seeding user: %w", err)
	}
	return nil
}
