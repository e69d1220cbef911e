package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: one super-admin
// and one regular admin account. The super-admin is the default moderator
// target for auto-assignment at submission time.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	accounts := []struct {
		name  string
		email string
		role  string
	}{
		{"Super Admin", "super@ceylonrover.local", "superAdmin"},
		{"Admin One", "admin@ceylonrover.local", "admin"},
	}

	for _, a := range accounts {
		_, err = db.Exec(`
			INSERT INTO users (name, email, password_hash, role, is_active)
			VALUES ($1, $2, $3, $4, TRUE)
		`, a.name, a.email, string(hash), a.role)
		if err != nil {
			return fmt.Errorf("seed insert %s: %w", a.email, err)
		}
	}

	slog.Info("database seeded with default moderator accounts",
		"superadmin", "super@ceylonrover.local",
		"admin", "admin@ceylonrover.local",
	)

	return nil
}
