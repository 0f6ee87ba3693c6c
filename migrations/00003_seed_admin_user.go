package migrations

import (
	"context"
	"database/sql"
	"os"

	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	goose.AddMigrationContext(upSeedAdminUser, downSeedAdminUser)
}

// Admin accounts are never self-registered, so one is seeded here. The
// password comes from ADMIN_PASSWORD, with a dev-only fallback.
func upSeedAdminUser(ctx context.Context, tx *sql.Tx) error {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO users (email, password_hash, first_name, last_name, phone, role, is_verified, verification_status)
	VALUES ($1, $2, 'Admin', 'User', '0000000000', 'admin', TRUE, 'approved')
	ON CONFLICT (email) DO NOTHING;
	`

	_, err = tx.ExecContext(ctx, query, "admin@sportconnect.local", string(hash))
	if err != nil {
		return err
	}

	return nil
}

func downSeedAdminUser(ctx context.Context, tx *sql.Tx) error {
	query := `DELETE FROM users WHERE email = 'admin@sportconnect.local' AND role = 'admin';`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
