package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateUsersTable, downCreateUsersTable)
}

func upCreateUsersTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE users (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  email TEXT UNIQUE NOT NULL,
	  password_hash TEXT NOT NULL,
	  first_name TEXT NOT NULL,
	  last_name TEXT NOT NULL,
	  phone TEXT NOT NULL,
	  role TEXT NOT NULL CHECK (role IN ('player', 'coach', 'turf', 'admin')),
	  specialization TEXT,
	  turf_name TEXT,
	  turf_address TEXT,
	  is_verified BOOLEAN NOT NULL DEFAULT FALSE,
	  verification_status TEXT NOT NULL DEFAULT 'pending'
	    CHECK (verification_status IN ('pending', 'approved', 'rejected')),
	  verification JSONB,
	  verification_documents JSONB,
	  verification_notes TEXT,
	  verified_at TIMESTAMP WITH TIME ZONE,
	  verified_by TEXT,
	  rejected_by TEXT,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX idx_users_role_status ON users (role, verification_status);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateUsersTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS users;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
