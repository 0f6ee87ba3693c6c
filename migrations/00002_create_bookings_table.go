package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateBookingsTable, downCreateBookingsTable)
}

func upCreateBookingsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE bookings (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  user_id UUID NOT NULL REFERENCES users(id),
	  target_id UUID NOT NULL REFERENCES users(id),
	  booking_kind TEXT NOT NULL CHECK (booking_kind IN ('turf', 'coach')),
	  date DATE NOT NULL,
	  time_slot TEXT NOT NULL,
	  duration_hours INT NOT NULL DEFAULT 1,
	  sport TEXT,
	  session_type TEXT,
	  amount NUMERIC(10, 2) NOT NULL,
	  status TEXT NOT NULL DEFAULT 'pending'
	    CHECK (status IN ('pending', 'approved', 'rejected', 'completed', 'cancelled')),
	  payment_status TEXT NOT NULL DEFAULT 'pending'
	    CHECK (payment_status IN ('pending', 'paid', 'refunded')),
	  payment_id TEXT,
	  payment_method TEXT,
	  paid_at TIMESTAMP WITH TIME ZONE,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX idx_bookings_user ON bookings (user_id);
	CREATE INDEX idx_bookings_target ON bookings (target_id);

	-- A slot is held by at most one live booking. Rejected and cancelled
	-- rows fall out of the index, freeing the slot for rebooking.
	CREATE UNIQUE INDEX idx_bookings_slot_hold
	  ON bookings (target_id, date, time_slot)
	  WHERE status IN ('pending', 'approved');
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateBookingsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS bookings;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
