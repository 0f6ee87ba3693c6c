package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sportconnect/internal/model"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	HasActiveBooking(ctx context.Context, targetID uuid.UUID, date time.Time, slot string) (bool, error)
	IsSlotBlocked(ctx context.Context, targetID uuid.UUID, date time.Time, slot string) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	MarkPaid(ctx context.Context, id uuid.UUID, method, paymentID string, paidAt time.Time) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.BookingDetails, error)
	ListByTarget(ctx context.Context, targetID uuid.UUID) ([]model.BookingDetails, error)
	ListByTurf(ctx context.Context, turfID uuid.UUID) ([]model.BookingDetails, error)
}

type postgresBookingRepository struct {
	db *sqlx.DB
}

func NewPostgresBookingRepository(db *sqlx.DB) BookingRepository {
	return &postgresBookingRepository{db: db}
}

func (r *postgresBookingRepository) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	query := `
		INSERT INTO bookings (user_id, target_id, booking_kind, date, time_slot, duration_hours, sport, session_type, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, status, payment_status, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		booking.UserID, booking.TargetID, booking.BookingKind, booking.Date, booking.TimeSlot,
		booking.DurationHours, booking.Sport, booking.SessionType, booking.Amount,
	)
	err := row.Scan(&booking.ID, &booking.Status, &booking.PaymentStatus, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return booking, nil
}

func (r *postgresBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	query := `SELECT * FROM bookings WHERE id = $1`
	err := r.db.GetContext(ctx, &booking, query, id)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &booking, nil
}

// HasActiveBooking reports whether a pending or approved booking already
// holds the slot. This is the creation-time conflict check; the partial
// unique index on bookings backs it against concurrent inserts.
func (r *postgresBookingRepository) HasActiveBooking(ctx context.Context, targetID uuid.UUID, date time.Time, slot string) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE target_id = $1 AND date = $2 AND time_slot = $3 AND status IN ('pending', 'approved')
	`
	err := r.db.GetContext(ctx, &count, query, targetID, date, slot)

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// IsSlotBlocked is the read-only availability query. Unlike the creation
// guard it also treats completed bookings as blocking.
func (r *postgresBookingRepository) IsSlotBlocked(ctx context.Context, targetID uuid.UUID, date time.Time, slot string) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE target_id = $1 AND date = $2 AND time_slot = $3 AND status IN ('pending', 'approved', 'completed')
	`
	err := r.db.GetContext(ctx, &count, query, targetID, date, slot)

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *postgresBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

// MarkPaid completes a booking and records the payment, but only while it is
// still approved and unpaid. The conditional predicate makes a second
// confirmation a no-op, reported through the false return.
func (r *postgresBookingRepository) MarkPaid(ctx context.Context, id uuid.UUID, method, paymentID string, paidAt time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'completed', payment_status = 'paid',
			payment_method = $2, payment_id = $3, paid_at = $4, updated_at = now()
		WHERE id = $1 AND status = 'approved' AND payment_status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, id, method, paymentID, paidAt)

	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

const bookingDetailsQuery = `
	SELECT b.*,
		ru.first_name || ' ' || ru.last_name AS requester_name,
		ru.email AS requester_email,
		COALESCE(NULLIF(tu.turf_name, ''), tu.first_name || ' ' || tu.last_name) AS target_name
	FROM bookings b
	JOIN users ru ON b.user_id = ru.id
	JOIN users tu ON b.target_id = tu.id
`

func (r *postgresBookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.BookingDetails, error) {
	query := bookingDetailsQuery + ` WHERE b.user_id = $1 ORDER BY b.created_at DESC`
	return r.listDetails(ctx, query, userID)
}

func (r *postgresBookingRepository) ListByTarget(ctx context.Context, targetID uuid.UUID) ([]model.BookingDetails, error) {
	query := bookingDetailsQuery + ` WHERE b.target_id = $1 ORDER BY b.created_at DESC`
	return r.listDetails(ctx, query, targetID)
}

func (r *postgresBookingRepository) ListByTurf(ctx context.Context, turfID uuid.UUID) ([]model.BookingDetails, error) {
	query := bookingDetailsQuery + ` WHERE b.target_id = $1 AND b.booking_kind = 'turf' ORDER BY b.created_at DESC`
	return r.listDetails(ctx, query, turfID)
}

func (r *postgresBookingRepository) listDetails(ctx context.Context, query string, args ...interface{}) ([]model.BookingDetails, error) {
	var bookings []model.BookingDetails
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	if err != nil {
		return nil, err
	}

	if bookings == nil {
		bookings = []model.BookingDetails{}
	}

	return bookings, nil
}
