package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingKindCoach = "coach"
	BookingKindTurf  = "turf"
)

const (
	BookingPending   = "pending"
	BookingApproved  = "approved"
	BookingRejected  = "rejected"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// TimeSlots is the fixed set of bookable hourly slot labels.
var TimeSlots = []string{
	"06:00 AM", "07:00 AM", "08:00 AM", "09:00 AM", "10:00 AM",
	"11:00 AM", "12:00 PM", "01:00 PM", "02:00 PM", "03:00 PM",
	"04:00 PM", "05:00 PM", "06:00 PM", "07:00 PM", "08:00 PM",
	"09:00 PM", "10:00 PM",
}

func IsValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

type Booking struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	UserID        uuid.UUID  `db:"user_id" json:"user_id"`
	TargetID      uuid.UUID  `db:"target_id" json:"target_id"`
	BookingKind   string     `db:"booking_kind" json:"booking_kind"`
	Date          time.Time  `db:"date" json:"date"`
	TimeSlot      string     `db:"time_slot" json:"time_slot"`
	DurationHours int        `db:"duration_hours" json:"duration_hours"`
	Sport         *string    `db:"sport" json:"sport,omitempty"`
	SessionType   *string    `db:"session_type" json:"session_type,omitempty"`
	Amount        float64    `db:"amount" json:"amount"`
	Status        string     `db:"status" json:"status"`
	PaymentStatus string     `db:"payment_status" json:"payment_status"`
	PaymentID     *string    `db:"payment_id" json:"payment_id,omitempty"`
	PaymentMethod *string    `db:"payment_method" json:"payment_method,omitempty"`
	PaidAt        *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// BookingDetails joins requester and provider names for listing endpoints.
type BookingDetails struct {
	Booking
	RequesterName  string `db:"requester_name" json:"requester_name"`
	RequesterEmail string `db:"requester_email" json:"requester_email"`
	TargetName     string `db:"target_name" json:"target_name"`
}
