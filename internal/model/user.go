package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RolePlayer = "player"
	RoleCoach  = "coach"
	RoleTurf   = "turf"
	RoleAdmin  = "admin"
)

const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Phone        string    `db:"phone" json:"phone"`
	Role         string    `db:"role" json:"role"`

	// Coach profile
	Specialization *string `db:"specialization" json:"specialization,omitempty"`

	// Turf profile
	TurfName    *string `db:"turf_name" json:"turf_name,omitempty"`
	TurfAddress *string `db:"turf_address" json:"turf_address,omitempty"`

	IsVerified            bool                   `db:"is_verified" json:"is_verified"`
	VerificationStatus    string                 `db:"verification_status" json:"verification_status"`
	Verification          *VerificationData      `db:"verification" json:"verification,omitempty"`
	VerificationDocuments *VerificationDocuments `db:"verification_documents" json:"verification_documents,omitempty"`
	VerificationNotes     *string                `db:"verification_notes" json:"verification_notes,omitempty"`
	VerifiedAt            *time.Time             `db:"verified_at" json:"verified_at,omitempty"`
	VerifiedBy            *string                `db:"verified_by" json:"verified_by,omitempty"`
	RejectedBy            *string                `db:"rejected_by" json:"rejected_by,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayName is the name used in notifications: turf accounts go by their
// facility name, everyone else by first + last name.
func (u *User) DisplayName() string {
	if u.Role == RoleTurf && u.TurfName != nil && *u.TurfName != "" {
		return *u.TurfName
	}
	return u.FirstName + " " + u.LastName
}

// IsProvider reports whether the account can receive bookings.
func (u *User) IsProvider() bool {
	return u.Role == RoleCoach || u.Role == RoleTurf
}
