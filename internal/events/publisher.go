package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"sportconnect/internal/model"
)

const (
	SubjectBookingCreated        = "booking.created"
	SubjectBookingApproved       = "booking.approved"
	SubjectBookingRejected       = "booking.rejected"
	SubjectPaymentConfirmed      = "booking.payment_confirmed"
	SubjectVerificationSubmitted = "verification.submitted"
	SubjectVerificationApproved  = "verification.approved"
	SubjectVerificationRejected  = "verification.rejected"
)

// EventPublisher is the fire-and-forget notification sink. Services publish
// from goroutines and never block a state transition on delivery.
type EventPublisher interface {
	PublishBookingCreated(booking *model.Booking) error
	PublishBookingDecision(booking *model.Booking, approved bool) error
	PublishPaymentConfirmed(booking *model.Booking) error
	PublishVerificationSubmitted(providerID uuid.UUID) error
	PublishVerificationApproved(providerID uuid.UUID, notes string, autoApproved bool) error
	PublishVerificationRejected(providerID uuid.UUID, reason string) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type BookingEvent struct {
	EventType   string    `json:"event_type"`
	BookingID   uuid.UUID `json:"booking_id"`
	UserID      uuid.UUID `json:"user_id"`
	TargetID    uuid.UUID `json:"target_id"`
	BookingKind string    `json:"booking_kind"`
	Date        time.Time `json:"date"`
	TimeSlot    string    `json:"time_slot"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type VerificationEvent struct {
	EventType    string    `json:"event_type"`
	ProviderID   uuid.UUID `json:"provider_id"`
	Notes        string    `json:"notes,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	AutoApproved bool      `json:"auto_approved,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (p *NatsPublisher) PublishBookingCreated(booking *model.Booking) error {
	return p.publishBooking(SubjectBookingCreated, booking)
}

func (p *NatsPublisher) PublishBookingDecision(booking *model.Booking, approved bool) error {
	subject := SubjectBookingRejected
	if approved {
		subject = SubjectBookingApproved
	}
	return p.publishBooking(subject, booking)
}

func (p *NatsPublisher) PublishPaymentConfirmed(booking *model.Booking) error {
	return p.publishBooking(SubjectPaymentConfirmed, booking)
}

func (p *NatsPublisher) publishBooking(subject string, booking *model.Booking) error {
	event := BookingEvent{
		EventType:   subject,
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		TargetID:    booking.TargetID,
		BookingKind: booking.BookingKind,
		Date:        booking.Date,
		TimeSlot:    booking.TimeSlot,
		Amount:      booking.Amount,
		Status:      booking.Status,
		OccurredAt:  time.Now(),
	}

	return p.publish(subject, event)
}

func (p *NatsPublisher) PublishVerificationSubmitted(providerID uuid.UUID) error {
	event := VerificationEvent{
		EventType:  SubjectVerificationSubmitted,
		ProviderID: providerID,
		OccurredAt: time.Now(),
	}

	return p.publish(SubjectVerificationSubmitted, event)
}

func (p *NatsPublisher) PublishVerificationApproved(providerID uuid.UUID, notes string, autoApproved bool) error {
	event := VerificationEvent{
		EventType:    SubjectVerificationApproved,
		ProviderID:   providerID,
		Notes:        notes,
		AutoApproved: autoApproved,
		OccurredAt:   time.Now(),
	}

	return p.publish(SubjectVerificationApproved, event)
}

func (p *NatsPublisher) PublishVerificationRejected(providerID uuid.UUID, reason string) error {
	event := VerificationEvent{
		EventType:  SubjectVerificationRejected,
		ProviderID: providerID,
		Reason:     reason,
		OccurredAt: time.Now(),
	}

	return p.publish(SubjectVerificationRejected, event)
}

func (p *NatsPublisher) publish(subject string, event interface{}) error {
	eventJSON, err := json.Marshal(event)

	if err != nil {
		slog.Error("Error marshalling event JSON", slog.String("subject", subject), slog.String("error", err.Error()))
		return err
	}

	if err := p.conn.Publish(subject, eventJSON); err != nil {
		slog.Error("Error publishing to NATS", slog.String("subject", subject), slog.String("error", err.Error()))
		return err
	}

	slog.Info("Published event to NATS", slog.String("subject", subject))

	return nil
}
