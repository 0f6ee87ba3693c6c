package notifier

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"sportconnect/internal/events"
	"sportconnect/internal/mailer"
	"sportconnect/internal/model"
	"sportconnect/internal/repository"
)

const lookupTimeout = 5 * time.Second

// Worker turns booking and verification events into transactional email.
// Delivery is best effort; a failed send is logged and the event dropped.
type Worker struct {
	natsConn  *nats.Conn
	mail      mailer.Mailer
	userRepo  repository.UserRepository
	clientURL string
}

func New(natsConn *nats.Conn, mail mailer.Mailer, userRepo repository.UserRepository, clientURL string) *Worker {
	return &Worker{
		natsConn:  natsConn,
		mail:      mail,
		userRepo:  userRepo,
		clientURL: clientURL,
	}
}

// Start subscribes to every subject the worker handles.
func (w *Worker) Start() error {
	subscriptions := map[string]nats.MsgHandler{
		events.SubjectBookingCreated:       w.handleBookingCreated,
		events.SubjectBookingApproved:      w.handleBookingApproved,
		events.SubjectBookingRejected:      w.handleBookingRejected,
		events.SubjectPaymentConfirmed:     w.handlePaymentConfirmed,
		events.SubjectVerificationApproved: w.handleVerificationApproved,
		events.SubjectVerificationRejected: w.handleVerificationRejected,
	}

	for subject, handler := range subscriptions {
		if _, err := w.natsConn.Subscribe(subject, handler); err != nil {
			return err
		}
	}

	return nil
}

func (w *Worker) handleBookingCreated(msg *nats.Msg) {
	event, ok := decodeBooking(msg)
	if !ok {
		return
	}

	player, provider, ok := w.lookupPair(event)
	if !ok {
		return
	}

	subject, body := newBookingRequestBody(event, provider.DisplayName(), player.DisplayName(), w.clientURL)
	w.send(provider.Email, subject, body)
}

func (w *Worker) handleBookingApproved(msg *nats.Msg) {
	event, ok := decodeBooking(msg)
	if !ok {
		return
	}

	player, ok := w.lookupUser(event.UserID)
	if !ok {
		return
	}

	subject, body := bookingApprovedBody(event, player.DisplayName(), w.clientURL)
	w.send(player.Email, subject, body)
}

func (w *Worker) handleBookingRejected(msg *nats.Msg) {
	event, ok := decodeBooking(msg)
	if !ok {
		return
	}

	player, ok := w.lookupUser(event.UserID)
	if !ok {
		return
	}

	subject, body := bookingRejectedBody(event, player.DisplayName())
	w.send(player.Email, subject, body)
}

func (w *Worker) handlePaymentConfirmed(msg *nats.Msg) {
	event, ok := decodeBooking(msg)
	if !ok {
		return
	}

	player, provider, ok := w.lookupPair(event)
	if !ok {
		return
	}

	// both parties hear about a completed payment
	subject, body := paymentConfirmedBody(event, player.DisplayName(), counterpartLabel(event.BookingKind), provider.DisplayName())
	w.send(player.Email, subject, body)

	subject, body = paymentConfirmedBody(event, provider.DisplayName(), "Player", player.DisplayName())
	w.send(provider.Email, subject, body)
}

func (w *Worker) handleVerificationApproved(msg *nats.Msg) {
	var event events.VerificationEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("Error unmarshalling event on %s: %v", msg.Subject, err)
		return
	}

	provider, ok := w.lookupUser(event.ProviderID)
	if !ok {
		return
	}

	subject, body := verificationApprovedBody(provider.DisplayName(), event.Notes, w.clientURL, event.OccurredAt)
	w.send(provider.Email, subject, body)
}

func (w *Worker) handleVerificationRejected(msg *nats.Msg) {
	var event events.VerificationEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("Error unmarshalling event on %s: %v", msg.Subject, err)
		return
	}

	provider, ok := w.lookupUser(event.ProviderID)
	if !ok {
		return
	}

	subject, body := verificationRejectedBody(provider.DisplayName(), event.Reason)
	w.send(provider.Email, subject, body)
}

func decodeBooking(msg *nats.Msg) (events.BookingEvent, bool) {
	var event events.BookingEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("Error unmarshalling event on %s: %v", msg.Subject, err)
		return event, false
	}
	return event, true
}

func (w *Worker) lookupPair(event events.BookingEvent) (player, provider *model.User, ok bool) {
	player, ok = w.lookupUser(event.UserID)
	if !ok {
		return nil, nil, false
	}

	provider, ok = w.lookupUser(event.TargetID)
	if !ok {
		return nil, nil, false
	}

	return player, provider, true
}

func (w *Worker) lookupUser(id uuid.UUID) (*model.User, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	user, err := w.userRepo.FindByID(ctx, id)
	if err != nil {
		log.Printf("Failed to look up user %s: %v", id, err)
		return nil, false
	}
	if user == nil {
		log.Printf("User %s not found, skipping notification", id)
		return nil, false
	}

	return user, true
}

func (w *Worker) send(to, subject, body string) {
	if err := w.mail.Send(to, subject, body); err != nil {
		log.Printf("Failed to send %q to %s: %v", subject, to, err)
		return
	}
	log.Printf("Sent %q to %s", subject, to)
}
