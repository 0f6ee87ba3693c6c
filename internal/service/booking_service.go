package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"sportconnect/internal/events"
	"sportconnect/internal/model"
	"sportconnect/internal/payment"
	"sportconnect/internal/repository"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrTargetNotFound     = errors.New("coach or turf not found")
	ErrTargetNotVerified  = errors.New("this coach/turf is not verified yet")
	ErrSlotTaken          = errors.New("this time slot is already booked")
	ErrInvalidAmount      = errors.New("a positive amount is required")
	ErrInvalidTimeSlot    = errors.New("time is not a recognised slot")
	ErrInvalidBookingKind = errors.New("booking kind must be coach or turf")
	ErrMissingFields      = errors.New("target, date and time are required")
	ErrNotBookingOwner    = errors.New("only the requester can act on this booking")
	ErrNotBookingTarget   = errors.New("only the booked coach/turf can act on this booking")
	ErrInvalidTransition  = errors.New("only pending bookings can be approved or rejected")
	ErrBookingNotApproved = errors.New("booking must be approved before payment")
	ErrAlreadyPaid        = errors.New("payment already completed")
	ErrPaymentSignature   = errors.New("payment verification failed")
)

type CreateBookingInput struct {
	TargetID      uuid.UUID
	BookingKind   string
	Date          time.Time
	TimeSlot      string
	DurationHours int
	Sport         *string
	SessionType   *string
	Amount        float64
}

type ConfirmPaymentInput struct {
	PaymentMethod string
	PaymentID     string
	OrderID       string
	Signature     string
}

type BookingService interface {
	CreateBooking(ctx context.Context, requesterID uuid.UUID, input CreateBookingInput) (*model.Booking, error)
	UpdateStatus(ctx context.Context, bookingID, actorID uuid.UUID, newStatus string) (*model.Booking, error)
	CreatePaymentOrder(ctx context.Context, bookingID, actorID uuid.UUID) (*payment.Order, error)
	ConfirmPayment(ctx context.Context, bookingID, actorID uuid.UUID, input ConfirmPaymentInput) (*model.Booking, error)
	CheckAvailability(ctx context.Context, targetID uuid.UUID, date time.Time, slot string) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.BookingDetails, error)
	ListAssigned(ctx context.Context, targetID uuid.UUID) ([]model.BookingDetails, error)
	ListForTurf(ctx context.Context, turfID uuid.UUID) ([]model.BookingDetails, error)
}

type bookingService struct {
	bookingRepo   repository.BookingRepository
	userRepo      repository.UserRepository
	orders        payment.OrderProvider
	publisher     events.EventPublisher
	paymentSecret string
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	orders payment.OrderProvider,
	publisher events.EventPublisher,
	paymentSecret string,
) BookingService {
	return &bookingService{
		bookingRepo:   bookingRepo,
		userRepo:      userRepo,
		orders:        orders,
		publisher:     publisher,
		paymentSecret: paymentSecret,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, requesterID uuid.UUID, input CreateBookingInput) (*model.Booking, error) {
	if input.TargetID == uuid.Nil || input.Date.IsZero() || input.TimeSlot == "" {
		return nil, ErrMissingFields
	}
	if input.BookingKind != model.BookingKindCoach && input.BookingKind != model.BookingKindTurf {
		return nil, ErrInvalidBookingKind
	}
	if !model.IsValidTimeSlot(input.TimeSlot) {
		return nil, ErrInvalidTimeSlot
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	target, err := s.userRepo.FindByID(ctx, input.TargetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrTargetNotFound
	}

	// Players may only book verified providers.
	if !target.IsVerified || target.VerificationStatus != model.VerificationApproved {
		return nil, ErrTargetNotVerified
	}

	taken, err := s.bookingRepo.HasActiveBooking(ctx, input.TargetID, input.Date, input.TimeSlot)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	duration := input.DurationHours
	if duration < 1 {
		duration = 1
	}

	booking := &model.Booking{
		UserID:        requesterID,
		TargetID:      input.TargetID,
		BookingKind:   input.BookingKind,
		Date:          input.Date,
		TimeSlot:      input.TimeSlot,
		DurationHours: duration,
		Sport:         input.Sport,
		SessionType:   input.SessionType,
		Amount:        input.Amount,
	}

	created, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		// the partial unique index on (target, date, slot) catches the race
		// two concurrent requests can win against the lookup above
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	go s.publisher.PublishBookingCreated(created)

	return created, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, bookingID, actorID uuid.UUID, newStatus string) (*model.Booking, error) {
	if newStatus != model.BookingApproved && newStatus != model.BookingRejected {
		return nil, ErrInvalidTransition
	}

	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	if booking.TargetID != actorID {
		return nil, ErrNotBookingTarget
	}
	if booking.Status != model.BookingPending {
		return nil, ErrInvalidTransition
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		return nil, err
	}

	booking.Status = newStatus

	go s.publisher.PublishBookingDecision(booking, newStatus == model.BookingApproved)

	return booking, nil
}

func (s *bookingService) CreatePaymentOrder(ctx context.Context, bookingID, actorID uuid.UUID) (*payment.Order, error) {
	if s.orders == nil {
		return nil, payment.ErrNotConfigured
	}

	booking, err := s.paymentGuards(ctx, bookingID, actorID)
	if err != nil {
		return nil, err
	}

	// round, don't truncate: 19.99 rupees is 1999 paise, not 1998
	amountPaise := int64(math.Round(booking.Amount * 100))
	receipt := fmt.Sprintf("booking_%s", booking.ID)

	return s.orders.CreateOrder(ctx, amountPaise, receipt)
}

func (s *bookingService) ConfirmPayment(ctx context.Context, bookingID, actorID uuid.UUID, input ConfirmPaymentInput) (*model.Booking, error) {
	booking, err := s.paymentGuards(ctx, bookingID, actorID)
	if err != nil {
		return nil, err
	}

	if input.OrderID != "" && input.Signature != "" {
		if !payment.VerifySignature(input.OrderID, input.PaymentID, input.Signature, s.paymentSecret) {
			return nil, ErrPaymentSignature
		}
	}

	paymentID := input.PaymentID
	if paymentID == "" {
		paymentID = fmt.Sprintf("PAY_%d", time.Now().UnixMilli())
	}

	paidAt := time.Now()
	paid, err := s.bookingRepo.MarkPaid(ctx, bookingID, input.PaymentMethod, paymentID, paidAt)
	if err != nil {
		return nil, err
	}
	if !paid {
		// a concurrent confirmation got there first
		return nil, ErrAlreadyPaid
	}

	booking.Status = model.BookingCompleted
	booking.PaymentStatus = model.PaymentPaid
	booking.PaymentID = &paymentID
	booking.PaymentMethod = &input.PaymentMethod
	booking.PaidAt = &paidAt

	go s.publisher.PublishPaymentConfirmed(booking)

	return booking, nil
}

func (s *bookingService) paymentGuards(ctx context.Context, bookingID, actorID uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	if booking.UserID != actorID {
		return nil, ErrNotBookingOwner
	}
	if booking.PaymentStatus == model.PaymentPaid {
		return nil, ErrAlreadyPaid
	}
	if booking.Status != model.BookingApproved {
		return nil, ErrBookingNotApproved
	}

	return booking, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, targetID uuid.UUID, date time.Time, slot string) (bool, error) {
	if !model.IsValidTimeSlot(slot) {
		return false, ErrInvalidTimeSlot
	}

	blocked, err := s.bookingRepo.IsSlotBlocked(ctx, targetID, date, slot)
	if err != nil {
		return false, err
	}
	return !blocked, nil
}

func (s *bookingService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.BookingDetails, error) {
	return s.bookingRepo.ListByUser(ctx, userID)
}

func (s *bookingService) ListAssigned(ctx context.Context, targetID uuid.UUID) ([]model.BookingDetails, error) {
	return s.bookingRepo.ListByTarget(ctx, targetID)
}

func (s *bookingService) ListForTurf(ctx context.Context, turfID uuid.UUID) ([]model.BookingDetails, error) {
	return s.bookingRepo.ListByTurf(ctx, turfID)
}
