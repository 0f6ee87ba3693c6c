package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sportconnect/internal/payment"
	"sportconnect/internal/service"
)

type BookingHandler struct {
	bookingService service.BookingService
	validate       *validator.Validate
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		validate:       validator.New(),
	}
}

type CreateBookingRequest struct {
	TargetID      string  `json:"target_id" validate:"required,uuid"`
	BookingKind   string  `json:"booking_kind" validate:"required,oneof=turf coach"`
	Date          string  `json:"date" validate:"required"`
	TimeSlot      string  `json:"time_slot" validate:"required"`
	DurationHours int     `json:"duration_hours"`
	Sport         *string `json:"sport"`
	SessionType   *string `json:"session_type"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
}

func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	requesterID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request CreateBookingRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON", "details": err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	targetID, err := uuid.Parse(request.TargetID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid target id"})
	}

	date, err := time.Parse("2006-01-02", request.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	booking, err := h.bookingService.CreateBooking(c.Context(), requesterID, service.CreateBookingInput{
		TargetID:      targetID,
		BookingKind:   request.BookingKind,
		Date:          date,
		TimeSlot:      request.TimeSlot,
		DurationHours: request.DurationHours,
		Sport:         request.Sport,
		SessionType:   request.SessionType,
		Amount:        request.Amount,
	})

	if err != nil {
		return h.mapBookingError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Booking created successfully",
		"booking": booking,
	})
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	actorID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var request UpdateBookingStatusRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	booking, err := h.bookingService.UpdateStatus(c.Context(), bookingID, actorID, request.Status)
	if err != nil {
		return h.mapBookingError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Booking " + booking.Status,
		"booking": booking,
	})
}

func (h *BookingHandler) CreatePaymentOrder(c *fiber.Ctx) error {
	actorID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	order, err := h.bookingService.CreatePaymentOrder(c.Context(), bookingID, actorID)
	if err != nil {
		return h.mapBookingError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"order": order})
}

type ConfirmPaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
	PaymentID     string `json:"payment_id"`
	OrderID       string `json:"order_id"`
	Signature     string `json:"signature"`
}

func (h *BookingHandler) ConfirmPayment(c *fiber.Ctx) error {
	actorID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var request ConfirmPaymentRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	booking, err := h.bookingService.ConfirmPayment(c.Context(), bookingID, actorID, service.ConfirmPaymentInput{
		PaymentMethod: request.PaymentMethod,
		PaymentID:     request.PaymentID,
		OrderID:       request.OrderID,
		Signature:     request.Signature,
	})

	if err != nil {
		return h.mapBookingError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Payment confirmed successfully",
		"booking": booking,
	})
}

func (h *BookingHandler) CheckAvailability(c *fiber.Ctx) error {
	targetID, err := uuid.Parse(c.Query("target_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid target id"})
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	slot := c.Query("time_slot")

	available, err := h.bookingService.CheckAvailability(c.Context(), targetID, date, slot)
	if err != nil {
		return h.mapBookingError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"available": available,
		"date":      date.Format("2006-01-02"),
		"time_slot": slot,
	})
}

func (h *BookingHandler) ListMyBookings(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	bookings, err := h.bookingService.ListForUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"bookings": bookings})
}

func (h *BookingHandler) ListAssignedBookings(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	bookings, err := h.bookingService.ListAssigned(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"bookings": bookings})
}

func (h *BookingHandler) ListTurfBookings(c *fiber.Ctx) error {
	turfID, err := uuid.Parse(c.Params("turfId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid turf id"})
	}

	bookings, err := h.bookingService.ListForTurf(c.Context(), turfID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"bookings": bookings})
}

func (h *BookingHandler) mapBookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrBookingNotFound), errors.Is(err, service.ErrTargetNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, payment.ErrNotConfigured):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, payment.ErrProvider):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrSlotTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrTargetNotVerified),
		errors.Is(err, service.ErrNotBookingOwner),
		errors.Is(err, service.ErrNotBookingTarget):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTimeSlot),
		errors.Is(err, service.ErrInvalidBookingKind),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrBookingNotApproved),
		errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrPaymentSignature):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
