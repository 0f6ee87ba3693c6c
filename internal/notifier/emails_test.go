package notifier

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"sportconnect/internal/events"
	"sportconnect/internal/model"
)

func sampleEvent(kind string) events.BookingEvent {
	return events.BookingEvent{
		BookingID:   uuid.New(),
		UserID:      uuid.New(),
		TargetID:    uuid.New(),
		BookingKind: kind,
		Date:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "07:00 AM",
		Amount:      1200,
	}
}

func TestPaymentConfirmedBody_LabelsCounterpart(t *testing.T) {
	event := sampleEvent(model.BookingKindCoach)
	subject, body := paymentConfirmedBody(event, "Asha", counterpartLabel(event.BookingKind), "Coach Ravi")
	require.Equal(t, "Payment Successful - Booking Confirmed", subject)
	require.Contains(t, body, "Dear Asha")
	require.Contains(t, body, "Coach: Coach Ravi")

	event = sampleEvent(model.BookingKindTurf)
	_, body = paymentConfirmedBody(event, "Asha", counterpartLabel(event.BookingKind), "Green Field Arena")
	require.Contains(t, body, "Turf: Green Field Arena")

	// the provider's copy names the player
	_, body = paymentConfirmedBody(event, "Green Field Arena", "Player", "Asha")
	require.Contains(t, body, "Dear Green Field Arena")
	require.Contains(t, body, "Player: Asha")
}

func TestBookingApprovedBody_PointsAtPaymentPage(t *testing.T) {
	subject, body := bookingApprovedBody(sampleEvent(model.BookingKindTurf), "Asha", "http://localhost:3000")
	require.Equal(t, "Booking Approved - Payment Required", subject)
	require.Contains(t, body, "http://localhost:3000/my-bookings")
	require.Contains(t, body, "07:00 AM")
	require.Contains(t, body, "14 Mar 2026")
}

func TestVerificationApprovedBody_NotesAreOptional(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	_, body := verificationApprovedBody("Green Field Arena", "", "http://localhost:3000", at)
	require.False(t, strings.Contains(body, "Notes:"))

	_, body = verificationApprovedBody("Green Field Arena", "Confirmed over the phone", "http://localhost:3000", at)
	require.Contains(t, body, "Notes: Confirmed over the phone")
}

func TestVerificationRejectedBody_CarriesReason(t *testing.T) {
	_, body := verificationRejectedBody("Coach Ravi", "Google Maps listing is inactive")
	require.Contains(t, body, "Reason: Google Maps listing is inactive")
	require.Contains(t, body, "resubmit")
}
