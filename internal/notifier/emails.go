package notifier

import (
	"fmt"
	"strings"
	"time"

	"sportconnect/internal/events"
	"sportconnect/internal/model"
)

// Plain-text email bodies. Kept deliberately simple: the transactional
// content is the booking facts, not markup.

func newBookingRequestBody(event events.BookingEvent, providerName, playerName, clientURL string) (subject, body string) {
	subject = "New Booking Request"

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", providerName)
	fmt.Fprintf(&b, "You have received a new booking request from %s.\n\n", playerName)
	b.WriteString("Booking Details:\n")
	fmt.Fprintf(&b, "  Player: %s\n", playerName)
	fmt.Fprintf(&b, "  Date: %s\n", event.Date.Format("02 Jan 2006"))
	fmt.Fprintf(&b, "  Time: %s\n", event.TimeSlot)
	fmt.Fprintf(&b, "  Amount: ₹%.2f\n\n", event.Amount)
	fmt.Fprintf(&b, "Please login to your dashboard to approve or reject this booking:\n%s/login\n\n", clientURL)
	b.WriteString("SportConnect - Connecting Sports Enthusiasts\n")

	return subject, b.String()
}

func bookingApprovedBody(event events.BookingEvent, playerName, clientURL string) (subject, body string) {
	subject = "Booking Approved - Payment Required"

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", playerName)
	b.WriteString("Great news! Your booking has been approved.\n\n")
	b.WriteString("Booking Details:\n")
	fmt.Fprintf(&b, "  Date: %s\n", event.Date.Format("02 Jan 2006"))
	fmt.Fprintf(&b, "  Time: %s\n", event.TimeSlot)
	fmt.Fprintf(&b, "  Amount: ₹%.2f\n\n", event.Amount)
	fmt.Fprintf(&b, "Next Step: Please complete the payment to confirm your booking:\n%s/my-bookings\n\n", clientURL)
	b.WriteString("Thank you for choosing SportConnect!\n")

	return subject, b.String()
}

func bookingRejectedBody(event events.BookingEvent, playerName string) (subject, body string) {
	subject = "Booking Update - SportConnect"

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", playerName)
	fmt.Fprintf(&b, "Unfortunately your booking request for %s at %s was declined.\n\n",
		event.Date.Format("02 Jan 2006"), event.TimeSlot)
	b.WriteString("The slot is now free again, so feel free to pick another time.\n\n")
	b.WriteString("Thank you for choosing SportConnect!\n")

	return subject, b.String()
}

// counterpartLabel names the other party of a booking from the player's
// point of view.
func counterpartLabel(kind string) string {
	if kind == model.BookingKindCoach {
		return "Coach"
	}
	return "Turf"
}

// paymentConfirmedBody is sent to both parties; the counterpart is the
// provider when addressed to the player and vice versa.
func paymentConfirmedBody(event events.BookingEvent, recipientName, counterpartRole, counterpartName string) (subject, body string) {
	subject = "Payment Successful - Booking Confirmed"

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", recipientName)
	b.WriteString("The payment has been processed successfully. The booking is now confirmed!\n\n")
	b.WriteString("Booking Confirmation:\n")
	fmt.Fprintf(&b, "  %s: %s\n", counterpartRole, counterpartName)
	fmt.Fprintf(&b, "  Date: %s\n", event.Date.Format("02 Jan 2006"))
	fmt.Fprintf(&b, "  Time: %s\n", event.TimeSlot)
	fmt.Fprintf(&b, "  Amount Paid: ₹%.2f\n\n", event.Amount)
	b.WriteString("Please arrive 10 minutes before your scheduled time.\n\n")
	b.WriteString("Thank you for choosing SportConnect!\nFor any queries, contact us at support@sportconnect.com\n")

	return subject, b.String()
}

func verificationApprovedBody(providerName, notes, clientURL string, approvedAt time.Time) (subject, body string) {
	subject = "✅ Verification Approved - SportConnect"

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", providerName)
	b.WriteString("Congratulations! Your verification has been approved.\n\n")
	b.WriteString("Status: Verified\n")
	fmt.Fprintf(&b, "Verified At: %s\n", approvedAt.Format("02 Jan 2006 15:04"))
	if notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", notes)
	}
	fmt.Fprintf(&b, "\nYou can now receive booking requests from players on SportConnect!\n%s/login\n\n", clientURL)
	b.WriteString("Thank you for choosing SportConnect!\n")

	return subject, b.String()
}

func verificationRejectedBody(providerName, reason string) (subject, body string) {
	subject = "Verification Update - SportConnect"

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", providerName)
	b.WriteString("Thank you for submitting your verification request. After careful review, we need additional information.\n\n")
	fmt.Fprintf(&b, "Reason: %s\n\n", reason)
	b.WriteString("Please update your verification details and resubmit:\n")
	b.WriteString("  - Ensure your Google Business Profile or Google Maps listing is active\n")
	b.WriteString("  - Provide accurate business information\n")
	b.WriteString("  - Include valid contact details\n\n")
	b.WriteString("Thank you for choosing SportConnect!\n")

	return subject, b.String()
}
