package service_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"sportconnect/internal/model"
	"sportconnect/internal/payment"
)

var errNotFound = errors.New("not found")

func paymentSignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) (uuid.UUID, error) {
	id := uuid.New()
	user.ID = id
	r.users[id] = user
	return id, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) SaveVerificationSubmission(_ context.Context, id uuid.UUID, data model.VerificationData) error {
	u := r.users[id]
	u.Verification = &data
	u.VerificationStatus = model.VerificationPending
	u.IsVerified = false
	return nil
}

// SaveVerificationDocuments merges like the jsonb || in the real repository:
// only the kinds present in docs are overwritten.
func (r *fakeUserRepo) SaveVerificationDocuments(_ context.Context, id uuid.UUID, docs model.VerificationDocuments) error {
	u := r.users[id]
	merged := model.VerificationDocuments{}
	if u.VerificationDocuments != nil {
		merged = *u.VerificationDocuments
	}
	if docs.IDProof != "" {
		merged.IDProof = docs.IDProof
	}
	if docs.CertificationProof != "" {
		merged.CertificationProof = docs.CertificationProof
	}
	if docs.AddressProof != "" {
		merged.AddressProof = docs.AddressProof
	}
	u.VerificationDocuments = &merged
	return nil
}

func (r *fakeUserRepo) ApproveVerification(_ context.Context, id uuid.UUID, notes, verifiedBy string) error {
	u := r.users[id]
	now := time.Now()
	u.VerificationStatus = model.VerificationApproved
	u.IsVerified = true
	u.VerificationNotes = &notes
	u.VerifiedAt = &now
	u.VerifiedBy = &verifiedBy
	return nil
}

func (r *fakeUserRepo) RejectVerification(_ context.Context, id uuid.UUID, reason, rejectedBy string) error {
	u := r.users[id]
	u.VerificationStatus = model.VerificationRejected
	u.IsVerified = false
	u.VerificationNotes = &reason
	u.RejectedBy = &rejectedBy
	return nil
}

func (r *fakeUserRepo) ListProviders(_ context.Context, status string) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if !u.IsProvider() {
			continue
		}
		if status != "" && u.VerificationStatus != status {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

type fakeTokenRepo struct {
	tokens map[string]*model.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*model.RefreshToken{}}
}

func (r *fakeTokenRepo) Create(_ context.Context, token *model.RefreshToken) error {
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *fakeTokenRepo) FindByTokenHash(_ context.Context, tokenHash string) (*model.RefreshToken, error) {
	t, ok := r.tokens[tokenHash]
	if !ok {
		return nil, errNotFound
	}
	return t, nil
}

func (r *fakeTokenRepo) Delete(_ context.Context, tokenHash string) error {
	delete(r.tokens, tokenHash)
	return nil
}

type slotKey struct {
	target uuid.UUID
	date   string
	slot   string
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*model.Booking

	// hideFromLookup simulates a conflicting insert that lands between the
	// service's availability check and its own insert
	hideFromLookup bool
}

func newFakeBookingRepo(bookings ...*model.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: map[uuid.UUID]*model.Booking{}}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) key(target uuid.UUID, date time.Time, slot string) slotKey {
	return slotKey{target: target, date: date.Format("2006-01-02"), slot: slot}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *model.Booking) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// emulate the partial unique index
	for _, b := range r.bookings {
		if r.key(b.TargetID, b.Date, b.TimeSlot) == r.key(booking.TargetID, booking.Date, booking.TimeSlot) &&
			(b.Status == model.BookingPending || b.Status == model.BookingApproved) {
			return nil, &pgconn.PgError{Code: "23505"}
		}
	}

	booking.ID = uuid.New()
	booking.Status = model.BookingPending
	booking.PaymentStatus = model.PaymentPending
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	r.bookings[booking.ID] = booking
	return booking, nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) HasActiveBooking(_ context.Context, targetID uuid.UUID, date time.Time, slot string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideFromLookup {
		return false, nil
	}
	for _, b := range r.bookings {
		if r.key(b.TargetID, b.Date, b.TimeSlot) == r.key(targetID, date, slot) &&
			(b.Status == model.BookingPending || b.Status == model.BookingApproved) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) IsSlotBlocked(_ context.Context, targetID uuid.UUID, date time.Time, slot string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if r.key(b.TargetID, b.Date, b.TimeSlot) == r.key(targetID, date, slot) &&
			(b.Status == model.BookingPending || b.Status == model.BookingApproved || b.Status == model.BookingCompleted) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[id].Status = status
	return nil
}

func (r *fakeBookingRepo) MarkPaid(_ context.Context, id uuid.UUID, method, paymentID string, paidAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.bookings[id]
	if b.Status != model.BookingApproved || b.PaymentStatus != model.PaymentPending {
		return false, nil
	}
	b.Status = model.BookingCompleted
	b.PaymentStatus = model.PaymentPaid
	b.PaymentMethod = &method
	b.PaymentID = &paymentID
	b.PaidAt = &paidAt
	return true, nil
}

func (r *fakeBookingRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]model.BookingDetails, error) {
	return r.list(func(b *model.Booking) bool { return b.UserID == userID })
}

func (r *fakeBookingRepo) ListByTarget(_ context.Context, targetID uuid.UUID) ([]model.BookingDetails, error) {
	return r.list(func(b *model.Booking) bool { return b.TargetID == targetID })
}

func (r *fakeBookingRepo) ListByTurf(_ context.Context, turfID uuid.UUID) ([]model.BookingDetails, error) {
	return r.list(func(b *model.Booking) bool { return b.TargetID == turfID && b.BookingKind == model.BookingKindTurf })
}

func (r *fakeBookingRepo) list(match func(*model.Booking) bool) ([]model.BookingDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.BookingDetails{}
	for _, b := range r.bookings {
		if match(b) {
			out = append(out, model.BookingDetails{Booking: *b})
		}
	}
	return out, nil
}

type fakePublisher struct{}

func (fakePublisher) PublishBookingCreated(*model.Booking) error { return nil }
func (fakePublisher) PublishBookingDecision(*model.Booking, bool) error {
	return nil
}
func (fakePublisher) PublishPaymentConfirmed(*model.Booking) error { return nil }
func (fakePublisher) PublishVerificationSubmitted(uuid.UUID) error { return nil }
func (fakePublisher) PublishVerificationApproved(uuid.UUID, string, bool) error {
	return nil
}
func (fakePublisher) PublishVerificationRejected(uuid.UUID, string) error { return nil }

type fakeOrders struct {
	lastAmount  int64
	lastReceipt string
	err         error
}

func (o *fakeOrders) CreateOrder(_ context.Context, amountPaise int64, receipt string) (*payment.Order, error) {
	if o.err != nil {
		return nil, o.err
	}
	o.lastAmount = amountPaise
	o.lastReceipt = receipt
	return &payment.Order{OrderID: "order_test1", Amount: amountPaise, Currency: "INR", Key: "rzp_test"}, nil
}

type fakeProber struct {
	reachable map[string]bool
}

func (p *fakeProber) Probe(_ context.Context, url string) bool {
	return p.reachable[url]
}
