package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"sportconnect/internal/events"
	"sportconnect/internal/model"
	"sportconnect/internal/repository"
	"sportconnect/internal/verification"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrPlayersNotVerifiable = errors.New("players do not require verification")
	ErrNoSubmission         = errors.New("no verification data submitted")
	ErrReasonRequired       = errors.New("a rejection reason is required")
)

const (
	autoApprovedBy     = "System (Auto-approved)"
	defaultApprovalMsg = "Verified by admin - Google presence confirmed"
)

// ApprovalBlockedError is returned when an admin tries to approve a provider
// whose Google presence could not be confirmed. The gate cannot be
// overridden: the findings name the missing evidence.
type ApprovalBlockedError struct {
	Findings []string
	Score    verification.ScoreResult
}

func (e *ApprovalBlockedError) Error() string {
	return "cannot approve: no valid Google Business or Maps URL found"
}

type SubmissionResult struct {
	Decision     verification.Decision `json:"decision"`
	AutoApproved bool                  `json:"auto_approved"`
	Status       string                `json:"verification_status"`
}

type VerificationService interface {
	Submit(ctx context.Context, userID uuid.UUID, data model.VerificationData) (*SubmissionResult, error)
	AttachDocuments(ctx context.Context, userID uuid.UUID, docs model.VerificationDocuments) error
	Approve(ctx context.Context, adminID, providerID uuid.UUID, notes string) (*model.User, error)
	Reject(ctx context.Context, adminID, providerID uuid.UUID, reason string) (*model.User, error)
	Check(ctx context.Context, providerID uuid.UUID) (*verification.Decision, error)
	Status(ctx context.Context, userID uuid.UUID) (*model.User, error)
	ListProviders(ctx context.Context, status string) ([]model.User, error)
}

type verificationService struct {
	userRepo  repository.UserRepository
	engine    *verification.Engine
	publisher events.EventPublisher
}

func NewVerificationService(userRepo repository.UserRepository, engine *verification.Engine, publisher events.EventPublisher) VerificationService {
	return &verificationService{
		userRepo:  userRepo,
		engine:    engine,
		publisher: publisher,
	}
}

// Submit records the provider's presence data and evaluates it. Providers
// with a confirmed Google listing and a high enough score are approved on
// the spot; everyone else lands in the admin review queue.
func (s *verificationService) Submit(ctx context.Context, userID uuid.UUID, data model.VerificationData) (*SubmissionResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsProvider() {
		return nil, ErrPlayersNotVerifiable
	}

	now := time.Now()
	data.SubmittedAt = &now

	if err := s.userRepo.SaveVerificationSubmission(ctx, userID, data); err != nil {
		return nil, err
	}

	go s.publisher.PublishVerificationSubmitted(userID)

	decision := s.engine.Evaluate(ctx, data)

	if decision.AutoApproveEligible {
		reason := *decision.AutoApproveReason
		if err := s.userRepo.ApproveVerification(ctx, userID, reason, autoApprovedBy); err != nil {
			return nil, err
		}

		go s.publisher.PublishVerificationApproved(userID, reason, true)

		return &SubmissionResult{
			Decision:     decision,
			AutoApproved: true,
			Status:       model.VerificationApproved,
		}, nil
	}

	return &SubmissionResult{
		Decision:     decision,
		AutoApproved: false,
		Status:       model.VerificationPending,
	}, nil
}

func (s *verificationService) AttachDocuments(ctx context.Context, userID uuid.UUID, docs model.VerificationDocuments) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !user.IsProvider() {
		return ErrPlayersNotVerifiable
	}

	return s.userRepo.SaveVerificationDocuments(ctx, userID, docs)
}

// Approve is the manual admin path. The presence check is re-run and acts as
// a hard gate: without a reachable Google listing the approval fails no
// matter what the admin supplies.
func (s *verificationService) Approve(ctx context.Context, adminID, providerID uuid.UUID, notes string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Verification == nil {
		return nil, ErrNoSubmission
	}

	decision := s.engine.Evaluate(ctx, *user.Verification)
	if !decision.CanApprove {
		return nil, &ApprovalBlockedError{
			Findings: decision.GoogleVerification.Errors,
			Score:    decision.VerificationScore,
		}
	}

	if notes == "" {
		notes = defaultApprovalMsg
	}

	if err := s.userRepo.ApproveVerification(ctx, providerID, notes, adminID.String()); err != nil {
		return nil, err
	}

	user.VerificationStatus = model.VerificationApproved
	user.IsVerified = true
	user.VerificationNotes = &notes

	go s.publisher.PublishVerificationApproved(providerID, notes, false)

	return user, nil
}

func (s *verificationService) Reject(ctx context.Context, adminID, providerID uuid.UUID, reason string) (*model.User, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	user, err := s.userRepo.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	rejectedBy := adminID.String()
	if err := s.userRepo.RejectVerification(ctx, providerID, reason, rejectedBy); err != nil {
		return nil, err
	}

	user.VerificationStatus = model.VerificationRejected
	user.IsVerified = false
	user.VerificationNotes = &reason
	user.RejectedBy = &rejectedBy

	go s.publisher.PublishVerificationRejected(providerID, reason)

	return user, nil
}

// Check runs the evaluation without changing any state, for the admin
// review screen.
func (s *verificationService) Check(ctx context.Context, providerID uuid.UUID) (*verification.Decision, error) {
	user, err := s.userRepo.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Verification == nil {
		return nil, ErrNoSubmission
	}

	decision := s.engine.Evaluate(ctx, *user.Verification)
	return &decision, nil
}

func (s *verificationService) Status(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *verificationService) ListProviders(ctx context.Context, status string) ([]model.User, error) {
	return s.userRepo.ListProviders(ctx, status)
}
