package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"sportconnect/internal/model"
	"sportconnect/internal/service"
	"sportconnect/internal/verification"
)

func newVerificationService(users *fakeUserRepo, reachable map[string]bool) service.VerificationService {
	engine := verification.NewEngine(&fakeProber{reachable: reachable})
	return service.NewVerificationService(users, engine, fakePublisher{})
}

func coachUser() *model.User {
	return &model.User{
		ID:                 uuid.New(),
		Email:              "coach@sportconnect.test",
		FirstName:          "Kiran",
		LastName:           "Das",
		Role:               model.RoleCoach,
		VerificationStatus: model.VerificationPending,
	}
}

func TestSubmit_PlayerRejected(t *testing.T) {
	player := &model.User{ID: uuid.New(), Role: model.RolePlayer}
	svc := newVerificationService(newFakeUserRepo(player), nil)

	_, err := svc.Submit(context.Background(), player.ID, model.VerificationData{})
	require.ErrorIs(t, err, service.ErrPlayersNotVerifiable)
}

func TestSubmit_AutoApprovesStrongGooglePresence(t *testing.T) {
	coach := coachUser()
	users := newFakeUserRepo(coach)
	svc := newVerificationService(users, map[string]bool{
		"https://business.google.com/b/1": true,
		"https://maps.google.com/xyz":     true,
	})

	result, err := svc.Submit(context.Background(), coach.ID, model.VerificationData{
		GoogleBusinessURL: "https://business.google.com/b/1",
		GoogleMapsURL:     "https://maps.google.com/xyz",
	})
	require.NoError(t, err)
	require.True(t, result.AutoApproved)
	require.Equal(t, model.VerificationApproved, result.Status)

	require.True(t, coach.IsVerified)
	require.Equal(t, model.VerificationApproved, coach.VerificationStatus)
	require.Equal(t, "System (Auto-approved)", *coach.VerifiedBy)
	require.NotNil(t, coach.Verification.SubmittedAt)
}

func TestSubmit_LowScoreGoesToManualReview(t *testing.T) {
	coach := coachUser()
	users := newFakeUserRepo(coach)
	svc := newVerificationService(users, map[string]bool{
		"https://maps.google.com/xyz": true,
	})

	// reachable Maps listing alone scores 40: approvable, not auto-approvable
	result, err := svc.Submit(context.Background(), coach.ID, model.VerificationData{
		GoogleMapsURL: "https://maps.google.com/xyz",
	})
	require.NoError(t, err)
	require.False(t, result.AutoApproved)
	require.Equal(t, model.VerificationPending, result.Status)
	require.Equal(t, 40, result.Decision.VerificationScore.Score)
	require.True(t, result.Decision.CanApprove)
	require.False(t, coach.IsVerified)
}

func TestSubmit_ResetsRejectedStatus(t *testing.T) {
	coach := coachUser()
	coach.VerificationStatus = model.VerificationRejected
	users := newFakeUserRepo(coach)
	svc := newVerificationService(users, nil)

	result, err := svc.Submit(context.Background(), coach.ID, model.VerificationData{
		WebsiteURL: "https://coach.example.com",
	})
	require.NoError(t, err)
	require.Equal(t, model.VerificationPending, result.Status)
	require.Equal(t, model.VerificationPending, coach.VerificationStatus)
}

func TestApprove_BlockedWithoutGooglePresence(t *testing.T) {
	coach := coachUser()
	coach.Verification = &model.VerificationData{
		WebsiteURL:           "https://coach.example.com",
		BusinessRegistration: "REG-9",
	}
	users := newFakeUserRepo(coach)
	svc := newVerificationService(users, nil)

	_, err := svc.Approve(context.Background(), uuid.New(), coach.ID, "looks fine to me")

	var blocked *service.ApprovalBlockedError
	require.ErrorAs(t, err, &blocked)
	require.False(t, coach.IsVerified)
	require.NotEqual(t, model.VerificationApproved, coach.VerificationStatus)
}

func TestApprove_BlockedWhenGoogleURLUnreachable(t *testing.T) {
	coach := coachUser()
	coach.Verification = &model.VerificationData{
		GoogleBusinessURL: "https://business.google.com/gone",
	}
	svc := newVerificationService(newFakeUserRepo(coach), map[string]bool{})

	_, err := svc.Approve(context.Background(), uuid.New(), coach.ID, "")

	var blocked *service.ApprovalBlockedError
	require.ErrorAs(t, err, &blocked)
	require.Contains(t, blocked.Findings, "Google Business URL is not accessible or does not exist")
}

func TestApprove_NoSubmission(t *testing.T) {
	coach := coachUser()
	svc := newVerificationService(newFakeUserRepo(coach), nil)

	_, err := svc.Approve(context.Background(), uuid.New(), coach.ID, "")
	require.ErrorIs(t, err, service.ErrNoSubmission)
}

func TestApprove_Success(t *testing.T) {
	coach := coachUser()
	coach.Verification = &model.VerificationData{
		GoogleMapsURL: "https://maps.google.com/xyz",
	}
	admin := uuid.New()
	users := newFakeUserRepo(coach)
	svc := newVerificationService(users, map[string]bool{
		"https://maps.google.com/xyz": true,
	})

	updated, err := svc.Approve(context.Background(), admin, coach.ID, "")
	require.NoError(t, err)
	require.True(t, updated.IsVerified)
	require.Equal(t, model.VerificationApproved, updated.VerificationStatus)
	require.Equal(t, "Verified by admin - Google presence confirmed", *updated.VerificationNotes)
	require.Equal(t, admin.String(), *coach.VerifiedBy)
}

func TestReject_RequiresReason(t *testing.T) {
	coach := coachUser()
	admin := uuid.New()
	svc := newVerificationService(newFakeUserRepo(coach), nil)

	_, err := svc.Reject(context.Background(), admin, coach.ID, "")
	require.ErrorIs(t, err, service.ErrReasonRequired)

	updated, err := svc.Reject(context.Background(), admin, coach.ID, "Listing could not be confirmed")
	require.NoError(t, err)
	require.Equal(t, model.VerificationRejected, updated.VerificationStatus)
	require.False(t, updated.IsVerified)
}

func TestReject_RecordsActingAdmin(t *testing.T) {
	coach := coachUser()
	admin := uuid.New()
	svc := newVerificationService(newFakeUserRepo(coach), nil)

	updated, err := svc.Reject(context.Background(), admin, coach.ID, "Listing could not be confirmed")
	require.NoError(t, err)
	require.NotNil(t, updated.RejectedBy)
	require.Equal(t, admin.String(), *updated.RejectedBy)
	require.Equal(t, admin.String(), *coach.RejectedBy)
}

func TestCheck_DoesNotMutate(t *testing.T) {
	coach := coachUser()
	coach.Verification = &model.VerificationData{
		GoogleMapsURL: "https://maps.google.com/xyz",
	}
	svc := newVerificationService(newFakeUserRepo(coach), map[string]bool{
		"https://maps.google.com/xyz": true,
	})

	decision, err := svc.Check(context.Background(), coach.ID)
	require.NoError(t, err)
	require.True(t, decision.CanApprove)
	require.Equal(t, verification.RecommendApprove, decision.VerificationScore.Recommendation)
	require.False(t, coach.IsVerified)
	require.Equal(t, model.VerificationPending, coach.VerificationStatus)
}

func TestAttachDocuments(t *testing.T) {
	coach := coachUser()
	svc := newVerificationService(newFakeUserRepo(coach), nil)

	err := svc.AttachDocuments(context.Background(), coach.ID, model.VerificationDocuments{
		IDProof: "verification-docs/" + coach.ID.String() + "/id.pdf",
	})
	require.NoError(t, err)
	require.NotNil(t, coach.VerificationDocuments)
	require.Contains(t, coach.VerificationDocuments.IDProof, "id.pdf")
}

func TestAttachDocuments_LaterKindsDoNotWipeEarlierOnes(t *testing.T) {
	coach := coachUser()
	svc := newVerificationService(newFakeUserRepo(coach), nil)
	ctx := context.Background()

	require.NoError(t, svc.AttachDocuments(ctx, coach.ID, model.VerificationDocuments{
		IDProof: "verification/" + coach.ID.String() + "/id_proof/1_id.pdf",
	}))
	require.NoError(t, svc.AttachDocuments(ctx, coach.ID, model.VerificationDocuments{
		CertificationProof: "verification/" + coach.ID.String() + "/certification_proof/2_cert.pdf",
	}))

	require.Contains(t, coach.VerificationDocuments.IDProof, "1_id.pdf")
	require.Contains(t, coach.VerificationDocuments.CertificationProof, "2_cert.pdf")
}
