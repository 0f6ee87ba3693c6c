package verification_test

import (
	"context"
	"testing"

	"sportconnect/internal/model"
	"sportconnect/internal/verification"

	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	reachable map[string]bool
	calls     []string
}

func (p *fakeProber) Probe(_ context.Context, url string) bool {
	p.calls = append(p.calls, url)
	return p.reachable[url]
}

func TestIsValidGoogleURL(t *testing.T) {
	valid := []string{
		"https://maps.google.com/abc",
		"https://www.google.com/maps/place/xyz",
		"https://goo.gl/maps/Q1",
		"https://business.google.com/dashboard",
		"https://g.page/my-turf",
		"HTTPS://MAPS.GOOGLE.COM/ABC",
	}
	for _, url := range valid {
		require.True(t, verification.IsValidGoogleURL(url), url)
	}

	invalid := []string{
		"",
		"https://example.com",
		"https://google.com/search?q=turf",
		"https://maps.example.com",
	}
	for _, url := range invalid {
		require.False(t, verification.IsValidGoogleURL(url), url)
	}
}

func TestScoreSubmission_FullEvidence(t *testing.T) {
	e := verification.NewEngine(&fakeProber{})

	data := model.VerificationData{
		GoogleBusinessURL: "https://business.google.com/b/1",
		GoogleMapsURL:     "https://maps.google.com/xyz",
		WebsiteURL:        "https://my-turf.example.com",
		SocialMediaLinks: model.SocialMediaLinks{
			Facebook:  "https://facebook.com/t",
			Instagram: "https://instagram.com/t",
			Twitter:   "https://twitter.com/t",
		},
		BusinessRegistration: "REG-1234",
	}

	result := e.ScoreSubmission(data)
	require.Equal(t, 100, result.Score)
	require.Equal(t, 100, result.MaxScore)
	require.Equal(t, verification.RecommendApprove, result.Recommendation)
	require.Equal(t, "Excellent verification - Strong Google presence", result.Message)
	require.Equal(t, []string{
		"✅ Google Business Profile provided (+40)",
		"✅ Google Maps listing provided (+40)",
		"✅ Website provided (+10)",
		"✅ 3 social media link(s) (+5)",
		"✅ Business registration provided (+5)",
	}, result.Details)
}

func TestScoreSubmission_MapsOnly(t *testing.T) {
	e := verification.NewEngine(&fakeProber{})

	result := e.ScoreSubmission(model.VerificationData{
		GoogleMapsURL: "https://maps.google.com/xyz",
	})

	require.Equal(t, 40, result.Score)
	require.Equal(t, verification.RecommendApprove, result.Recommendation)
	require.Equal(t, "⚠️ No Google Business Profile (0)", result.Details[0])
	require.Equal(t, "✅ Google Maps listing provided (+40)", result.Details[1])
}

func TestScoreSubmission_InvalidGoogleURLGetsNoCredit(t *testing.T) {
	e := verification.NewEngine(&fakeProber{})

	result := e.ScoreSubmission(model.VerificationData{
		GoogleBusinessURL: "https://example.com/not-google",
		WebsiteURL:        "https://example.com",
	})

	require.Equal(t, 10, result.Score)
	require.Equal(t, verification.RecommendReject, result.Recommendation)
	require.Equal(t, "❌ Invalid Google Business URL (0)", result.Details[0])
}

func TestScoreSubmission_SocialCap(t *testing.T) {
	e := verification.NewEngine(&fakeProber{})

	one := e.ScoreSubmission(model.VerificationData{
		SocialMediaLinks: model.SocialMediaLinks{Facebook: "f"},
	})
	require.Equal(t, 2, one.Score)

	four := e.ScoreSubmission(model.VerificationData{
		SocialMediaLinks: model.SocialMediaLinks{Facebook: "f", Instagram: "i", Twitter: "t", LinkedIn: "l"},
	})
	require.Equal(t, 5, four.Score)
	require.Contains(t, four.Details, "✅ 4 social media link(s) (+5)")
}

func TestScoreSubmission_Deterministic(t *testing.T) {
	e := verification.NewEngine(&fakeProber{})
	data := model.VerificationData{
		GoogleMapsURL: "https://g.page/t",
		WebsiteURL:    "https://t.example.com",
	}

	first := e.ScoreSubmission(data)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, e.ScoreSubmission(data))
	}
	require.GreaterOrEqual(t, first.Score, 0)
	require.LessOrEqual(t, first.Score, 100)
}

func TestVerifyPresence_ReachableMaps(t *testing.T) {
	prober := &fakeProber{reachable: map[string]bool{"https://maps.google.com/xyz": true}}
	e := verification.NewEngine(prober)

	check := e.VerifyPresence(context.Background(), model.VerificationData{
		GoogleMapsURL: "https://maps.google.com/xyz",
	})

	require.False(t, check.HasGoogleBusiness)
	require.True(t, check.HasGoogleMaps)
	require.True(t, check.GoogleMapsValid)
	require.True(t, check.CanApprove())
	require.Empty(t, check.Errors)
}

func TestVerifyPresence_DomainMismatchSkipsProbe(t *testing.T) {
	prober := &fakeProber{}
	e := verification.NewEngine(prober)

	check := e.VerifyPresence(context.Background(), model.VerificationData{
		GoogleBusinessURL: "https://example.com/biz",
	})

	require.True(t, check.HasGoogleBusiness)
	require.False(t, check.GoogleBusinessValid)
	require.False(t, check.CanApprove())
	require.Equal(t, []string{"Google Business URL is not a valid Google domain"}, check.Errors)
	require.Empty(t, prober.calls)
}

func TestVerifyPresence_UnreachableURL(t *testing.T) {
	prober := &fakeProber{reachable: map[string]bool{}}
	e := verification.NewEngine(prober)

	check := e.VerifyPresence(context.Background(), model.VerificationData{
		GoogleBusinessURL: "https://business.google.com/gone",
	})

	require.False(t, check.GoogleBusinessValid)
	require.Equal(t, []string{"Google Business URL is not accessible or does not exist"}, check.Errors)
}

func TestVerifyPresence_ErrorsOrdered(t *testing.T) {
	prober := &fakeProber{}
	e := verification.NewEngine(prober)

	check := e.VerifyPresence(context.Background(), model.VerificationData{
		GoogleBusinessURL: "https://business.google.com/gone",
		GoogleMapsURL:     "https://example.com/maps",
	})

	require.Equal(t, []string{
		"Google Business URL is not accessible or does not exist",
		"Google Maps URL is not a valid Google domain",
	}, check.Errors)
}

func TestEvaluate_ReachableMapsOnly(t *testing.T) {
	// Worked example: a single reachable Maps listing scores 40, can be
	// approved manually, but is below the auto-approval threshold.
	prober := &fakeProber{reachable: map[string]bool{"https://maps.google.com/xyz": true}}
	e := verification.NewEngine(prober)

	decision := e.Evaluate(context.Background(), model.VerificationData{
		GoogleMapsURL: "https://maps.google.com/xyz",
	})

	require.Equal(t, 40, decision.VerificationScore.Score)
	require.True(t, decision.CanApprove)
	require.Equal(t, verification.RecommendApprove, decision.VerificationScore.Recommendation)
	require.False(t, decision.AutoApproveEligible)
	require.Nil(t, decision.AutoApproveReason)
}

func TestEvaluate_FullEvidenceAutoApproves(t *testing.T) {
	prober := &fakeProber{reachable: map[string]bool{
		"https://business.google.com/b/1": true,
		"https://maps.google.com/xyz":     true,
	}}
	e := verification.NewEngine(prober)

	decision := e.Evaluate(context.Background(), model.VerificationData{
		GoogleBusinessURL:    "https://business.google.com/b/1",
		GoogleMapsURL:        "https://maps.google.com/xyz",
		WebsiteURL:           "https://t.example.com",
		SocialMediaLinks:     model.SocialMediaLinks{Facebook: "f", Instagram: "i", Twitter: "t"},
		BusinessRegistration: "REG-1",
	})

	require.Equal(t, 100, decision.VerificationScore.Score)
	require.True(t, decision.AutoApproveEligible)
	require.NotNil(t, decision.AutoApproveReason)
}

func TestEvaluate_HighScoreWithoutReachabilityIsNotEligible(t *testing.T) {
	// Domain-valid URLs keep their score credit even when unreachable, but
	// an unreachable listing can never unlock approval.
	prober := &fakeProber{reachable: map[string]bool{}}
	e := verification.NewEngine(prober)

	decision := e.Evaluate(context.Background(), model.VerificationData{
		GoogleBusinessURL:    "https://business.google.com/b/1",
		GoogleMapsURL:        "https://maps.google.com/xyz",
		WebsiteURL:           "https://t.example.com",
		BusinessRegistration: "REG-1",
	})

	require.Equal(t, 95, decision.VerificationScore.Score)
	require.False(t, decision.CanApprove)
	require.False(t, decision.AutoApproveEligible)
	require.True(t, decision.ShouldReview)
}

func TestEvaluate_WebsiteAndSocialNeverUnlockApproval(t *testing.T) {
	prober := &fakeProber{}
	e := verification.NewEngine(prober)

	decision := e.Evaluate(context.Background(), model.VerificationData{
		WebsiteURL:       "https://t.example.com",
		SocialMediaLinks: model.SocialMediaLinks{Facebook: "f"},
	})

	require.False(t, decision.CanApprove)
	require.False(t, decision.AutoApproveEligible)
	require.True(t, decision.ShouldReject)
	require.Empty(t, prober.calls)
}
