package verification

import (
	"context"
	"fmt"
	"sync"

	"sportconnect/internal/model"
)

const (
	RecommendApprove = "APPROVE"
	RecommendReview  = "REVIEW"
	RecommendReject  = "REJECT"
)

const (
	scoreGoogleBusiness = 40
	scoreGoogleMaps     = 40
	scoreWebsite        = 10
	scorePerSocialLink  = 2
	scoreSocialCap      = 5
	scoreRegistration   = 5

	// MaxScore is the ceiling of the verification score.
	MaxScore = 100

	// AutoApproveThreshold is the minimum score for system approval without
	// an admin in the loop.
	AutoApproveThreshold = 80
)

const autoApproveReason = "Registered on Google with high verification score"

type ScoreResult struct {
	Score          int      `json:"score"`
	MaxScore       int      `json:"max_score"`
	Details        []string `json:"details"`
	Recommendation string   `json:"recommendation"`
	Message        string   `json:"message"`
}

type PresenceCheck struct {
	HasGoogleBusiness   bool     `json:"has_google_business"`
	HasGoogleMaps       bool     `json:"has_google_maps"`
	GoogleBusinessValid bool     `json:"google_business_valid"`
	GoogleMapsValid     bool     `json:"google_maps_valid"`
	Errors              []string `json:"errors"`
}

// CanApprove reports whether at least one Google listing is both
// domain-valid and reachable. It is the hard gate on any approval path.
func (c PresenceCheck) CanApprove() bool {
	return c.GoogleBusinessValid || c.GoogleMapsValid
}

type Decision struct {
	GoogleVerification  PresenceCheck `json:"google_verification"`
	VerificationScore   ScoreResult   `json:"verification_score"`
	CanApprove          bool          `json:"can_approve"`
	ShouldReview        bool          `json:"should_review"`
	ShouldReject        bool          `json:"should_reject"`
	AutoApproveEligible bool          `json:"auto_approve_eligible"`
	AutoApproveReason   *string       `json:"auto_approve_reason,omitempty"`
}

// Engine turns submitted business-presence data into a trust score and an
// approval decision. Scoring is pure; only VerifyPresence touches the
// network, through the injected Prober.
type Engine struct {
	prober Prober
}

func NewEngine(prober Prober) *Engine {
	return &Engine{prober: prober}
}

// ScoreSubmission allocates points for each piece of submitted evidence.
// Deterministic, no side effects: Google URLs are judged on domain match
// alone, so an unreachable-but-plausible listing still earns credit here.
func (e *Engine) ScoreSubmission(data model.VerificationData) ScoreResult {
	score := 0
	var details []string

	if data.GoogleBusinessURL != "" {
		if IsValidGoogleURL(data.GoogleBusinessURL) {
			score += scoreGoogleBusiness
			details = append(details, "✅ Google Business Profile provided (+40)")
		} else {
			details = append(details, "❌ Invalid Google Business URL (0)")
		}
	} else {
		details = append(details, "⚠️ No Google Business Profile (0)")
	}

	if data.GoogleMapsURL != "" {
		if IsValidGoogleURL(data.GoogleMapsURL) {
			score += scoreGoogleMaps
			details = append(details, "✅ Google Maps listing provided (+40)")
		} else {
			details = append(details, "❌ Invalid Google Maps URL (0)")
		}
	} else {
		details = append(details, "⚠️ No Google Maps listing (0)")
	}

	if data.WebsiteURL != "" {
		score += scoreWebsite
		details = append(details, "✅ Website provided (+10)")
	}

	socialCount := len(data.SocialMediaLinks.Links())
	if socialCount > 0 {
		socialScore := socialCount * scorePerSocialLink
		if socialScore > scoreSocialCap {
			socialScore = scoreSocialCap
		}
		score += socialScore
		details = append(details, fmt.Sprintf("✅ %d social media link(s) (+%d)", socialCount, socialScore))
	}

	if data.BusinessRegistration != "" {
		score += scoreRegistration
		details = append(details, "✅ Business registration provided (+5)")
	}

	return ScoreResult{
		Score:          score,
		MaxScore:       MaxScore,
		Details:        details,
		Recommendation: recommendation(score),
		Message:        scoreMessage(score),
	}
}

func recommendation(score int) string {
	switch {
	case score >= 40:
		return RecommendApprove
	case score >= 20:
		return RecommendReview
	default:
		return RecommendReject
	}
}

func scoreMessage(score int) string {
	switch {
	case score >= 80:
		return "Excellent verification - Strong Google presence"
	case score >= 40:
		return "Good verification - Has Google presence"
	case score >= 20:
		return "Weak verification - Limited information"
	default:
		return "Insufficient verification - No Google presence"
	}
}

// VerifyPresence validates the Google URLs: a domain allow-list check first,
// then a reachability probe for URLs that pass it. The two probes run in
// parallel, each under its own timeout. Probe failures degrade to findings,
// they never abort the check.
func (e *Engine) VerifyPresence(ctx context.Context, data model.VerificationData) PresenceCheck {
	check := PresenceCheck{Errors: []string{}}

	var businessErr, mapsErr string
	var wg sync.WaitGroup

	if data.GoogleBusinessURL != "" {
		check.HasGoogleBusiness = true

		if !IsValidGoogleURL(data.GoogleBusinessURL) {
			businessErr = "Google Business URL is not a valid Google domain"
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if e.probe(ctx, data.GoogleBusinessURL) {
					check.GoogleBusinessValid = true
				} else {
					businessErr = "Google Business URL is not accessible or does not exist"
				}
			}()
		}
	}

	if data.GoogleMapsURL != "" {
		check.HasGoogleMaps = true

		if !IsValidGoogleURL(data.GoogleMapsURL) {
			mapsErr = "Google Maps URL is not a valid Google domain"
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if e.probe(ctx, data.GoogleMapsURL) {
					check.GoogleMapsValid = true
				} else {
					mapsErr = "Google Maps URL is not accessible or does not exist"
				}
			}()
		}
	}

	wg.Wait()

	if businessErr != "" {
		check.Errors = append(check.Errors, businessErr)
	}
	if mapsErr != "" {
		check.Errors = append(check.Errors, mapsErr)
	}

	return check
}

func (e *Engine) probe(ctx context.Context, url string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()
	return e.prober.Probe(probeCtx, url)
}

// Evaluate composes scoring and presence checking into the decision that
// drives both auto-approval and the admin review gate.
func (e *Engine) Evaluate(ctx context.Context, data model.VerificationData) Decision {
	presence := e.VerifyPresence(ctx, data)
	score := e.ScoreSubmission(data)

	canApprove := presence.CanApprove()
	eligible := canApprove && score.Score >= AutoApproveThreshold

	decision := Decision{
		GoogleVerification:  presence,
		VerificationScore:   score,
		CanApprove:          canApprove,
		ShouldReview:        !canApprove && score.Score >= 20,
		ShouldReject:        !canApprove && score.Score < 20,
		AutoApproveEligible: eligible,
	}

	if eligible {
		reason := autoApproveReason
		decision.AutoApproveReason = &reason
	}

	return decision
}
