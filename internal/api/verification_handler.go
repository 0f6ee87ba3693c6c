package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sportconnect/internal/model"
	"sportconnect/internal/s3"
	"sportconnect/internal/service"
)

type VerificationHandler struct {
	verificationService service.VerificationService
	presigner           *s3.DocumentPresigner
	validate            *validator.Validate
}

func NewVerificationHandler(verificationService service.VerificationService, presigner *s3.DocumentPresigner) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
		presigner:           presigner,
		validate:            validator.New(),
	}
}

type SubmitVerificationRequest struct {
	GoogleBusinessURL    string            `json:"google_business_url"`
	GoogleMapsURL        string            `json:"google_maps_url"`
	WebsiteURL           string            `json:"website_url"`
	SocialMedia          map[string]string `json:"social_media_links"`
	BusinessRegistration string            `json:"business_registration"`
	AdditionalInfo       string            `json:"additional_info"`
}

func (h *VerificationHandler) Submit(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request SubmitVerificationRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON", "details": err.Error()})
	}

	data := model.VerificationData{
		GoogleBusinessURL:    request.GoogleBusinessURL,
		GoogleMapsURL:        request.GoogleMapsURL,
		WebsiteURL:           request.WebsiteURL,
		BusinessRegistration: request.BusinessRegistration,
		AdditionalInfo:       request.AdditionalInfo,
		SocialMediaLinks: model.SocialMediaLinks{
			Facebook:  request.SocialMedia["facebook"],
			Instagram: request.SocialMedia["instagram"],
			Twitter:   request.SocialMedia["twitter"],
			LinkedIn:  request.SocialMedia["linkedin"],
		},
	}

	result, err := h.verificationService.Submit(c.Context(), userID, data)
	if err != nil {
		return h.mapVerificationError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":             "Verification details submitted successfully",
		"verification_status": result.Status,
		"auto_approved":       result.AutoApproved,
		"decision":            result.Decision,
	})
}

func (h *VerificationHandler) Status(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := h.verificationService.Status(c.Context(), userID)
	if err != nil {
		return h.mapVerificationError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"is_verified":         user.IsVerified,
		"verification_status": user.VerificationStatus,
		"verification_notes":  user.VerificationNotes,
		"verified_at":         user.VerifiedAt,
	})
}

type DocumentUploadRequest struct {
	FileName string `json:"file_name" validate:"required"`
	Kind     string `json:"kind" validate:"required,oneof=id_proof certification_proof address_proof"`
}

// DocumentUploadURL hands the client a short-lived presigned PUT URL so
// documents never pass through the API server.
func (h *VerificationHandler) DocumentUploadURL(c *fiber.Ctx) error {
	if h.presigner == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Document storage is not configured"})
	}

	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request DocumentUploadRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	objectKey := fmt.Sprintf("verification/%s/%s/%d_%s", userID, request.Kind, time.Now().Unix(), request.FileName)

	uploadURL, err := h.presigner.UploadURL(objectKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to presign upload"})
	}

	docs := model.VerificationDocuments{}
	switch request.Kind {
	case "id_proof":
		docs.IDProof = objectKey
	case "certification_proof":
		docs.CertificationProof = objectKey
	case "address_proof":
		docs.AddressProof = objectKey
	}

	if err := h.verificationService.AttachDocuments(c.Context(), userID, docs); err != nil {
		return h.mapVerificationError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"upload_url": uploadURL,
		"object_key": objectKey,
	})
}

// Admin endpoints.

func (h *VerificationHandler) ListPending(c *fiber.Ctx) error {
	providers, err := h.verificationService.ListProviders(c.Context(), model.VerificationPending)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"providers": providers})
}

func (h *VerificationHandler) ListAll(c *fiber.Ctx) error {
	providers, err := h.verificationService.ListProviders(c.Context(), c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"providers": providers})
}

func (h *VerificationHandler) Check(c *fiber.Ctx) error {
	providerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid provider id"})
	}

	decision, err := h.verificationService.Check(c.Context(), providerID)
	if err != nil {
		return h.mapVerificationError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(decision)
}

type ApproveVerificationRequest struct {
	Notes string `json:"notes"`
}

func (h *VerificationHandler) Approve(c *fiber.Ctx) error {
	adminID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	providerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid provider id"})
	}

	var request ApproveVerificationRequest

	// Notes are optional; an empty body is fine.
	_ = c.BodyParser(&request)

	user, err := h.verificationService.Approve(c.Context(), adminID, providerID, request.Notes)
	if err != nil {
		var blocked *service.ApprovalBlockedError

		if errors.As(err, &blocked) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":    blocked.Error(),
				"findings": blocked.Findings,
				"score":    blocked.Score,
			})
		}

		return h.mapVerificationError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Provider approved successfully",
		"user":    user,
	})
}

type RejectVerificationRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *VerificationHandler) Reject(c *fiber.Ctx) error {
	adminID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	providerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid provider id"})
	}

	var request RejectVerificationRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A rejection reason is required"})
	}

	user, err := h.verificationService.Reject(c.Context(), adminID, providerID, request.Reason)
	if err != nil {
		return h.mapVerificationError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Provider rejected",
		"user":    user,
	})
}

func (h *VerificationHandler) mapVerificationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrPlayersNotVerifiable),
		errors.Is(err, service.ErrNoSubmission),
		errors.Is(err, service.ErrReasonRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
