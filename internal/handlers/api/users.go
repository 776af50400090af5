package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"discloser/internal/db"
	"discloser/internal/models"
	"discloser/internal/validation"
)

// ProfileHandler manages the owner's disclosure identity fields.
type ProfileHandler struct {
	db *db.DB
}

// NewProfileHandler creates a new API profile handler.
func NewProfileHandler(database *db.DB) *ProfileHandler {
	return &ProfileHandler{db: database}
}

// Show returns the authenticated owner's profile.
func (h *ProfileHandler) Show(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return jsonSuccess(c, user)
}

// Update sets the alias and legal first name used for non-anonymous
// disclosure modes. Existing links keep the display name frozen at creation.
func (h *ProfileHandler) Update(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Alias          string `json:"alias"`
		LegalFirstName string `json:"legal_first_name"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if valid, msg := validation.ValidateProfileName(body.Alias); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if valid, msg := validation.ValidateProfileName(body.LegalFirstName); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	if err := h.db.UpdateUserProfile(c.Context(), user.ID, body.Alias, body.LegalFirstName); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update profile")
	}

	user.Alias = body.Alias
	user.LegalFirstName = body.LegalFirstName
	return jsonSuccess(c, user)
}
