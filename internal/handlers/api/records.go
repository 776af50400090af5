package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"discloser/internal/db"
	"discloser/internal/models"
	"discloser/internal/validation"
)

// RecordHandler manages the owner's live test record history.
type RecordHandler struct {
	db *db.DB
}

// NewRecordHandler creates a new API record handler.
func NewRecordHandler(database *db.DB) *RecordHandler {
	return &RecordHandler{db: database}
}

// Create adds a record to the owner's history.
func (h *RecordHandler) Create(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Name         string    `json:"name"`
		Status       string    `json:"status"`
		Result       string    `json:"result"`
		TestedAt     time.Time `json:"tested_at"`
		Verified     bool      `json:"verified"`
		Chronic      bool      `json:"chronic"`
		TreatmentIDs []string  `json:"treatment_ids"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if valid, msg := validation.ValidateTestRecord(body.Name, body.Status); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if body.TestedAt.IsZero() {
		body.TestedAt = time.Now()
	}

	rec := &models.TestRecord{
		OwnerID:      user.ID,
		Name:         body.Name,
		Status:       body.Status,
		Result:       body.Result,
		TestedAt:     body.TestedAt,
		Verified:     body.Verified,
		Chronic:      body.Chronic,
		TreatmentIDs: body.TreatmentIDs,
	}
	if rec.TreatmentIDs == nil {
		rec.TreatmentIDs = []string{}
	}

	if err := h.db.CreateTestRecord(c.Context(), rec); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create test record")
	}

	return jsonSuccess(c, rec)
}

// List returns the owner's current record history.
func (h *RecordHandler) List(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	records, err := h.db.ListTestRecords(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch test records")
	}
	if records == nil {
		records = []models.TestRecord{}
	}

	return jsonSuccess(c, records)
}

// Delete removes a record. Existing share link snapshots keep their copies.
func (h *RecordHandler) Delete(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid record id")
	}

	if err := h.db.DeleteTestRecord(c.Context(), id, user.ID); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "test record not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete test record")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "test record deleted",
	})
}
