package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"discloser/internal/config"
	"discloser/internal/db"
	"discloser/internal/metrics"
	"discloser/internal/models"
	"discloser/internal/snapshot"
	"discloser/internal/token"
	"discloser/internal/validation"
)

// tokenRetries bounds collision retries. With 256-bit tokens a single retry
// should never happen in practice.
const tokenRetries = 3

// LinkHandler handles share link lifecycle operations via JSON API.
type LinkHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewLinkHandler creates a new API link handler.
func NewLinkHandler(database *db.DB, cfg *config.Config) *LinkHandler {
	return &LinkHandler{db: database, cfg: cfg}
}

// Create creates a new share link with its disclosure snapshot frozen in.
func (h *LinkHandler) Create(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Kind           string `json:"kind"`
		RecordID       string `json:"record_id"`
		DurationHours  int    `json:"duration_hours"`
		MaxViews       *int   `json:"max_views"`
		DisclosureMode string `json:"disclosure_mode"`
		ExcludeChronic bool   `json:"exclude_chronic"`
		Label          string `json:"label"`
		Note           string `json:"note"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if valid, msg := validation.ValidateCreateLink(body.Kind, body.DurationHours, body.MaxViews, body.DisclosureMode); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	displayName, ok := user.DisclosureName(body.DisclosureMode)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "set the matching name in your profile before using this disclosure mode")
	}

	entries, err := h.buildSnapshot(c, user, body.Kind, body.RecordID, body.ExcludeChronic)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "test record not found")
		}
		var verr *requestError
		if errors.As(err, &verr) {
			return jsonError(c, verr.status, verr.message)
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to build disclosure snapshot")
	}

	now := time.Now()
	link := &models.ShareLink{
		Kind:      body.Kind,
		OwnerID:   user.ID,
		Label:     body.Label,
		Note:      body.Note,
		ShowName:  body.DisclosureMode != models.DisclosureAnonymous,
		MaxViews:  body.MaxViews,
		Snapshot:  entries,
		ExpiresAt: now.Add(time.Duration(body.DurationHours) * time.Hour),
	}
	if link.ShowName {
		link.DisplayName = &displayName
	}

	for range tokenRetries {
		tok, err := token.New()
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to generate token")
		}
		link.Token = tok

		err = h.db.CreateShareLink(c.Context(), link)
		if errors.Is(err, db.ErrDuplicateToken) {
			continue
		}
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to create share link")
		}

		metrics.RecordLinkCreated(link.Kind)
		return jsonSuccess(c, models.NewShareLinkResponse(*link, h.cfg.BaseURL, time.Now()))
	}

	return jsonError(c, fiber.StatusInternalServerError, "failed to allocate a unique token")
}

// requestError carries a status and message out of buildSnapshot.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

func (h *LinkHandler) buildSnapshot(c fiber.Ctx, user *models.User, kind, recordID string, excludeChronic bool) ([]models.DisclosureEntry, error) {
	switch kind {
	case models.KindResult:
		id, err := uuid.Parse(recordID)
		if err != nil {
			return nil, &requestError{fiber.StatusBadRequest, "record_id is required for result links"}
		}
		rec, err := h.db.GetTestRecord(c.Context(), id, user.ID)
		if err != nil {
			return nil, err
		}
		return snapshot.BuildResult(*rec), nil
	default: // status, already validated
		records, err := h.db.ListTestRecords(c.Context(), user.ID)
		if err != nil {
			return nil, err
		}
		return snapshot.BuildStatus(records, excludeChronic), nil
	}
}

// List returns the owner's share links, optionally partitioned by the
// filter query parameter ("active" or "inactive"). Status is recomputed
// from raw fields on every call.
func (h *LinkHandler) List(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	links, err := h.db.ListShareLinksByOwner(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch share links")
	}

	filter := c.Query("filter", "")
	now := time.Now()
	responses := make([]models.ShareLinkResponse, 0, len(links))
	for _, link := range links {
		resp := models.NewShareLinkResponse(link, h.cfg.BaseURL, now)
		switch filter {
		case "active":
			if resp.Status != models.LinkActive {
				continue
			}
		case "inactive":
			if resp.Status == models.LinkActive {
				continue
			}
		}
		responses = append(responses, resp)
	}

	return jsonSuccess(c, responses)
}

// Get returns a single share link owned by the caller.
func (h *LinkHandler) Get(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	link, err := h.db.GetOwnedShareLink(c.Context(), id, user.ID)
	if err != nil {
		// Another owner's link is reported the same as a missing one.
		return jsonError(c, fiber.StatusNotFound, "share link not found")
	}

	return jsonSuccess(c, models.NewShareLinkResponse(*link, h.cfg.BaseURL, time.Now()))
}

// Delete permanently removes a share link, making its token unresolvable.
func (h *LinkHandler) Delete(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid link id")
	}

	if _, err := h.db.GetOwnedShareLink(c.Context(), id, user.ID); err != nil {
		switch {
		case errors.Is(err, db.ErrLinkNotFound):
			return jsonError(c, fiber.StatusNotFound, "share link not found")
		case errors.Is(err, db.ErrNotLinkOwner):
			return jsonError(c, fiber.StatusForbidden, "you do not own this share link")
		default:
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch share link")
		}
	}

	if err := h.db.DeleteShareLink(c.Context(), id, user.ID); err != nil {
		if errors.Is(err, db.ErrLinkNotFound) {
			return jsonError(c, fiber.StatusNotFound, "share link not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete share link")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "share link deleted",
	})
}
