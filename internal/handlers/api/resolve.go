package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"discloser/internal/db"
	"discloser/internal/metrics"
	"discloser/internal/models"
	"discloser/internal/token"
)

// ResolveHandler is the recipient-facing JSON read path. Callers present a
// raw token and nothing else; there is no authentication.
type ResolveHandler struct {
	db *db.DB
}

// NewResolveHandler creates a new API resolve handler.
func NewResolveHandler(database *db.DB) *ResolveHandler {
	return &ResolveHandler{db: database}
}

// ResolveResult resolves a result link token.
func (h *ResolveHandler) ResolveResult(c fiber.Ctx) error {
	return h.resolve(c, models.KindResult)
}

// ResolveStatus resolves a status link token.
func (h *ResolveHandler) ResolveStatus(c fiber.Ctx) error {
	return h.resolve(c, models.KindStatus)
}

func (h *ResolveHandler) resolve(c fiber.Ctx, kind string) error {
	tok := c.Params("token")
	if !token.Valid(tok) {
		metrics.RecordResolve(kind, metrics.OutcomeNotFound)
		return jsonFailure(c, fiber.StatusNotFound, "not_found", "This link does not exist or has been removed.")
	}

	link, err := h.db.ResolveShareLinkByToken(c.Context(), tok, kind)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrLinkNotFound):
			// Wrong token and deleted link are indistinguishable on purpose.
			metrics.RecordResolve(kind, metrics.OutcomeNotFound)
			return jsonFailure(c, fiber.StatusNotFound, "not_found", "This link does not exist or has been removed.")
		case errors.Is(err, db.ErrLinkExpired):
			metrics.RecordResolve(kind, metrics.OutcomeExpired)
			return jsonFailure(c, fiber.StatusGone, "expired", "This link has expired")
		case errors.Is(err, db.ErrViewLimitReached):
			metrics.RecordResolve(kind, metrics.OutcomeOverLimit)
			return jsonFailure(c, fiber.StatusGone, "over_limit", "Maximum views reached")
		default:
			metrics.RecordResolve(kind, metrics.OutcomeError)
			return jsonError(c, fiber.StatusInternalServerError, "failed to resolve link")
		}
	}

	metrics.RecordResolve(kind, metrics.OutcomeValid)

	resp := models.ResolveResponse{
		Kind:      link.Kind,
		Snapshot:  link.Snapshot,
		ExpiresAt: link.ExpiresAt,
		ViewCount: link.ViewCount,
		Viewed:    link.ViewedLine(),
	}
	if link.ShowName {
		resp.DisplayName = link.DisplayName
	}

	return jsonSuccess(c, resp)
}
