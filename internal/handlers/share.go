package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"discloser/internal/config"
	"discloser/internal/db"
	"discloser/internal/metrics"
	"discloser/internal/models"
	"discloser/internal/token"
)

// ShareHandler renders the anonymous recipient pages. A recipient holds only
// the token from the share URL; every page view consumes one view from the
// link's budget.
type ShareHandler struct {
	db  *db.DB
	cfg *config.Config
}

// NewShareHandler creates a new recipient page handler.
func NewShareHandler(database *db.DB, cfg *config.Config) *ShareHandler {
	return &ShareHandler{db: database, cfg: cfg}
}

// ViewResult renders a single-result share page.
func (h *ShareHandler) ViewResult(c fiber.Ctx) error {
	return h.view(c, models.KindResult, "share")
}

// ViewStatus renders an aggregated status share page.
func (h *ShareHandler) ViewStatus(c fiber.Ctx) error {
	return h.view(c, models.KindStatus, "status")
}

func (h *ShareHandler) view(c fiber.Ctx, kind, template string) error {
	tok := c.Params("token")
	if !token.Valid(tok) {
		metrics.RecordResolve(kind, metrics.OutcomeNotFound)
		return h.renderFailure(c, fiber.StatusNotFound, "Not Found", "This link does not exist or has been removed.")
	}

	link, err := h.db.ResolveShareLinkByToken(c.Context(), tok, kind)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrLinkNotFound):
			metrics.RecordResolve(kind, metrics.OutcomeNotFound)
			return h.renderFailure(c, fiber.StatusNotFound, "Not Found", "This link does not exist or has been removed.")
		case errors.Is(err, db.ErrLinkExpired):
			metrics.RecordResolve(kind, metrics.OutcomeExpired)
			return h.renderFailure(c, fiber.StatusGone, "Link Expired", "This link has expired")
		case errors.Is(err, db.ErrViewLimitReached):
			metrics.RecordResolve(kind, metrics.OutcomeOverLimit)
			return h.renderFailure(c, fiber.StatusGone, "Link Expired", "Maximum views reached")
		default:
			metrics.RecordResolve(kind, metrics.OutcomeError)
			return err
		}
	}

	metrics.RecordResolve(kind, metrics.OutcomeValid)

	displayName := ""
	if link.ShowName && link.DisplayName != nil {
		displayName = *link.DisplayName
	}

	return c.Render(template, MergeBranding(fiber.Map{
		"Entries":     link.Snapshot,
		"DisplayName": displayName,
		"ExpiresAt":   link.ExpiresAt,
		"Viewed":      link.ViewedLine(),
	}, h.cfg))
}

func (h *ShareHandler) renderFailure(c fiber.Ctx, status int, title, message string) error {
	return c.Status(status).Render("error", MergeBranding(fiber.Map{
		"Title":   title,
		"Message": message,
	}, h.cfg))
}
