// Package handlers contains the server-rendered recipient pages and the
// OIDC login flow. Owner-facing JSON endpoints live in handlers/api.
package handlers

import (
	"github.com/gofiber/fiber/v3"

	"discloser/internal/config"
)

// MergeBranding adds site branding fields to template data.
func MergeBranding(data fiber.Map, cfg *config.Config) fiber.Map {
	data["SiteTitle"] = cfg.SiteTitle
	data["SiteTagline"] = cfg.SiteTagline
	return data
}
