package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestRequireAuth_NoSession(t *testing.T) {
	app := fiber.New()
	m := NewAuthMiddleware(nil)

	app.Get("/api/links", m.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString("ok")
	})

	// Without session middleware there is no session at all; the request
	// must be rejected before the handler (or the nil db) is touched.
	req := httptest.NewRequest("GET", "/api/links", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
	}
}
