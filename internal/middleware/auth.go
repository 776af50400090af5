package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"discloser/internal/db"
)

// AuthMiddleware handles owner authentication via sessions.
type AuthMiddleware struct {
	db *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(database *db.DB) *AuthMiddleware {
	return &AuthMiddleware{db: database}
}

// RequireAuth ensures the caller is an authenticated owner and loads the
// user into locals. API consumers get a 401; recipients never pass through
// here, their routes are anonymous by design.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return unauthorized(c)
	}

	userSub := sess.Get("user_sub")
	if userSub == nil {
		return unauthorized(c)
	}

	user, err := m.db.GetUserBySub(c.Context(), userSub.(string))
	if err != nil {
		sess.Destroy()
		return unauthorized(c)
	}

	c.Locals("user", user)
	return c.Next()
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status": "error",
		"error":  "authentication required",
	})
}
