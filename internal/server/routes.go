package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"discloser/internal/db"
	"discloser/internal/handlers"
	"discloser/internal/handlers/api"
	"discloser/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(database)

	// Initialize handlers
	linkHandler := api.NewLinkHandler(database, s.Cfg)
	resolveHandler := api.NewResolveHandler(database)
	recordHandler := api.NewRecordHandler(database)
	profileHandler := api.NewProfileHandler(database)
	healthHandler := api.NewHealthHandler(database)
	shareHandler := handlers.NewShareHandler(database, s.Cfg)

	// Auth routes - OIDC is always required for owner access
	if s.Cfg.OIDCIssuer == "" {
		log.Fatal("OIDC_ISSUER is required. Link owners must be authenticated.")
	}

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)

	// Observability
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	s.App.Get("/api/health", healthHandler.Check)

	// Owner API routes - always require authentication
	s.App.Post("/api/links", authMiddleware.RequireAuth, linkHandler.Create)
	s.App.Get("/api/links", authMiddleware.RequireAuth, linkHandler.List)
	s.App.Get("/api/links/:id", authMiddleware.RequireAuth, linkHandler.Get)
	s.App.Delete("/api/links/:id", authMiddleware.RequireAuth, linkHandler.Delete)

	s.App.Post("/api/records", authMiddleware.RequireAuth, recordHandler.Create)
	s.App.Get("/api/records", authMiddleware.RequireAuth, recordHandler.List)
	s.App.Delete("/api/records/:id", authMiddleware.RequireAuth, recordHandler.Delete)

	s.App.Get("/api/profile", authMiddleware.RequireAuth, profileHandler.Show)
	s.App.Put("/api/profile", authMiddleware.RequireAuth, profileHandler.Update)

	// Recipient routes - anonymous, token is the only credential.
	// Every successful view consumes one view from the link's budget.
	s.App.Get("/api/share/:token", resolveHandler.ResolveResult)
	s.App.Get("/api/status/:token", resolveHandler.ResolveStatus)
	s.App.Get("/share/:token", shareHandler.ViewResult)
	s.App.Get("/status/:token", shareHandler.ViewStatus)

	return nil
}
