package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Agent          *handlers.AgentHandler
	KB             *handlers.KBHandler
	Settings       *handlers.SettingsHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	authed := cfg.AuthMiddleware.Handle
	staff := auth.RequireRole(domain.RoleAgent, domain.RoleAdmin)
	admin := auth.RequireRole(domain.RoleAdmin)

	tickets := app.Group("/tickets", authed)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Get("/:id/audit", cfg.Tickets.Audit)
	tickets.Post("/:id/reply", staff, cfg.Tickets.Reply)
	tickets.Post("/:id/assign", staff, cfg.Tickets.Assign)

	agent := app.Group("/agent", authed)
	agent.Post("/triage", staff, cfg.Agent.Triage)
	agent.Get("/suggestion/:ticketId", cfg.Agent.Suggestion)

	kb := app.Group("/kb", authed)
	kb.Get("/:id", cfg.KB.Get)
	kb.Get("/", staff, cfg.KB.Search)
	kb.Post("/", admin, cfg.KB.Create)
	kb.Put("/:id", admin, cfg.KB.Update)
	kb.Delete("/:id", admin, cfg.KB.Delete)

	settings := app.Group("/config", authed, admin)
	settings.Get("/", cfg.Settings.Get)
	settings.Put("/", cfg.Settings.Update)

	app.Get("/notifications/stream", authed, cfg.Notifications.Stream)
}
