package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	History        *handlers.HistoryHandler
	Workspaces     *handlers.WorkspacesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	manager := auth.RequireRole(domain.UserRoleManager)

	protected.Get("/auth/me", cfg.Users.Me)
	protected.Post("/auth/password/change", cfg.Users.ChangePassword)

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Post("/review", manager, cfg.Tickets.ReviewTicket)
	tickets.Post("/approve", manager, cfg.Tickets.ApproveTicket)
	tickets.Post("/update-details", cfg.Tickets.UpdateTicketDetails)
	tickets.Post("/suggest-severity", cfg.Tickets.SuggestSeverity)
	tickets.Post("/import-statuses", manager, cfg.Tickets.ImportStatuses)
	tickets.Get("/number/:number", cfg.Tickets.GetTicketByNumber)
	tickets.Get("/:uuid", cfg.Tickets.GetTicket)
	tickets.Get("/:uuid/can-review", cfg.Tickets.CanReview)
	tickets.Get("/:uuid/history", cfg.Tickets.History)

	protected.Get("/history/recent", cfg.History.Recent)

	users := protected.Group("/users")
	users.Get("/:uuid/history", cfg.History.ByUser)
	users.Get("/:uuid/workspaces", cfg.Workspaces.ForUser)

	workspaces := protected.Group("/workspaces")
	workspaces.Post("", cfg.Workspaces.Create)
	workspaces.Get("/:uuid/tickets", cfg.Tickets.ListWorkspaceTickets)
	workspaces.Post("/:uuid/tickets/export-pending", manager, cfg.Tickets.ExportPending)
	workspaces.Get("/:uuid/members", cfg.Workspaces.Members)
	workspaces.Post("/:uuid/members", manager, cfg.Workspaces.AddMember)
	workspaces.Delete("/:uuid/members/:userUuid", manager, cfg.Workspaces.RemoveMember)
}

// NewApp builds a fiber app with the standard middleware chain.
func NewApp(opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               opts.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, opts.Logger, opts.Metrics, opts.Timeout)
	return app
}
