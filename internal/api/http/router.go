package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-desk/internal/api/http/handlers"
	"github.com/spec-kit/query-desk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Admins         *handlers.AdminsHandler
	Queries        *handlers.QueriesHandler
	AdminQueries   *handlers.AdminQueriesHandler
	Payments       *handlers.PaymentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)

	adminAuth := app.Group("/api/admin")
	adminAuth.Post("/register", cfg.Admins.Register)
	adminAuth.Post("/otp", cfg.Admins.RequestOTP)
	adminAuth.Post("/login", cfg.Admins.Login)

	queries := app.Group("/api/queries", cfg.AuthMiddleware.Handle, auth.RequireUser())
	queries.Post("/", cfg.Queries.CreateQuery)
	queries.Get("/", cfg.Queries.ListQueries)
	queries.Get("/status/:status", cfg.Queries.ListQueriesByStatus)

	adminQueries := app.Group("/api/admin/queries", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	adminQueries.Get("/", cfg.AdminQueries.ListQueries)
	adminQueries.Get("/status/:status", cfg.AdminQueries.ListQueriesByStatus)
	adminQueries.Patch("/status", cfg.AdminQueries.UpdateStatus)
	adminQueries.Get("/:id/audit", cfg.AdminQueries.ListAudit)

	payments := app.Group("/api/payments", cfg.AuthMiddleware.Handle)
	payments.Post("/", auth.RequireUser(), cfg.Payments.CreatePayment)
	payments.Get("/", auth.RequireUser(), cfg.Payments.ListMyPayments)
	payments.Get("/admin", auth.RequireAdmin(), cfg.Payments.ListAllPayments)
}
