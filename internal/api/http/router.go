package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/api/http/handlers"
	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Courses        *handlers.CoursesHandler
	Enrollments    *handlers.EnrollmentsHandler
	AuthMiddleware *auth.Middleware
}

// AccessPolicy is the static authorization table consulted on every request
// after authentication. Ordered, first match wins; anything unmatched and
// not public requires an authenticated principal.
func AccessPolicy() *auth.Policy {
	adminOnly := auth.RequireRole(domain.RoleAdmin)
	staff := auth.RequireRole(domain.RoleAdmin, domain.RoleInstructor)

	public := []auth.Rule{
		{Method: fiber.MethodPost, Pattern: "/auth/login"},
		{Method: fiber.MethodPost, Pattern: "/auth/register"},
		{Pattern: "/health/**"},
	}

	rules := []auth.Rule{
		{Method: fiber.MethodGet, Pattern: "/users/*/enrollments", Allow: auth.Authenticated()},
		{Pattern: "/users/**", Allow: adminOnly},

		{Method: fiber.MethodPost, Pattern: "/courses", Allow: staff},
		{Method: fiber.MethodPut, Pattern: "/courses/*", Allow: staff},
		{Method: fiber.MethodDelete, Pattern: "/courses/*", Allow: staff},

		{Method: fiber.MethodPut, Pattern: "/enrollments/*", Allow: staff},
		{Method: fiber.MethodPatch, Pattern: "/enrollments/*/status", Allow: staff},
		{Method: fiber.MethodDelete, Pattern: "/enrollments/*", Allow: adminOnly},
	}

	return auth.NewPolicy(public, rules)
}

// RegisterRoutes wires HTTP routes behind the authenticator and the policy.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Authenticate)
	app.Use(AccessPolicy().Enforce())

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)

	users := app.Group("/users")
	users.Post("", cfg.Users.Create)
	users.Get("", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
	users.Get("/:id/roles", cfg.Users.GetRoles)
	users.Post("/:id/roles", cfg.Users.GrantRole)
	users.Delete("/:id/roles/:label", cfg.Users.RevokeRole)
	users.Get("/:id/enrollments", cfg.Enrollments.ListByUser)

	courses := app.Group("/courses")
	courses.Post("", cfg.Courses.Create)
	courses.Get("", cfg.Courses.List)
	courses.Get("/:id", cfg.Courses.Get)
	courses.Put("/:id", cfg.Courses.Update)
	courses.Delete("/:id", cfg.Courses.Delete)
	courses.Get("/:id/enrollments", cfg.Enrollments.ListByCourse)

	enrollments := app.Group("/enrollments")
	enrollments.Post("", cfg.Enrollments.Create)
	enrollments.Get("", cfg.Enrollments.List)
	enrollments.Get("/:id", cfg.Enrollments.Get)
	enrollments.Put("/:id", cfg.Enrollments.Update)
	enrollments.Patch("/:id/status", cfg.Enrollments.UpdateStatus)
	enrollments.Delete("/:id", cfg.Enrollments.Delete)
}
