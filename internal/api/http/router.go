package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/blog-dashboard/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Dashboard      *handlers.DashboardHandler
	Users          *handlers.UsersHandler
	Posts          *handlers.PostsHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The dashboard and its user operations
// stay open; the post lifecycle API requires an admin token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/", cfg.Dashboard.Page)
	app.Post("/dashboard/users", cfg.Dashboard.CreateUser)
	app.Post("/dashboard/users/:id/delete", cfg.Dashboard.DeleteUser)

	api := app.Group("/api")
	api.Post("/auth/login", cfg.Auth.Login)

	api.Get("/users", cfg.Users.List)
	api.Post("/users", cfg.Users.Create)
	api.Get("/users/:id", cfg.Users.Get)
	api.Delete("/users/:id", cfg.Users.Delete)

	posts := api.Group("/posts", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	posts.Get("/", cfg.Posts.List)
	posts.Post("/", cfg.Posts.Create)
	posts.Get("/:id", cfg.Posts.Get)
	posts.Put("/:id", cfg.Posts.Edit)
	posts.Post("/:id/publish", cfg.Posts.Publish)
	posts.Post("/:id/unpublish", cfg.Posts.Unpublish)
	posts.Delete("/:id", cfg.Posts.Delete)
	posts.Put("/:id/visibility", cfg.Posts.SetVisibility)
}
