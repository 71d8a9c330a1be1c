package routes

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/trainsapp/trains-backend/internal/config"
	"github.com/trainsapp/trains-backend/internal/handlers"
	"github.com/trainsapp/trains-backend/internal/middleware"
	"github.com/trainsapp/trains-backend/internal/models"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Health   *handlers.HealthHandler
	Schedule *handlers.ScheduleHandler
	Route    *handlers.RouteHandler
	Stop     *handlers.StopHandler
	Favorite *handlers.FavoriteHandler
	Realtime *handlers.RealtimeHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", h.Auth.Logout)

	jwtProtected := middleware.JWTProtected(cfg)
	adminOnly := middleware.RoleRequired(models.RoleAdmin)

	// Routes — reads public, writes admin-only
	api.Get("/routes", h.Route.List)
	api.Post("/routes", jwtProtected, adminOnly, h.Route.Create)
	api.Patch("/routes/:id", jwtProtected, adminOnly, h.Route.Update)
	api.Delete("/routes/:id", jwtProtected, adminOnly, h.Route.Delete)
	api.Post("/routes/:id/stops", jwtProtected, adminOnly, h.Route.SetStops)

	// Stops
	api.Get("/stops", h.Stop.List)
	api.Post("/stops", jwtProtected, adminOnly, h.Stop.Create)
	api.Patch("/stops/:id", jwtProtected, adminOnly, h.Stop.Update)
	api.Delete("/stops/:id", jwtProtected, adminOnly, h.Stop.Delete)

	// Schedules
	api.Get("/schedules", h.Schedule.List)
	api.Post("/schedules", jwtProtected, adminOnly, h.Schedule.Create)
	api.Patch("/schedules/:id", jwtProtected, adminOnly, h.Schedule.Update)
	api.Delete("/schedules/:id", jwtProtected, adminOnly, h.Schedule.Delete)

	// Favorites — authenticated user scope
	api.Get("/favorites", jwtProtected, h.Favorite.List)
	api.Post("/favorites", jwtProtected, h.Favorite.Add)
	api.Delete("/favorites/:routeId", jwtProtected, h.Favorite.Remove)

	// Realtime change-event stream
	app.Use("/ws", h.Realtime.Upgrade)
	app.Get("/ws", websocket.New(h.Realtime.Serve))
}
