package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/selimerdal/taskhub-backend/internal/config"
	"github.com/selimerdal/taskhub-backend/internal/handlers"
	"github.com/selimerdal/taskhub-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	reportHandler *handlers.ReportHandler,
	notificationHandler *handlers.NotificationHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Auth — protected
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Post("/auth/change-password", middleware.JWTProtected(cfg), authHandler.ChangePassword)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)

	// Tasks
	protected := api.Group("", middleware.JWTProtected(cfg))
	protected.Post("/tasks", taskHandler.Create)
	protected.Get("/tasks", taskHandler.List)
	protected.Get("/tasks/:id", taskHandler.Get)
	protected.Patch("/tasks/:id/status", taskHandler.UpdateStatus)
	// Assignee-side deletion of a confirmed task
	protected.Delete("/tasks/:id/confirmed", taskHandler.DeleteConfirmed)

	// Reports (assignee surface)
	protected.Post("/tasks/:taskId/report", reportHandler.Create)
	protected.Get("/tasks/:taskId/report", reportHandler.GetForTask)
	protected.Put("/reports/:id", reportHandler.Update)
	protected.Post("/reports/:id/submit", reportHandler.Submit)
	protected.Delete("/reports/:id", reportHandler.Delete)

	// Notifications
	protected.Get("/notifications", notificationHandler.List)
	protected.Get("/notifications/unread-count", notificationHandler.UnreadCount)
	protected.Patch("/notifications/:id/read", notificationHandler.MarkRead)
	protected.Patch("/notifications/read-all", notificationHandler.MarkAllRead)
	protected.Delete("/notifications/:id", notificationHandler.Delete)

	// Admin surface
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db))
	admin.Put("/tasks/:id", taskHandler.Update)
	admin.Delete("/tasks/:id", taskHandler.Delete)
	admin.Get("/reports", reportHandler.List)
	admin.Post("/reports/:id/resolve", reportHandler.Resolve)
}
