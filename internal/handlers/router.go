package handlers

import (
	"time"

	"socialfeed/internal/middleware"
	"socialfeed/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

// Services bundles what the HTTP layer depends on.
type Services struct {
	Auth     *services.AuthService
	Users    *services.UserService
	Posts    *services.PostService
	Feed     *services.FeedService
	Comments *services.CommentService
}

// NewApp builds the Fiber app with every route mounted under apiPrefix.
func NewApp(svc Services, apiPrefix string, log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "socialfeed",
		ErrorHandler:          ErrorHandler(log),
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: log.Out})) // Request logger

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- API Routes ---
	validate := validator.New()
	auth := middleware.AuthRequired(svc.Auth)

	api := app.Group(apiPrefix)
	NewUserHandler(svc.Auth, svc.Users, validate).RegisterRoutes(api, auth)
	NewPostHandler(svc.Posts, svc.Feed, svc.Comments).RegisterRoutes(api, auth)
	NewCommentHandler(svc.Comments, validate).RegisterRoutes(api, auth)

	// Anything still unmatched is an unknown endpoint
	app.Use(NotFound)
	return app
}
