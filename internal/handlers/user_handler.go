package handlers

import (
	"socialfeed/internal/middleware"
	"socialfeed/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles account registration, login and user queries.
type UserHandler struct {
	authService *services.AuthService
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, userService *services.UserService, validate *validator.Validate) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
		validate:    validate,
	}
}

// RegisterRoutes registers the user routes. auth guards the protected ones.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	users := router.Group("/users")
	users.Post("/register", h.HandleRegister)
	users.Post("/login", h.HandleLogin)
	users.Get("/:id/stats", auth, h.HandleStats)
	users.Get("/", auth, middleware.AdminRequired(), h.HandleList)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister handles new user registration.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}

	// Role, bio and avatar defaults are applied by the service
	user, err := h.authService.Register(c.UserContext(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	// PasswordHash is tagged json:"-" and never leaves the server
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":  "Login successful",
		"token":    result.Token,
		"userId":   result.UserID,
		"username": result.Username,
	})
}

// HandleStats returns a user's profile with post and like totals.
func (h *UserHandler) HandleStats(c *fiber.Ctx) error {
	id, err := paramID(c, "user")
	if err != nil {
		return err
	}

	user, stats, err := h.userService.Stats(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user, "stats": stats})
}

// HandleList returns every user. Admin only.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	users, err := h.userService.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}
