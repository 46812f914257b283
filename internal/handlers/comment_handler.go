package handlers

import (
	"socialfeed/internal/apperrors"
	"socialfeed/internal/models"
	"socialfeed/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	service  *services.CommentService
	validate *validator.Validate
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service *services.CommentService, validate *validator.Validate) *CommentHandler {
	return &CommentHandler{service: service, validate: validate}
}

// RegisterRoutes registers the comment routes. auth is attached per route so
// unmatched paths under /comments still fall through to NotFound.
func (h *CommentHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	comments := router.Group("/comments")
	comments.Post("/", auth, h.HandleCreate)
	comments.Put("/:id", auth, h.HandleUpdate)
	comments.Delete("/:id", auth, h.HandleDelete)
}

// CreateCommentRequest represents the request body for adding a comment.
type CreateCommentRequest struct {
	PostID string `json:"post_id" validate:"required"`
	Text   string `json:"text"`
}

// UpdateCommentRequest represents the request body for editing a comment.
type UpdateCommentRequest struct {
	Text string `json:"text"`
}

// HandleCreate adds a comment to a post on behalf of the caller.
func (h *CommentHandler) HandleCreate(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req CreateCommentRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}
	// post_id arrives in the body, not the path
	postID, err := models.ParseID(req.PostID)
	if err != nil {
		return apperrors.Validation("Invalid post_id")
	}

	comment, err := h.service.Create(c.UserContext(), identity, postID, req.Text)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added",
		"comment": comment,
	})
}

// HandleUpdate replaces a comment's text. Comment author or admin only.
func (h *CommentHandler) HandleUpdate(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "comment")
	if err != nil {
		return err
	}
	// Same as posts: a bad body never hides a 404 or 403.
	var req UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		req = UpdateCommentRequest{}
	}

	comment, err := h.service.Update(c.UserContext(), identity, id, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Comment updated", "comment": comment})
}

// HandleDelete removes a single comment. Comment author or admin only.
func (h *CommentHandler) HandleDelete(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "comment")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), identity, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
