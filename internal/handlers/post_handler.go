package handlers

import (
	"socialfeed/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for posts, the feed and likes.
type PostHandler struct {
	posts    *services.PostService
	feed     *services.FeedService
	comments *services.CommentService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *services.PostService, feed *services.FeedService, comments *services.CommentService) *PostHandler {
	return &PostHandler{posts: posts, feed: feed, comments: comments}
}

// RegisterRoutes registers the post routes. /top is registered before /:id
// so it is not captured as an id.
func (h *PostHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	posts := router.Group("/posts")
	posts.Get("/top", h.HandleTop)
	posts.Get("/", h.HandleList)
	posts.Get("/:id", h.HandleGet)
	posts.Get("/:id/comments", h.HandleComments)
	posts.Post("/", auth, h.HandleCreate)
	posts.Put("/:id", auth, h.HandleUpdate)
	posts.Delete("/:id", auth, h.HandleDelete)
	posts.Post("/:id/like", auth, h.HandleToggleLike)
}

// PostRequest is the body of create and update requests. Content is checked
// by the service after ownership, so it carries no validate tag.
type PostRequest struct {
	Content string `json:"content"`
}

// HandleList returns the enriched feed, newest first.
func (h *PostHandler) HandleList(c *fiber.Ctx) error {
	posts, err := h.feed.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// HandleTop returns the most liked posts.
func (h *PostHandler) HandleTop(c *fiber.Ctx) error {
	posts, err := h.feed.Top(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// HandleGet returns a single enriched post.
func (h *PostHandler) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "post")
	if err != nil {
		return err
	}
	post, err := h.posts.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

// HandleComments returns a post's comments, oldest first.
func (h *PostHandler) HandleComments(c *fiber.Ctx) error {
	id, err := paramID(c, "post")
	if err != nil {
		return err
	}
	comments, err := h.comments.ListByPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(comments)
}

// HandleCreate publishes a new post owned by the caller.
func (h *PostHandler) HandleCreate(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req PostRequest
	if err := parseBody(c, nil, &req); err != nil {
		return err
	}

	post, err := h.posts.Create(c.UserContext(), identity, req.Content)
	if err != nil {
		return err
	}
	// Respond in the same shape as GET /posts/:id
	return c.Status(fiber.StatusCreated).JSON(services.Enrich(post, true))
}

// HandleUpdate replaces a post's content. Owner or admin only.
func (h *PostHandler) HandleUpdate(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "post")
	if err != nil {
		return err
	}
	// An undecodable body counts as empty content: the service reports a
	// missing post or a non-owner before it looks at the content.
	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		req = PostRequest{}
	}

	post, err := h.posts.Update(c.UserContext(), identity, id, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Post updated", "post": post})
}

// HandleDelete removes a post together with its comments and likes.
func (h *PostHandler) HandleDelete(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "post")
	if err != nil {
		return err
	}

	if err := h.posts.Delete(c.UserContext(), identity, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Post and its comments deleted"})
}

// HandleToggleLike likes the post, or unlikes it if the caller already did.
func (h *PostHandler) HandleToggleLike(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "post")
	if err != nil {
		return err
	}

	liked, err := h.posts.ToggleLike(c.UserContext(), identity, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "liked": liked})
}
