package repositories

import (
	"context"

	"socialfeed/internal/models"
)

// PostRepository defines the interface for post and like-set data access.
//
// Methods named Enriched preload the author, comments (oldest first) and the
// like set. Missing authors leave Post.Author nil.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id models.ID) (*models.Post, error)
	GetEnriched(ctx context.Context, id models.ID) (*models.Post, error)
	ListEnriched(ctx context.Context) ([]models.Post, error)
	// TopByLikes returns up to limit posts ranked by like-set size, then
	// newest first, with author and like set preloaded.
	TopByLikes(ctx context.Context, limit int) ([]models.Post, error)
	UpdateContent(ctx context.Context, id models.ID, content string) error
	// DeleteCascade removes the post's comments, its like set and then the post.
	DeleteCascade(ctx context.Context, id models.ID) error

	HasLike(ctx context.Context, postID, userID models.ID) (bool, error)
	AddLike(ctx context.Context, postID, userID models.ID) error
	RemoveLike(ctx context.Context, postID, userID models.ID) error

	CountByUser(ctx context.Context, userID models.ID) (int64, error)
	CountLikesReceived(ctx context.Context, userID models.ID) (int64, error)
}
