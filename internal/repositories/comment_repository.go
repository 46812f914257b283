package repositories

import (
	"context"

	"socialfeed/internal/models"
)

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id models.ID) (*models.Comment, error)
	ListByPost(ctx context.Context, postID models.ID) ([]models.Comment, error)
	UpdateText(ctx context.Context, id models.ID, text string) error
	Delete(ctx context.Context, id models.ID) error
}
