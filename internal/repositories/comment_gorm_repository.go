package repositories

import (
	"context"
	"time"

	"socialfeed/internal/apperrors"
	"socialfeed/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{
		db: db,
	}
}

// Create inserts a comment on an existing post. The existence check and the
// insert share one transaction holding a share lock on the post row, so the
// comment cannot be orphaned by a concurrent DeleteCascade.
func (r *GORMCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = models.NewID()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Post must exist and stay put until the insert commits.
		if err := lockPost(tx, comment.PostID, clause.LockingStrengthShare); err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return apperrors.Internal("failed to create comment", errors.Wrapf(err, "post %s", comment.PostID))
		}
		return nil
	})
}

// GetByID retrieves a single comment.
func (r *GORMCommentRepository) GetByID(ctx context.Context, id models.ID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Comment not found", "failed to get comment")
	}
	return &comment, nil
}

// ListByPost returns the comments of a post, oldest first.
func (r *GORMCommentRepository) ListByPost(ctx context.Context, postID models.ID) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list comments", errors.Wrapf(err, "post %s", postID))
	}
	return comments, nil
}

// UpdateText replaces the text of a comment.
func (r *GORMCommentRepository) UpdateText(ctx context.Context, id models.ID, text string) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("text", text)
	if res.Error != nil {
		return apperrors.Internal("failed to update comment", errors.Wrapf(res.Error, "comment %s", id))
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Comment not found")
	}
	return nil
}

// Delete removes a single comment.
func (r *GORMCommentRepository) Delete(ctx context.Context, id models.ID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return apperrors.Internal("failed to delete comment", errors.Wrapf(res.Error, "comment %s", id))
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Comment not found")
	}
	return nil
}
