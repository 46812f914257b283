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

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

func commentsOldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

func (r *GORMPostRepository) enriched(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", commentsOldestFirst).
		Preload("LikeSet")
}

// Create inserts a new post.
func (r *GORMPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = models.NewID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return apperrors.Internal("failed to create post", errors.Wrap(err, "insert post"))
	}
	return nil
}

// GetByID retrieves the bare post record.
func (r *GORMPostRepository) GetByID(ctx context.Context, id models.ID) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Post not found", "failed to get post")
	}
	return &post, nil
}

// GetEnriched retrieves a post with its author, comments and like set.
func (r *GORMPostRepository) GetEnriched(ctx context.Context, id models.ID) (*models.Post, error) {
	var post models.Post
	if err := r.enriched(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Post not found", "failed to get post")
	}
	return &post, nil
}

// ListEnriched returns every post, newest first.
func (r *GORMPostRepository) ListEnriched(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.enriched(ctx).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, apperrors.Internal("failed to list posts", errors.Wrap(err, "select posts"))
	}
	return posts, nil
}

// TopByLikes ranks posts in the store and loads the winners.
func (r *GORMPostRepository) TopByLikes(ctx context.Context, limit int) ([]models.Post, error) {
	var ranked []struct {
		ID models.ID
	}
	err := r.db.WithContext(ctx).
		Table("posts").
		Select("posts.id AS id").
		Joins("LEFT JOIN post_likes ON post_likes.post_id = posts.id").
		Group("posts.id, posts.created_at").
		Order("COUNT(post_likes.user_id) DESC, posts.created_at DESC").
		Limit(limit).
		Scan(&ranked).Error
	if err != nil {
		return nil, apperrors.Internal("failed to rank posts", errors.Wrap(err, "rank posts by likes"))
	}
	if len(ranked) == 0 {
		return []models.Post{}, nil
	}

	ids := make([]models.ID, len(ranked))
	position := make(map[models.ID]int, len(ranked))
	for i, row := range ranked {
		ids[i] = row.ID
		position[row.ID] = i
	}

	var loaded []models.Post
	if err := r.db.WithContext(ctx).Preload("Author").Preload("LikeSet").
		Where("id IN ?", ids).Find(&loaded).Error; err != nil {
		return nil, apperrors.Internal("failed to load top posts", errors.Wrap(err, "load ranked posts"))
	}

	// Restore the ranking order; a post deleted between the two queries is skipped.
	posts := make([]models.Post, 0, len(loaded))
	slots := make([]*models.Post, len(ranked))
	for i := range loaded {
		slots[position[loaded[i].ID]] = &loaded[i]
	}
	for _, p := range slots {
		if p != nil {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

// UpdateContent replaces the content of a post.
func (r *GORMPostRepository) UpdateContent(ctx context.Context, id models.ID, content string) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return apperrors.Internal("failed to update post", errors.Wrapf(res.Error, "post %s", id))
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Post not found")
	}
	return nil
}

// DeleteCascade deletes comments first so that no comment can ever reference a
// missing post, even if the transaction is not honoured by the driver. The post
// row is locked for update before anything is removed, so comment and like
// inserts holding a share lock on it either finish first and are swept up, or
// wait and then see the post gone.
func (r *GORMPostRepository) DeleteCascade(ctx context.Context, id models.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPost(tx, id, clause.LockingStrengthUpdate); err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return apperrors.Internal("failed to delete comments of post", errors.Wrapf(err, "post %s", id))
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return apperrors.Internal("failed to delete likes of post", errors.Wrapf(err, "post %s", id))
		}
		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return apperrors.Internal("failed to delete post", errors.Wrapf(res.Error, "post %s", id))
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("Post not found")
		}
		return nil
	})
}

// lockPost reads the post row inside tx with the given lock strength and
// reports NotFound when it is gone. SQLite ignores the locking clause; its
// single writer gives the same guarantee.
func lockPost(tx *gorm.DB, id models.ID, strength string) error {
	var post models.Post
	err := tx.Clauses(clause.Locking{Strength: strength}).
		Select("id").
		First(&post, "id = ?", id).Error
	if err != nil {
		return notFoundOr(err, "Post not found", "failed to lock post")
	}
	return nil
}

// HasLike reports whether userID is in the like set of postID.
func (r *GORMPostRepository) HasLike(ctx context.Context, postID, userID models.ID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&n).Error
	if err != nil {
		return false, apperrors.Internal("failed to read like set", errors.Wrapf(err, "post %s user %s", postID, userID))
	}
	return n > 0, nil
}

// AddLike is a set-union: adding an existing member is a no-op. The post is
// checked and share-locked in the same transaction as the insert, so a like can
// never outlive a concurrent DeleteCascade.
func (r *GORMPostRepository) AddLike(ctx context.Context, postID, userID models.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPost(tx, postID, clause.LockingStrengthShare); err != nil {
			return err
		}
		like := models.PostLike{PostID: postID, UserID: userID, CreatedAt: time.Now()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
			return apperrors.Internal("failed to add like", errors.Wrapf(err, "post %s user %s", postID, userID))
		}
		return nil
	})
}

// RemoveLike is a set-subtract: removing a non-member is a no-op.
func (r *GORMPostRepository) RemoveLike(ctx context.Context, postID, userID models.ID) error {
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostLike{}).Error
	if err != nil {
		return apperrors.Internal("failed to remove like", errors.Wrapf(err, "post %s user %s", postID, userID))
	}
	return nil
}

// CountByUser returns how many posts userID owns.
func (r *GORMPostRepository) CountByUser(ctx context.Context, userID models.ID) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, apperrors.Internal("failed to count posts", errors.Wrapf(err, "user %s", userID))
	}
	return n, nil
}

// CountLikesReceived sums the like-set sizes of every post owned by userID.
func (r *GORMPostRepository) CountLikesReceived(ctx context.Context, userID models.ID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Joins("JOIN posts ON posts.id = post_likes.post_id").
		Where("posts.user_id = ?", userID).
		Count(&n).Error
	if err != nil {
		return 0, apperrors.Internal("failed to count likes", errors.Wrapf(err, "user %s", userID))
	}
	return n, nil
}

func notFoundOr(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(notFoundMsg)
	}
	return apperrors.Internal(internalMsg, errors.WithStack(err))
}
