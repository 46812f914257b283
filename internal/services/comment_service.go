package services

import (
	"context"
	"strings"
	"time"

	"socialfeed/internal/apperrors"
	"socialfeed/internal/models"
	"socialfeed/internal/policy"
	"socialfeed/internal/repositories"

	"github.com/sirupsen/logrus"
)

// CommentService handles the lifecycle of comments on posts.
type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	events   EventPublisher
	log      *logrus.Logger
}

// NewCommentService creates a new CommentService. events may be nil.
func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, events EventPublisher, log *logrus.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		events:   events,
		log:      log,
	}
}

func cleanText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", apperrors.Validation("Text is required")
	}
	return text, nil
}

// Create adds a comment to an existing post. Author id and display name come
// from the caller's identity.
func (s *CommentService) Create(ctx context.Context, identity models.Identity, postID models.ID, rawText string) (*models.Comment, error) {
	text, err := cleanText(rawText)
	if err != nil {
		return nil, err
	}
	// Fail fast on a missing post; the repository re-checks under lock
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	// Display name is captured at write time
	authorName := identity.Username
	if authorName == "" {
		authorName = models.DefaultAuthorName
	}
	comment := &models.Comment{
		ID:         models.NewID(),
		PostID:     postID,
		UserID:     identity.UserID,
		AuthorName: authorName,
		Text:       text,
		CreatedAt:  time.Now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"comment_id": comment.ID, "post_id": postID, "user_id": identity.UserID}).Info("comment created")
	publishEvent(s.events, s.log, EventCommentCreated, map[string]interface{}{
		"comment_id": comment.ID.String(),
		"post_id":    postID.String(),
		"user_id":    identity.UserID.String(),
	})
	return comment, nil
}

// ListByPost returns the comments of a post, oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID models.ID) ([]models.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

// loadForModeration checks the comment's own author, never the parent post's owner.
func (s *CommentService) loadForModeration(ctx context.Context, identity models.Identity, id models.ID) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModerate(identity, comment.UserID) {
		return nil, apperrors.Forbidden("Forbidden")
	}
	return comment, nil
}

// Update replaces the text of a comment. Author or admin only.
func (s *CommentService) Update(ctx context.Context, identity models.Identity, id models.ID, rawText string) (*models.Comment, error) {
	comment, err := s.loadForModeration(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	text, err := cleanText(rawText)
	if err != nil {
		return nil, err
	}
	if err := s.comments.UpdateText(ctx, id, text); err != nil {
		return nil, err
	}
	comment.Text = text

	publishEvent(s.events, s.log, EventCommentUpdated, map[string]interface{}{
		"comment_id": id.String(),
		"post_id":    comment.PostID.String(),
		"user_id":    identity.UserID.String(),
	})
	return comment, nil
}

// Delete removes a comment. Author or admin only.
func (s *CommentService) Delete(ctx context.Context, identity models.Identity, id models.ID) error {
	comment, err := s.loadForModeration(ctx, identity, id)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"comment_id": id, "user_id": identity.UserID}).Info("comment deleted")
	publishEvent(s.events, s.log, EventCommentDeleted, map[string]interface{}{
		"comment_id": id.String(),
		"post_id":    comment.PostID.String(),
		"user_id":    identity.UserID.String(),
	})
	return nil
}
