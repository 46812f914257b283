package services

import (
	"context"
	"strings"
	"time"

	"socialfeed/internal/apperrors"
	"socialfeed/internal/models"
	"socialfeed/internal/policy"
	"socialfeed/internal/repositories"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// PostService handles the lifecycle of posts: create, read, update, delete
// and like toggling.
type PostService struct {
	posts  repositories.PostRepository
	users  repositories.UserRepository
	feed   *FeedService
	events EventPublisher
	log    *logrus.Logger
}

// NewPostService creates a new PostService. events may be nil.
func NewPostService(posts repositories.PostRepository, users repositories.UserRepository, feed *FeedService, events EventPublisher, log *logrus.Logger) *PostService {
	return &PostService{
		posts:  posts,
		users:  users,
		feed:   feed,
		events: events,
		log:    log,
	}
}

func cleanContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", apperrors.Validation("Content is required")
	}
	return content, nil
}

// Create stores a new post owned by the caller.
func (s *PostService) Create(ctx context.Context, identity models.Identity, rawContent string) (*models.Post, error) {
	content, err := cleanContent(rawContent)
	if err != nil {
		return nil, err
	}

	// The owner must exist when the post is written; it is not re-checked later.
	if _, err := s.users.GetByID(ctx, identity.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Unauthorized: unknown user")
		}
		return nil, err
	}

	// Likes and comments start empty; counters are derived on read
	post := &models.Post{
		ID:        models.NewID(),
		UserID:    identity.UserID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	// Notify subscribers; a broker failure is logged, not returned
	s.log.WithFields(logrus.Fields{"post_id": post.ID, "user_id": identity.UserID}).Info("post created")
	publishEvent(s.events, s.log, EventPostCreated, map[string]interface{}{
		"post_id": post.ID.String(),
		"user_id": identity.UserID.String(),
	})
	return post, nil
}

// Get returns a single enriched post.
func (s *PostService) Get(ctx context.Context, id models.ID) (*models.EnrichedPost, error) {
	return s.feed.Get(ctx, id)
}

// loadForModeration checks existence before authorization so that a missing
// post always reports NotFound.
func (s *PostService) loadForModeration(ctx context.Context, identity models.Identity, id models.ID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModerate(identity, post.UserID) {
		return nil, apperrors.Forbidden("Forbidden")
	}
	return post, nil
}

// Update replaces the content of a post. Owner or admin only.
func (s *PostService) Update(ctx context.Context, identity models.Identity, id models.ID, rawContent string) (*models.Post, error) {
	post, err := s.loadForModeration(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	content, err := cleanContent(rawContent)
	if err != nil {
		return nil, err
	}

	if err := s.posts.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	post.Content = content

	s.log.WithFields(logrus.Fields{"post_id": id, "user_id": identity.UserID}).Info("post updated")
	publishEvent(s.events, s.log, EventPostUpdated, map[string]interface{}{
		"post_id": id.String(),
		"user_id": identity.UserID.String(),
	})
	return post, nil
}

// Delete removes a post together with its comments and likes. Owner or admin only.
func (s *PostService) Delete(ctx context.Context, identity models.Identity, id models.ID) error {
	post, err := s.loadForModeration(ctx, identity, id)
	if err != nil {
		return err
	}
	// Comments, likes and the post go in a single store transaction
	if err := s.posts.DeleteCascade(ctx, id); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"post_id": id, "user_id": identity.UserID, "owner_id": post.UserID}).Info("post deleted")
	publishEvent(s.events, s.log, EventPostDeleted, map[string]interface{}{
		"post_id":  id.String(),
		"user_id":  identity.UserID.String(),
		"owner_id": post.UserID.String(),
	})
	return nil
}

// ToggleLike adds the caller to the post's like set, or removes them if they
// are already a member, and reports the resulting state.
//
// Two concurrent toggles by the same user may both read the same state; the
// set-union/set-subtract writes keep the set free of duplicates and the last
// write wins.
func (s *PostService) ToggleLike(ctx context.Context, identity models.Identity, id models.ID) (bool, error) {
	if _, err := s.posts.GetByID(ctx, id); err != nil {
		return false, err
	}

	// Membership decides the direction of the toggle
	alreadyLiked, err := s.posts.HasLike(ctx, id, identity.UserID)
	if err != nil {
		return false, err
	}

	eventType := EventPostLiked
	if alreadyLiked {
		err = s.posts.RemoveLike(ctx, id, identity.UserID)
		eventType = EventPostUnliked
	} else {
		err = s.posts.AddLike(ctx, id, identity.UserID)
	}
	if err != nil {
		return false, err
	}

	publishEvent(s.events, s.log, eventType, map[string]interface{}{
		"post_id": id.String(),
		"user_id": identity.UserID.String(),
	})
	return !alreadyLiked, nil
}
