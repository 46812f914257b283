package services

import (
	"context"

	"socialfeed/internal/models"
	"socialfeed/internal/repositories"

	"golang.org/x/sync/errgroup"
)

// UserService serves read-only user views.
type UserService struct {
	users repositories.UserRepository
	posts repositories.PostRepository
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository, posts repositories.PostRepository) *UserService {
	return &UserService{
		users: users,
		posts: posts,
	}
}

// Stats returns a user together with their post count and total likes received.
func (s *UserService) Stats(ctx context.Context, id models.ID) (*models.User, models.UserStats, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, models.UserStats{}, err
	}

	// Both counts are independent queries; run them side by side
	var stats models.UserStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.posts.CountByUser(gctx, id)
		stats.TotalPosts = n
		return err
	})
	g.Go(func() error {
		n, err := s.posts.CountLikesReceived(gctx, id)
		stats.TotalLikesReceived = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, models.UserStats{}, err
	}
	return user, stats, nil
}

// List returns every user. Password hashes are never serialized.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}
