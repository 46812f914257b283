package services

import (
	"context"
	"sort"

	"socialfeed/internal/models"
	"socialfeed/internal/repositories"
)

// DefaultTopPostsLimit is the size of the top-posts ranking.
const DefaultTopPostsLimit = 5

// FeedService builds the enriched read views of posts. Its Enrich is the only
// place likesCount and commentsCount are computed.
type FeedService struct {
	posts    repositories.PostRepository
	topLimit int
}

// NewFeedService creates a new FeedService. A non-positive topLimit falls back
// to DefaultTopPostsLimit.
func NewFeedService(posts repositories.PostRepository, topLimit int) *FeedService {
	if topLimit <= 0 {
		topLimit = DefaultTopPostsLimit
	}
	return &FeedService{
		posts:    posts,
		topLimit: topLimit,
	}
}

// Enrich converts a loaded post into its presentation form. When
// withComments is false the comment list and commentsCount are left out.
func Enrich(post *models.Post, withComments bool) models.EnrichedPost {
	out := models.EnrichedPost{
		ID:         post.ID,
		UserID:     post.UserID,
		Content:    post.Content,
		CreatedAt:  post.CreatedAt,
		Likes:      post.LikerIDs(),
		Author:     post.Author,
		LikesCount: len(post.LikeSet),
	}
	if withComments {
		comments := post.Comments
		if comments == nil {
			comments = []models.Comment{}
		}
		count := len(comments)
		out.Comments = comments
		out.CommentsCount = &count
	}
	return out
}

// List returns every post, enriched, newest first.
func (s *FeedService) List(ctx context.Context) ([]models.EnrichedPost, error) {
	posts, err := s.posts.ListEnriched(ctx)
	if err != nil {
		return nil, err
	}
	feed := make([]models.EnrichedPost, 0, len(posts))
	for i := range posts {
		feed = append(feed, Enrich(&posts[i], true))
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})
	return feed, nil
}

// Top returns the most liked posts, ties broken newest first.
func (s *FeedService) Top(ctx context.Context) ([]models.EnrichedPost, error) {
	posts, err := s.posts.TopByLikes(ctx, s.topLimit)
	if err != nil {
		return nil, err
	}
	top := make([]models.EnrichedPost, 0, len(posts))
	for i := range posts {
		top = append(top, Enrich(&posts[i], false))
	}
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].LikesCount != top[j].LikesCount {
			return top[i].LikesCount > top[j].LikesCount
		}
		return top[i].CreatedAt.After(top[j].CreatedAt)
	})
	if len(top) > s.topLimit {
		top = top[:s.topLimit]
	}
	return top, nil
}

// Get returns a single enriched post.
func (s *FeedService) Get(ctx context.Context, id models.ID) (*models.EnrichedPost, error) {
	post, err := s.posts.GetEnriched(ctx, id)
	if err != nil {
		return nil, err
	}
	enriched := Enrich(post, true)
	return &enriched, nil
}
