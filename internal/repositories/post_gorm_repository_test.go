package repositories_test

import (
	"context"
	"testing"
	"time"

	"socialfeed/internal/apperrors"
	"socialfeed/internal/models"
	"socialfeed/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMPostRepository_GetEnriched(t *testing.T) {
	db := newTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	posts := repositories.NewGORMPostRepository(db)
	comments := repositories.NewGORMCommentRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")
	base := time.Now().Add(-time.Hour)
	post := seedPost(t, posts, alice.ID, "hello", base)

	require.NoError(t, comments.Create(ctx, &models.Comment{PostID: post.ID, UserID: bob.ID, AuthorName: "bob", Text: "second", CreatedAt: base.Add(2 * time.Minute)}))
	require.NoError(t, comments.Create(ctx, &models.Comment{PostID: post.ID, UserID: bob.ID, AuthorName: "bob", Text: "first", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, posts.AddLike(ctx, post.ID, bob.ID))

	got, err := posts.GetEnriched(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	assert.Equal(t, "alice", got.Author.Username)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "first", got.Comments[0].Text)
	assert.Equal(t, []models.ID{bob.ID}, got.LikerIDs())

	_, err = posts.GetEnriched(ctx, models.NewID())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGORMPostRepository_MissingAuthorIsKept(t *testing.T) {
	posts := repositories.NewGORMPostRepository(newTestDB(t))
	ghost := models.NewID()
	seedPost(t, posts, ghost, "orphaned author", time.Now())

	list, err := posts.ListEnriched(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Author)
	assert.Equal(t, ghost, list[0].UserID)
}

func TestGORMPostRepository_ListEnrichedNewestFirst(t *testing.T) {
	db := newTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	posts := repositories.NewGORMPostRepository(db)
	alice := seedUser(t, users, "alice")

	base := time.Now().Add(-time.Hour)
	seedPost(t, posts, alice.ID, "oldest", base)
	seedPost(t, posts, alice.ID, "newest", base.Add(2*time.Minute))
	seedPost(t, posts, alice.ID, "middle", base.Add(time.Minute))

	list, err := posts.ListEnriched(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "newest", list[0].Content)
	assert.Equal(t, "middle", list[1].Content)
	assert.Equal(t, "oldest", list[2].Content)
}

func TestGORMPostRepository_LikeSetSemantics(t *testing.T) {
	db := newTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	posts := repositories.NewGORMPostRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")
	post := seedPost(t, posts, alice.ID, "hello", time.Now())

	liked, err := posts.HasLike(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	// Adding twice keeps a single member.
	require.NoError(t, posts.AddLike(ctx, post.ID, bob.ID))
	require.NoError(t, posts.AddLike(ctx, post.ID, bob.ID))
	got, err := posts.GetEnriched(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, got.LikeSet, 1)

	liked, err = posts.HasLike(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	require.NoError(t, posts.RemoveLike(ctx, post.ID, bob.ID))
	require.NoError(t, posts.RemoveLike(ctx, post.ID, bob.ID))
	got, err = posts.GetEnriched(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, got.LikeSet)
}

func TestGORMPostRepository_TopByLikes(t *testing.T) {
	db := newTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	posts := repositories.NewGORMPostRepository(db)
	ctx := context.Background()

	author := seedUser(t, users, "author")
	likers := make([]*models.User, 3)
	for i := range likers {
		likers[i] = seedUser(t, users, "liker"+string(rune('a'+i)))
	}

	base := time.Now().Add(-time.Hour)
	created := make([]*models.Post, 7)
	for i := range created {
		created[i] = seedPost(t, posts, author.ID, "post"+string(rune('0'+i)), base.Add(time.Duration(i)*time.Minute))
	}
	like := func(p *models.Post, n int) {
		for i := 0; i < n; i++ {
			require.NoError(t, posts.AddLike(ctx, p.ID, likers[i].ID))
		}
	}
	like(created[0], 3)
	like(created[1], 1)
	like(created[2], 2)
	like(created[5], 1)

	top, err := posts.TopByLikes(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 5)

	contents := make([]string, len(top))
	for i, p := range top {
		contents[i] = p.Content
	}
	// Equal like counts fall back to newest first; unliked posts trail.
	assert.Equal(t, []string{"post0", "post2", "post5", "post1", "post6"}, contents)
	assert.Len(t, top[0].LikeSet, 3)
	require.NotNil(t, top[0].Author)
	assert.Equal(t, "author", top[0].Author.Username)
}

func TestGORMPostRepository_TopByLikesEmpty(t *testing.T) {
	posts := repositories.NewGORMPostRepository(newTestDB(t))
	top, err := posts.TopByLikes(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, top)
	assert.Empty(t, top)
}

func TestGORMPostRepository_UpdateContent(t *testing.T) {
	posts := repositories.NewGORMPostRepository(newTestDB(t))
	ctx := context.Background()
	post := seedPost(t, posts, models.NewID(), "draft", time.Now())

	require.NoError(t, posts.UpdateContent(ctx, post.ID, "final"))
	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Content)

	assert.ErrorIs(t, posts.UpdateContent(ctx, models.NewID(), "x"), apperrors.ErrNotFound)
}

func TestGORMPostRepository_DeleteCascade(t *testing.T) {
	db := newTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	posts := repositories.NewGORMPostRepository(db)
	comments := repositories.NewGORMCommentRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")
	doomed := seedPost(t, posts, alice.ID, "doomed", time.Now())
	kept := seedPost(t, posts, alice.ID, "kept", time.Now())

	require.NoError(t, comments.Create(ctx, &models.Comment{PostID: doomed.ID, UserID: bob.ID, Text: "a"}))
	require.NoError(t, comments.Create(ctx, &models.Comment{PostID: doomed.ID, UserID: alice.ID, Text: "b"}))
	require.NoError(t, comments.Create(ctx, &models.Comment{PostID: kept.ID, UserID: bob.ID, Text: "c"}))
	require.NoError(t, posts.AddLike(ctx, doomed.ID, bob.ID))

	require.NoError(t, posts.DeleteCascade(ctx, doomed.ID))

	_, err := posts.GetByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	orphans, err := comments.ListByPost(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	var likeRows int64
	require.NoError(t, db.Model(&models.PostLike{}).Where("post_id = ?", doomed.ID).Count(&likeRows).Error)
	assert.Zero(t, likeRows)

	survivors, err := comments.ListByPost(ctx, kept.ID)
	require.NoError(t, err)
	assert.Len(t, survivors, 1)

	assert.ErrorIs(t, posts.DeleteCascade(ctx, doomed.ID), apperrors.ErrNotFound)
}

func TestGORMPostRepository_Counts(t *testing.T) {
	db := newTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	posts := repositories.NewGORMPostRepository(db)
	ctx := context.Background()

	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")
	carol := seedUser(t, users, "carol")
	p1 := seedPost(t, posts, alice.ID, "one", time.Now())
	p2 := seedPost(t, posts, alice.ID, "two", time.Now())
	bobsPost := seedPost(t, posts, bob.ID, "bob's", time.Now())

	require.NoError(t, posts.AddLike(ctx, p1.ID, bob.ID))
	require.NoError(t, posts.AddLike(ctx, p1.ID, carol.ID))
	require.NoError(t, posts.AddLike(ctx, p2.ID, carol.ID))
	require.NoError(t, posts.AddLike(ctx, bobsPost.ID, alice.ID))

	n, err := posts.CountByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	likes, err := posts.CountLikesReceived(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, likes)

	likes, err = posts.CountLikesReceived(ctx, carol.ID)
	require.NoError(t, err)
	assert.Zero(t, likes)
}
