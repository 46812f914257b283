package repositories_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"socialfeed/internal/models"
	"socialfeed/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestDB opens a private in-memory SQLite database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := repositories.Open("sqlite", dsn, quietLogger())
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))
	t.Cleanup(func() { _ = repositories.Close(db) })
	return db
}

func seedUser(t *testing.T, repo repositories.UserRepository, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         models.RoleUser,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func seedPost(t *testing.T, repo repositories.PostRepository, owner models.ID, content string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{UserID: owner, Content: content, CreatedAt: createdAt}
	require.NoError(t, repo.Create(context.Background(), post))
	return post
}
