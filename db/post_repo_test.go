package db

import (
	"testing"
	"time"

	"github.com/flexoffhq/flexoff/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLike(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewPostRepo(gdb)
	author := createTestUser(t, gdb, "author")
	fan := createTestUser(t, gdb, "fan")

	post := &models.Post{UserID: author.ID, Content: "first post"}
	require.NoError(t, repo.CreatePost(post))

	liked, err := repo.ToggleLike(post.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	var likeCount int64
	require.NoError(t, gdb.DB.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeCount).Error)
	assert.EqualValues(t, 1, likeCount)

	// Second toggle undoes the like.
	liked, err = repo.ToggleLike(post.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, gdb.DB.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeCount).Error)
	assert.EqualValues(t, 0, likeCount)
}

func TestGetExpiredImagePosts(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewPostRepo(gdb)
	author := createTestUser(t, gdb, "author")

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	expiredURL := "https://bucket.s3.eu-west-2.amazonaws.com/post-images/1/old.jpg"
	freshURL := "https://bucket.s3.eu-west-2.amazonaws.com/post-images/1/new.jpg"

	expired := &models.Post{UserID: author.ID, Content: "old", ImageURL: &expiredURL, ImageExpiresAt: &past}
	fresh := &models.Post{UserID: author.ID, Content: "new", ImageURL: &freshURL, ImageExpiresAt: &future}
	bare := &models.Post{UserID: author.ID, Content: "no image"}
	require.NoError(t, repo.CreatePost(expired))
	require.NoError(t, repo.CreatePost(fresh))
	require.NoError(t, repo.CreatePost(bare))

	got, err := repo.GetExpiredImagePosts(now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, expired.ID, got[0].ID)

	require.NoError(t, repo.ClearPostImage(expired.ID))
	cleared, err := repo.FindPostByID(expired.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.ImageURL)
	assert.Nil(t, cleared.ImageExpiresAt)
}

func TestGetRecentPostContents(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewPostRepo(gdb)
	author := createTestUser(t, gdb, "author")

	contents := []string{"one #go", "two #go #web", "three"}
	for _, content := range contents {
		require.NoError(t, repo.CreatePost(&models.Post{UserID: author.ID, Content: content}))
	}

	got, err := repo.GetRecentPostContents(10)
	require.NoError(t, err)
	assert.ElementsMatch(t, contents, got)

	limited, err := repo.GetRecentPostContents(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
