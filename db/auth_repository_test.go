package db

import (
	"testing"

	"github.com/flexoffhq/flexoff/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUsernameTakenByOther(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAuthRepo(gdb)
	alice := createTestUser(t, gdb, "alice")
	createTestUser(t, gdb, "bob")

	taken, err := repo.IsUsernameTakenByOther("bob", alice.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	// Keeping your own username is never a conflict.
	taken, err = repo.IsUsernameTakenByOther("alice", alice.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.IsUsernameTakenByOther("carol", alice.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUpdateUserProfile(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAuthRepo(gdb)
	alice := createTestUser(t, gdb, "alice")

	err := repo.UpdateUserProfile(alice.ID, &models.EditProfileRequest{
		Fullname: "Alice Updated",
		Username: "alice2",
		Bio:      "new bio",
	})
	require.NoError(t, err)

	updated, err := repo.FindUserByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Updated", updated.Fullname)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "new bio", updated.Bio)

	err = repo.UpdateUserProfile(99999, &models.EditProfileRequest{Username: "ghost"})
	assert.Error(t, err)
}

func TestFindUserByIDRejectsBlocked(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAuthRepo(gdb)
	alice := createTestUser(t, gdb, "alice")

	require.NoError(t, gdb.DB.Model(&models.User{}).Where("id = ?", alice.ID).Update("is_blocked", true).Error)

	_, err := repo.FindUserByID(alice.ID)
	assert.Error(t, err)
}

func TestTokenBlacklist(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAuthRepo(gdb)

	assert.False(t, repo.IsTokenInBlacklist("some-token"))

	require.NoError(t, repo.AddToBlackList(&models.Blacklist{
		Email: "alice@example.com",
		Token: "some-token",
	}))

	assert.True(t, repo.IsTokenInBlacklist("some-token"))
	assert.False(t, repo.IsTokenInBlacklist("other-token"))
}
