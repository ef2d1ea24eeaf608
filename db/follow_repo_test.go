package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleFollow(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewFollowRepo(gdb)
	alice := createTestUser(t, gdb, "alice")
	bob := createTestUser(t, gdb, "bob")

	following, err := repo.ToggleFollow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	isFollowing, err := repo.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, isFollowing)

	// Follow relations are directional.
	isFollowing, err = repo.IsFollowing(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, isFollowing)

	following, err = repo.ToggleFollow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	isFollowing, err = repo.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, isFollowing)
}

func TestFollowCounts(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewFollowRepo(gdb)
	alice := createTestUser(t, gdb, "alice")
	bob := createTestUser(t, gdb, "bob")
	carol := createTestUser(t, gdb, "carol")

	_, err := repo.ToggleFollow(alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = repo.ToggleFollow(bob.ID, carol.ID)
	require.NoError(t, err)
	_, err = repo.ToggleFollow(carol.ID, alice.ID)
	require.NoError(t, err)

	followers, err := repo.GetFollowerCount(carol.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, followers)

	following, err := repo.GetFollowingCount(carol.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, following)
}
