package services

import (
	"testing"

	"github.com/flexoffhq/flexoff/db"
	"github.com/flexoffhq/flexoff/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) (AuthService, db.AuthRepository, *db.GormDB) {
	t.Helper()
	gdb := setupTestDB(t)
	repo := db.NewAuthRepo(gdb)
	return NewAuthService(repo, testConfig()), repo, gdb
}

func TestSignupAndLogin(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	created, err := svc.SignupUser(&models.User{
		Fullname: "Alice Example",
		Username: "  Alice  ",
		Email:    "alice@example.com",
		Password: "s3cretpw",
	})
	require.Nil(t, err)
	assert.Equal(t, "alice", created.Username, "username is normalized")
	assert.Empty(t, created.Password)
	assert.NotEmpty(t, created.HashedPassword)

	login, err := svc.LoginUser(&models.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cretpw",
	})
	require.Nil(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.Equal(t, created.ID, login.ID)
}

func TestSignupRejectsDuplicates(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.SignupUser(&models.User{
		Fullname: "Alice",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cretpw",
	})
	require.Nil(t, err)

	_, err = svc.SignupUser(&models.User{
		Fullname: "Impostor",
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "s3cretpw",
	})
	require.NotNil(t, err)
	assert.Equal(t, 400, err.Status)

	_, err = svc.SignupUser(&models.User{
		Fullname: "Impostor",
		Username: "alice",
		Email:    "alice2@example.com",
		Password: "s3cretpw",
	})
	require.NotNil(t, err)
	assert.Equal(t, 400, err.Status)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.SignupUser(&models.User{
		Fullname: "Alice",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "short",
	})
	require.NotNil(t, err)
	assert.Equal(t, 400, err.Status)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.SignupUser(&models.User{
		Fullname: "Alice",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cretpw",
	})
	require.Nil(t, err)

	_, err = svc.LoginUser(&models.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrongpw",
	})
	require.NotNil(t, err)
	assert.Equal(t, 401, err.Status)

	_, err = svc.LoginUser(&models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "s3cretpw",
	})
	require.NotNil(t, err)
	assert.Equal(t, 401, err.Status)
}

func TestEditUserProfile(t *testing.T) {
	svc, repo, gdb := newTestAuthService(t)
	alice := createTestUser(t, gdb, "alice")
	createTestUser(t, gdb, "bob")

	err := svc.EditUserProfile(alice.ID, &models.EditProfileRequest{
		Fullname: "Alice Renamed",
		Username: "alice",
		Bio:      "still me",
	})
	require.Nil(t, err)

	err = svc.EditUserProfile(alice.ID, &models.EditProfileRequest{
		Fullname: "Alice",
		Username: "bob",
	})
	require.NotNil(t, err)
	assert.Equal(t, 400, err.Status)

	updated, fErr := repo.FindUserByID(alice.ID)
	require.NoError(t, fErr)
	assert.Equal(t, "Alice Renamed", updated.Fullname)
	assert.Equal(t, "still me", updated.Bio)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	err := svc.LogoutUser("alice@example.com", "token-123")
	require.Nil(t, err)
	assert.True(t, repo.IsTokenInBlacklist("token-123"))
}
