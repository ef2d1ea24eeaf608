package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAndGetClaims(token, "secret")
	require.NoError(t, err)

	userID, err := UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.EqualValues(t, 42, userID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(42, "secret")
	require.NoError(t, err)

	_, err = ValidateAndGetClaims(token, "another-secret")
	assert.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	_, err := ValidateAndGetClaims("not-a-token", "secret")
	assert.Error(t, err)
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	_, err := GenerateToken(42, "")
	assert.Error(t, err)
}

func TestUserIDFromClaimsMissing(t *testing.T) {
	claims := map[string]interface{}{"iat": float64(0)}
	_, err := UserIDFromClaims(claims)
	assert.Error(t, err)
}
