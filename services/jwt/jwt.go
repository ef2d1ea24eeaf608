package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// AccessTokenValidity is how long an issued access token stays valid.
const AccessTokenValidity = 24 * time.Hour

// GenerateToken mints a signed access token for the given user id.
func GenerateToken(userID uint, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is empty")
	}
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(AccessTokenValidity).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAndGetClaims verifies the token signature and expiry and
// returns its claim set.
func ValidateAndGetClaims(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// UserIDFromClaims extracts the user id claim. JSON numbers come back
// as float64.
func UserIDFromClaims(claims jwt.MapClaims) (uint, error) {
	v, ok := claims["id"]
	if !ok {
		return 0, fmt.Errorf("token has no id claim")
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("invalid id claim type %T", v)
	}
	return uint(f), nil
}
