package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// defaultJWTSecret applies when no secret is configured - development only
const defaultJWTSecret = "forumhub-dev-secret-change-in-production"

var jwtSecret []byte

// SetJWTSecret installs the signing secret from the loaded configuration.
// Main calls this once at startup; an empty value keeps the development
// default.
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// Claims represents the JWT claims
type Claims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// getJWTSecret returns the configured JWT secret, or the development default
func getJWTSecret() []byte {
	if len(jwtSecret) > 0 {
		return jwtSecret
	}
	return []byte(defaultJWTSecret)
}

// getTokenDuration returns the token validity duration
func getTokenDuration() time.Duration {
	// Default to 24 hours
	return 24 * time.Hour
}

// GenerateToken creates a new JWT token for a user
func GenerateToken(userID uint, email string, username string) (string, error) {
	claims := &Claims{
		UserID:   userID,
		Email:    email,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(getTokenDuration())),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "forumhub",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTSecret())
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return getJWTSecret(), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
