// Package auth issues and verifies session tokens
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hotelbooking/backend/internal/models"
)

// ErrInvalidToken is returned for tokens that fail verification
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload of an access token.
// Role flags travel as independent booleans, exactly as they are stored.
type Claims struct {
	Username    string `json:"username"`
	IsAdmin     bool   `json:"adm"`
	IsModerator bool   `json:"mod"`
	IsWorker    bool   `json:"wrk"`
	jwt.RegisteredClaims
}

// Principal converts verified claims into a request principal
func (c *Claims) Principal() (*models.Principal, error) {
	userID, err := strconv.Atoi(c.Subject)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return &models.Principal{
		UserID:          userID,
		Username:        c.Username,
		IsAuthenticated: true,
		IsAdmin:         c.IsAdmin,
		IsModerator:     c.IsModerator,
		IsWorker:        c.IsWorker,
	}, nil
}

// TokenGenerator handles JWT token generation and validation
type TokenGenerator struct {
	secret            []byte
	accessTokenExpiry time.Duration
	now               func() time.Time
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, accessExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:            []byte(secret),
		accessTokenExpiry: accessExpiry,
		now:               time.Now,
	}
}

// GenerateAccessToken signs an access token carrying the user's identity and role flags.
// It returns the token and its expiry time.
func (tg *TokenGenerator) GenerateAccessToken(user *models.User) (string, time.Time, error) {
	now := tg.now()
	expiresAt := now.Add(tg.accessTokenExpiry)

	claims := Claims{
		Username:    user.Username,
		IsAdmin:     user.IsAdmin,
		IsModerator: user.IsModerator,
		IsWorker:    user.IsWorker,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tg.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateAccessToken verifies the signature and expiry of tokenString and returns its claims
func (tg *TokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tg.secret, nil
	}, jwt.WithTimeFunc(tg.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing token id", ErrInvalidToken)
	}

	return claims, nil
}
