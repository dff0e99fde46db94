package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hotelbooking/backend/internal/models"
	"github.com/hotelbooking/backend/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the interface that wraps methods for Users table data access
type UserRepository interface {
	// Method Create inserts a new user into the database and sets its ID.
	//
	// If a user with the same username or email exists, an error wrapping models.ErrAlreadyExists is returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByLogin retrieves a user by username or email.
	//
	// If no user matches, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
}

// TokenIssuer is the interface that wraps access token generation
type TokenIssuer interface {
	// Method GenerateAccessToken signs a token for the user and returns it with its expiry.
	GenerateAccessToken(user *models.User) (string, time.Time, error)
}

// TokenRevoker is the interface that wraps access token revocation
type TokenRevoker interface {
	// Method Revoke marks the token ID as unusable until expiresAt.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// DenialTracker is the interface that wraps the access denial notifier
type DenialTracker interface {
	// Method Forget drops the denial history of a subject.
	Forget(subject string)
}

type authService struct {
	userRepo UserRepository
	tokens   TokenIssuer
	revoker  TokenRevoker
	denials  DenialTracker
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	tokens TokenIssuer,
	revoker TokenRevoker,
	denials DenialTracker,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		revoker:  revoker,
		denials:  denials,
		logger:   logger,
	}
}

// Register creates a new user account without any role flags
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Int("userId", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login authenticates a user by username or email and issues an access token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	req.Login = strings.TrimSpace(req.Login)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	// A new session starts without the denials of an earlier one
	if s.denials != nil {
		s.denials.Forget(user.Username)
	}

	return &models.LoginResponse{AccessToken: token, ExpiresAt: expiresAt.Unix()}, nil
}

// Logout revokes the session token and resets the principal's denial history
func (s *authService) Logout(ctx context.Context, principal *models.Principal, tokenID string, expiresAt time.Time) error {
	if err := s.revoker.Revoke(ctx, tokenID, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if principal != nil && s.denials != nil {
		s.denials.Forget(principal.Username)
	}
	return nil
}
