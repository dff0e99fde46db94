package services

import (
	"context"
	"fmt"

	"github.com/hotelbooking/backend/internal/models"
	"go.uber.org/zap"
)

// AdminUserRepository is the interface that wraps user management data access
type AdminUserRepository interface {
	// Method List retrieves all users without password hashes.
	List(ctx context.Context) ([]models.User, error)
	// Method UpdateRoles changes the role flags present in req.
	//
	// If the user does not exist, an error wrapping models.ErrNotFound is returned.
	UpdateRoles(ctx context.Context, id int, req *models.UpdateRolesRequest) error
}

type adminService struct {
	repo   AdminUserRepository
	logger *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(repo AdminUserRepository, logger *zap.Logger) *adminService {
	return &adminService{
		repo:   repo,
		logger: logger,
	}
}

// ListUsers retrieves every user with their role flags
func (s *adminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateRoles grants or revokes role flags of a user.
// An admin cannot revoke their own admin flag.
// The change applies from the user's next login; a token already issued keeps its role claims until it expires.
func (s *adminService) UpdateRoles(ctx context.Context, principal *models.Principal, userID int, req *models.UpdateRolesRequest) error {
	if userID <= 0 {
		return fmt.Errorf("%w: user id must be positive", models.ErrInvalidInput)
	}
	if req.IsAdmin == nil && req.IsModerator == nil && req.IsWorker == nil {
		return fmt.Errorf("%w: no role changes requested", models.ErrInvalidInput)
	}
	if err := authenticated(principal); err != nil {
		return err
	}
	if principal.UserID == userID && req.IsAdmin != nil && !*req.IsAdmin {
		return fmt.Errorf("%w: administrators cannot revoke their own admin role", models.ErrForbidden)
	}

	if err := s.repo.UpdateRoles(ctx, userID, req); err != nil {
		return err
	}

	s.logger.Info("user roles updated", zap.Int("userId", userID), zap.Int("by", principal.UserID))
	return nil
}
