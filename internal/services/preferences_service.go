package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hotelbooking/backend/internal/models"
	"go.uber.org/zap"
)

// PreferencesRepository is the interface that wraps search preference storage
type PreferencesRepository interface {
	// Method Get retrieves the stored preferences of a user.
	//
	// If nothing is stored, "nil" is returned together with "nil" error.
	Get(ctx context.Context, userID int) (*models.SearchPreferences, error)
	// Method Save overwrites the stored preferences of a user.
	Save(ctx context.Context, userID int, prefs *models.SearchPreferences) error
}

type preferencesService struct {
	repo   PreferencesRepository
	logger *zap.Logger
}

// NewPreferencesService creates a new search preferences service
func NewPreferencesService(repo PreferencesRepository, logger *zap.Logger) *preferencesService {
	return &preferencesService{
		repo:   repo,
		logger: logger,
	}
}

// Get returns the principal's last search, or the defaults if none was saved
func (s *preferencesService) Get(ctx context.Context, principal *models.Principal) (*models.SearchPreferences, error) {
	if err := authenticated(principal); err != nil {
		return nil, err
	}

	prefs, err := s.repo.Get(ctx, principal.UserID)
	if err != nil {
		s.logger.Error("failed to load search preferences", zap.Int("userId", principal.UserID), zap.Error(err))
		return nil, fmt.Errorf("failed to load search preferences: %w", err)
	}
	if prefs == nil {
		defaults := models.DefaultSearchPreferences()
		return &defaults, nil
	}
	return prefs, nil
}

// Save validates prefs and replaces whatever the principal had stored
func (s *preferencesService) Save(ctx context.Context, principal *models.Principal, prefs *models.SearchPreferences) error {
	if err := authenticated(principal); err != nil {
		return err
	}

	prefs.City = strings.TrimSpace(prefs.City)
	if err := validatePreferences(prefs); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, principal.UserID, prefs); err != nil {
		s.logger.Error("failed to save search preferences", zap.Int("userId", principal.UserID), zap.Error(err))
		return fmt.Errorf("failed to save search preferences: %w", err)
	}
	return nil
}

func validatePreferences(prefs *models.SearchPreferences) error {
	if prefs.Guests < 1 {
		return fmt.Errorf("%w: guests must be at least 1", models.ErrInvalidInput)
	}
	if prefs.PriceRange[0] < 0 || prefs.PriceRange[0] > prefs.PriceRange[1] {
		return fmt.Errorf("%w: price range must satisfy 0 <= min <= max", models.ErrInvalidInput)
	}

	checkIn, err := optionalDate(prefs.CheckIn)
	if err != nil {
		return fmt.Errorf("%w: invalid check-in date", models.ErrInvalidInput)
	}
	checkOut, err := optionalDate(prefs.CheckOut)
	if err != nil {
		return fmt.Errorf("%w: invalid check-out date", models.ErrInvalidInput)
	}
	if checkIn != nil && checkOut != nil && !checkOut.After(*checkIn) {
		return fmt.Errorf("%w: check-out must be after check-in", models.ErrInvalidInput)
	}

	return nil
}

func optionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
