package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/hotelbooking/backend/internal/models"
	"go.uber.org/zap"
)

// searchPreferencesKey is the fixed key prefix of stored search preferences
const searchPreferencesKey = "search_preferences:%d"

type preferencesRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewPreferencesRepository creates a Redis-backed search preferences repository
func NewPreferencesRepository(client *redis.Client, logger *zap.Logger) *preferencesRepository {
	return &preferencesRepository{
		client: client,
		logger: logger,
	}
}

// Get returns the stored preferences of a user, or nil when none are stored
func (r *preferencesRepository) Get(ctx context.Context, userID int) (*models.SearchPreferences, error) {
	raw, err := r.client.Get(ctx, fmt.Sprintf(searchPreferencesKey, userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.logger.Error("failed to read search preferences", zap.Error(err), zap.Int("user_id", userID))
		return nil, fmt.Errorf("failed to read search preferences: %w", err)
	}

	var prefs models.SearchPreferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		// A corrupt record is treated like a missing one so the user can overwrite it
		r.logger.Warn("discarding unreadable search preferences", zap.Error(err), zap.Int("user_id", userID))
		return nil, nil
	}

	return &prefs, nil
}

// Save replaces the stored preferences of a user wholesale
func (r *preferencesRepository) Save(ctx context.Context, userID int, prefs *models.SearchPreferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode search preferences: %w", err)
	}

	if err := r.client.Set(ctx, fmt.Sprintf(searchPreferencesKey, userID), raw, 0).Err(); err != nil {
		r.logger.Error("failed to save search preferences", zap.Error(err), zap.Int("user_id", userID))
		return fmt.Errorf("failed to save search preferences: %w", err)
	}

	return nil
}
