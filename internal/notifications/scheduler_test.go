package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockReminderSource is a mock implementation of ReminderSource
type mockReminderSource struct {
	ids     []string
	err     error
	lastDay time.Time
}

func (m *mockReminderSource) ListIDsByCheckIn(ctx context.Context, day time.Time) ([]string, error) {
	m.lastDay = day
	if m.err != nil {
		return nil, m.err
	}
	return m.ids, nil
}

// mockReminderPublisher is a mock implementation of ReminderPublisher
type mockReminderPublisher struct {
	queued  []string
	failFor map[string]bool
}

func (m *mockReminderPublisher) CheckInReminder(ctx context.Context, bookingID string) error {
	if m.failFor[bookingID] {
		return errors.New("enqueue failed")
	}
	m.queued = append(m.queued, bookingID)
	return nil
}

func TestNewScheduler(t *testing.T) {
	tests := []struct {
		name          string
		spec          string
		expectedError bool
	}{
		{name: "daily", spec: "0 9 * * *"},
		{name: "descriptor", spec: "@hourly"},
		{name: "six fields", spec: "0 0 9 * * *", expectedError: true},
		{name: "garbage", spec: "every morning", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScheduler(tt.spec, &mockReminderSource{}, &mockReminderPublisher{}, zap.NewNop())

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, s)
			} else {
				require.NoError(t, err)
				assert.Len(t, s.cron.Entries(), 1)
			}
		})
	}
}

func TestScheduler_EnqueueReminders(t *testing.T) {
	tests := []struct {
		name           string
		source         *mockReminderSource
		publisher      *mockReminderPublisher
		expectedQueued int
	}{
		{
			name:           "all queued",
			source:         &mockReminderSource{ids: []string{"a", "b", "c"}},
			publisher:      &mockReminderPublisher{},
			expectedQueued: 3,
		},
		{
			name:           "one failure does not stop the rest",
			source:         &mockReminderSource{ids: []string{"a", "b", "c"}},
			publisher:      &mockReminderPublisher{failFor: map[string]bool{"b": true}},
			expectedQueued: 2,
		},
		{
			name:      "no arrivals",
			source:    &mockReminderSource{ids: []string{}},
			publisher: &mockReminderPublisher{},
		},
		{
			name:      "database error",
			source:    &mockReminderSource{err: errors.New("database error")},
			publisher: &mockReminderPublisher{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScheduler("0 9 * * *", tt.source, tt.publisher, zap.NewNop())
			require.NoError(t, err)
			s.now = func() time.Time { return time.Date(2026, 10, 31, 9, 0, 3, 0, time.UTC) }

			queued := s.EnqueueReminders(context.Background())

			assert.Equal(t, tt.expectedQueued, queued)
			assert.Len(t, tt.publisher.queued, tt.expectedQueued)
			assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), tt.source.lastDay)
		})
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler("@daily", &mockReminderSource{}, &mockReminderPublisher{}, zap.NewNop())
	require.NoError(t, err)

	s.Start()
	entries := s.cron.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Next.IsZero())
	s.Stop()
}
