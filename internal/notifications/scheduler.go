package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderSource is the interface that wraps booking lookups by check-in date
type ReminderSource interface {
	// Method ListIDsByCheckIn returns the ids of bookings whose stay starts on day.
	ListIDsByCheckIn(ctx context.Context, day time.Time) ([]string, error)
}

// ReminderPublisher is the interface that wraps reminder task enqueueing
type ReminderPublisher interface {
	// Method CheckInReminder queues the check-in reminder of a booking.
	CheckInReminder(ctx context.Context, bookingID string) error
}

// Scheduler queues check-in reminders for the next day's arrivals on a cron schedule
type Scheduler struct {
	cron      *cron.Cron
	bookings  ReminderSource
	publisher ReminderPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a scheduler running on spec, a standard five-field cron expression
func NewScheduler(spec string, bookings ReminderSource, publisher ReminderPublisher, logger *zap.Logger) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		bookings:  bookings,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.EnqueueReminders(context.Background())
	}))

	return s, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// EnqueueReminders queues a reminder for every booking checking in tomorrow
// and returns how many were queued
func (s *Scheduler) EnqueueReminders(ctx context.Context) int {
	tomorrow := s.now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)

	ids, err := s.bookings.ListIDsByCheckIn(ctx, tomorrow)
	if err != nil {
		s.logger.Error("Failed to list arriving bookings", zap.Time("day", tomorrow), zap.Error(err))
		return 0
	}

	queued := 0
	for _, id := range ids {
		if err := s.publisher.CheckInReminder(ctx, id); err != nil {
			s.logger.Error("Failed to enqueue check-in reminder", zap.String("bookingId", id), zap.Error(err))
			continue
		}
		queued++
	}

	if len(ids) > 0 {
		s.logger.Info("Enqueued check-in reminders", zap.Int("count", queued), zap.Int("bookings", len(ids)))
	}
	return queued
}
