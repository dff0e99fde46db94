package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	confirmationMaxRetry = 5
	reminderRetention    = 48 * time.Hour
)

// TaskEnqueuer is the interface that wraps the asynq client
type TaskEnqueuer interface {
	// Method EnqueueContext adds a task to a queue.
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Publisher enqueues booking email tasks
type Publisher struct {
	client TaskEnqueuer
	logger *zap.Logger
}

// NewPublisher creates a new publisher
func NewPublisher(client TaskEnqueuer, logger *zap.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger,
	}
}

// BookingConfirmed queues the confirmation email of a new booking
func (p *Publisher) BookingConfirmed(ctx context.Context, bookingID string) error {
	task := newBookingTask(TypeBookingConfirmation, bookingID)

	info, err := p.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueImmediate),
		asynq.MaxRetry(confirmationMaxRetry),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue booking confirmation: %w", err)
	}

	p.logger.Debug("Enqueued booking confirmation", zap.String("bookingId", bookingID), zap.String("taskId", info.ID))
	return nil
}

// CheckInReminder queues the check-in reminder of a booking.
// A reminder that is already queued or retained is not queued again.
func (p *Publisher) CheckInReminder(ctx context.Context, bookingID string) error {
	task := newBookingTask(TypeCheckInReminder, bookingID)

	_, err := p.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.TaskID(reminderTaskID(bookingID)),
		asynq.Retention(reminderRetention),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		p.logger.Debug("Check-in reminder already queued", zap.String("bookingId", bookingID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue check-in reminder: %w", err)
	}

	return nil
}

func reminderTaskID(bookingID string) string {
	return "reminder:" + bookingID
}
