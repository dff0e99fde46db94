// Package notifications queues and delivers booking emails.
//
// The API enqueues tasks on asynq, the worker renders and sends them over
// SMTP and the scheduler queues check-in reminders on a cron schedule.
package notifications

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task types
const (
	TypeBookingConfirmation = "booking:confirmation"
	TypeCheckInReminder     = "booking:reminder"
)

// Queue names with their worker priorities
const (
	QueueImmediate = "immediate"
	QueueDefault   = "default"
)

// Queues is the asynq queue priority map used by the worker
var Queues = map[string]int{
	QueueImmediate: 5,
	QueueDefault:   1,
}

// newBookingTask creates a task whose payload is the booking id
func newBookingTask(taskType, bookingID string) *asynq.Task {
	return asynq.NewTask(taskType, []byte(bookingID))
}

// bookingIDFrom extracts the booking id of a task.
// Malformed payloads are not retried.
func bookingIDFrom(t *asynq.Task) (string, error) {
	id, err := uuid.Parse(string(t.Payload()))
	if err != nil {
		return "", fmt.Errorf("invalid booking id %q in %s task: %w", t.Payload(), t.Type(), asynq.SkipRetry)
	}
	return id.String(), nil
}
