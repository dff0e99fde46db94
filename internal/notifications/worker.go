package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/hotelbooking/backend/internal/models"
	"go.uber.org/zap"
)

// BookingDetailsRepository is the interface that wraps booking lookups for emails
type BookingDetailsRepository interface {
	// Method GetReceiptDetails retrieves a booking joined with its guest, room and hotel.
	//
	// If the booking does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetReceiptDetails(ctx context.Context, id string) (*models.ReceiptDetails, error)
}

// Mailer is the interface that wraps email delivery
type Mailer interface {
	// Method Send delivers an HTML email.
	Send(to, subject, body string) error
}

// Worker processes booking email tasks
type Worker struct {
	bookings BookingDetailsRepository
	mailer   Mailer
	logger   *zap.Logger
}

// NewWorker creates a new worker instance
func NewWorker(bookings BookingDetailsRepository, mailer Mailer, logger *zap.Logger) *Worker {
	return &Worker{
		bookings: bookings,
		mailer:   mailer,
		logger:   logger,
	}
}

// Register registers the worker's task handlers
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeBookingConfirmation, w.HandleBookingConfirmation)
	mux.HandleFunc(TypeCheckInReminder, w.HandleCheckInReminder)
}

// HandleBookingConfirmation sends the confirmation email of a booking
func (w *Worker) HandleBookingConfirmation(ctx context.Context, t *asynq.Task) error {
	return w.deliver(ctx, t, confirmationEmail)
}

// HandleCheckInReminder sends the check-in reminder of a booking
func (w *Worker) HandleCheckInReminder(ctx context.Context, t *asynq.Task) error {
	return w.deliver(ctx, t, reminderEmail)
}

func (w *Worker) deliver(ctx context.Context, t *asynq.Task, e email) error {
	bookingID, err := bookingIDFrom(t)
	if err != nil {
		w.logger.Error("Dropping task with invalid payload", zap.String("type", t.Type()), zap.Error(err))
		return err
	}

	details, err := w.bookings.GetReceiptDetails(ctx, bookingID)
	if err != nil {
		// Booking was removed before processing, nothing to send
		if errors.Is(err, models.ErrNotFound) {
			w.logger.Info("Booking not found, skipping email", zap.String("type", t.Type()), zap.String("bookingId", bookingID))
			return nil
		}
		return err
	}

	subject, body, err := e.render(details)
	if err != nil {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	if err := w.mailer.Send(details.Email, subject, body); err != nil {
		w.logger.Warn("Failed to send booking email", zap.String("type", t.Type()), zap.String("bookingId", bookingID), zap.Error(err))
		return err
	}

	w.logger.Info("Booking email sent", zap.String("type", t.Type()), zap.String("bookingId", bookingID))
	return nil
}
