package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hotelbooking/backend/internal/models"
	"go.uber.org/zap"
)

type bookingRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *sql.DB, logger *zap.Logger) *bookingRepository {
	return &bookingRepository{
		db:     db,
		logger: logger,
	}
}

const bookingColumns = `id, user_id, room_id, check_in, check_out, guests, nights, nightly_price, total_price, created_at`

// Create inserts a booking. The caller sets ID and CreatedAt.
func (r *bookingRepository) Create(ctx context.Context, b *models.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, b.ID, b.UserID, b.RoomID, b.CheckIn, b.CheckOut, b.Guests, b.Nights,
		int64(b.NightlyPrice), int64(b.TotalPrice), b.CreatedAt)
	if err != nil {
		r.logger.Error("failed to insert booking", zap.Error(err))
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// ListByUser retrieves bookings of a user, newest first
func (r *bookingRepository) ListByUser(ctx context.Context, userID int) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = ?
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

// ListAll retrieves a page of all bookings ordered by check-in date
func (r *bookingRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY check_in, id
		LIMIT ? OFFSET ?
	`
	return r.list(ctx, query, limit, offset)
}

func (r *bookingRepository) list(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query bookings", zap.Error(err))
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.RoomID, &b.CheckIn, &b.CheckOut, &b.Guests, &b.Nights,
			&b.NightlyPrice, &b.TotalPrice, &b.CreatedAt); err != nil {
			r.logger.Error("failed to scan booking", zap.Error(err))
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return bookings, nil
}

// CountByUser returns how many bookings a user has
func (r *bookingRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		r.logger.Error("failed to count bookings", zap.Error(err), zap.Int("user_id", userID))
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

// GetReceiptDetails retrieves a booking joined with its guest, room and hotel
func (r *bookingRepository) GetReceiptDetails(ctx context.Context, id string) (*models.ReceiptDetails, error) {
	query := `
		SELECT b.id, b.user_id, b.room_id, b.check_in, b.check_out, b.guests, b.nights,
			b.nightly_price, b.total_price, b.created_at,
			u.username, u.email, h.name, h.city, r.name
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		JOIN rooms r ON r.id = b.room_id
		JOIN hotels h ON h.id = r.hotel_id
		WHERE b.id = ?
	`

	var d models.ReceiptDetails
	b := &d.Booking
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.UserID, &b.RoomID, &b.CheckIn, &b.CheckOut, &b.Guests,
		&b.Nights, &b.NightlyPrice, &b.TotalPrice, &b.CreatedAt, &d.Username, &d.Email, &d.HotelName, &d.City, &d.RoomName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %w", models.ErrNotFound)
		}
		r.logger.Error("failed to query booking receipt", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to query booking: %w", err)
	}

	return &d, nil
}

// ListIDsByCheckIn returns the ids of bookings whose stay starts on day
func (r *bookingRepository) ListIDsByCheckIn(ctx context.Context, day time.Time) ([]string, error) {
	query := `SELECT id FROM bookings WHERE check_in = ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, day.Format(models.DateLayout))
	if err != nil {
		r.logger.Error("failed to query bookings by check-in", zap.Error(err), zap.Time("day", day))
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan booking id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking ids: %w", err)
	}

	return ids, nil
}
