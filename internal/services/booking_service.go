package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelbooking/backend/internal/access"
	"github.com/hotelbooking/backend/internal/models"
	"github.com/hotelbooking/backend/internal/pricing"
	"github.com/hotelbooking/backend/internal/validation"
	"go.uber.org/zap"
)

const (
	maxNights       = 365
	defaultPageSize = 50
	maxPageSize     = 200
)

// BookingRepository is the interface that wraps methods for Bookings table data access
type BookingRepository interface {
	// Method Create inserts a booking. ID and CreatedAt must already be set.
	Create(ctx context.Context, booking *models.Booking) error
	// Method ListByUser retrieves the bookings of a user, newest first.
	ListByUser(ctx context.Context, userID int) ([]models.Booking, error)
	// Method ListAll retrieves a page of all bookings ordered by check-in date.
	ListAll(ctx context.Context, limit, offset int) ([]models.Booking, error)
	// Method CountByUser returns the number of bookings a user made.
	CountByUser(ctx context.Context, userID int) (int, error)
	// Method GetReceiptDetails retrieves a booking joined with its guest, room and hotel.
	//
	// If the booking does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetReceiptDetails(ctx context.Context, id string) (*models.ReceiptDetails, error)
}

// RoomRepository is the interface that wraps room lookups
type RoomRepository interface {
	// Method GetRoomByID retrieves a single room.
	//
	// If the room does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetRoomByID(ctx context.Context, id int) (*models.Room, error)
}

// BookingNotifier is the interface that wraps booking email scheduling
type BookingNotifier interface {
	// Method BookingConfirmed queues the confirmation email of a booking.
	BookingConfirmed(ctx context.Context, bookingID string) error
}

type bookingService struct {
	bookingRepo BookingRepository
	roomRepo    RoomRepository
	notifier    BookingNotifier
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

// NewBookingService creates a new booking service.
// A nil notifier disables confirmation emails.
func NewBookingService(bookingRepo BookingRepository, roomRepo RoomRepository, notifier BookingNotifier, logger *zap.Logger) *bookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
}

// authenticated rejects principals that are not signed in
func authenticated(principal *models.Principal) error {
	return access.Evaluate(principal, access.RequireNone).Err()
}

// Create books a room for the principal.
//
// The nightly price comes from the capacity pricing policy and the total is
// the nightly price times the number of nights between the two dates.
func (s *bookingService) Create(ctx context.Context, principal *models.Principal, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := authenticated(principal); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Guests <= 0 {
		return nil, pricing.ErrInvalidGuestCount
	}

	checkIn, checkOut, nights, err := stayDates(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	room, err := s.roomRepo.GetRoomByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	nightly, err := pricing.PriceFor(pricing.Input{
		BasePrice:       room.BasePrice,
		MaxPeople:       room.MaxPeople,
		RequestedGuests: req.Guests,
	})
	if err != nil {
		return nil, err
	}

	total, err := pricing.TotalFor(nightly, nights)
	if err != nil {
		s.logger.Error("failed to price stay",
			zap.Int("roomId", room.ID),
			zap.String("nightly", nightly.String()),
			zap.Int("nights", nights),
			zap.Error(err),
		)
		return nil, err
	}

	booking := &models.Booking{
		ID:           s.newID(),
		UserID:       principal.UserID,
		RoomID:       room.ID,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Guests:       req.Guests,
		Nights:       nights,
		NightlyPrice: nightly,
		TotalPrice:   total,
		CreatedAt:    s.now().UTC().Truncate(time.Second),
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		s.logger.Error("failed to create booking", zap.Int("userId", principal.UserID), zap.Error(err))
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.Int("userId", booking.UserID),
		zap.Int("roomId", booking.RoomID),
		zap.Int("nights", booking.Nights),
		zap.String("total", booking.TotalPrice.String()),
	)

	// The booking stands even if the email cannot be queued
	if s.notifier != nil {
		if err := s.notifier.BookingConfirmed(ctx, booking.ID); err != nil {
			s.logger.Warn("failed to queue booking confirmation", zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}

	return booking, nil
}

// stayDates parses ISO check-in and check-out dates and counts the nights between them
func stayDates(in, out string) (time.Time, time.Time, int, error) {
	checkIn, err := time.Parse(models.DateLayout, in)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("%w: invalid check-in date", models.ErrInvalidInput)
	}
	checkOut, err := time.Parse(models.DateLayout, out)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("%w: invalid check-out date", models.ErrInvalidInput)
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights < 1 {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("%w: check-out must be after check-in", models.ErrInvalidInput)
	}
	if nights > maxNights {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("%w: stay cannot exceed %d nights", models.ErrInvalidInput, maxNights)
	}

	return checkIn, checkOut, nights, nil
}

// ListMine retrieves the principal's own bookings
func (s *bookingService) ListMine(ctx context.Context, principal *models.Principal) ([]models.Booking, error) {
	if err := authenticated(principal); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.ListByUser(ctx, principal.UserID)
	if err != nil {
		s.logger.Error("failed to list bookings", zap.Int("userId", principal.UserID), zap.Error(err))
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListAll retrieves a page of every booking for staff views
func (s *bookingService) ListAll(ctx context.Context, limit, offset int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", models.ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list all bookings", zap.Error(err))
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// Receipt builds the receipt of a booking.
//
// The booking owner may always see it. Anyone else needs staff privileges,
// decided by the same access policy that guards staff routes.
func (s *bookingService) Receipt(ctx context.Context, principal *models.Principal, bookingID string) (*models.Receipt, error) {
	if err := authenticated(principal); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(bookingID); err != nil {
		return nil, fmt.Errorf("%w: malformed booking id", models.ErrInvalidInput)
	}

	details, err := s.bookingRepo.GetReceiptDetails(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if details.Booking.UserID != principal.UserID {
		if d := access.Evaluate(principal, access.RequireWorker); !d.Allowed {
			s.logger.Warn("receipt access denied",
				zap.String("bookingId", bookingID),
				zap.Int("userId", principal.UserID),
				zap.String("reason", d.Reason.String()),
			)
			return nil, d.Err()
		}
	}

	b := details.Booking
	return &models.Receipt{
		BookingID:    b.ID,
		Username:     details.Username,
		HotelName:    details.HotelName,
		City:         details.City,
		RoomName:     details.RoomName,
		CheckIn:      b.CheckIn.Format(models.DateLayout),
		CheckOut:     b.CheckOut.Format(models.DateLayout),
		Nights:       b.Nights,
		Guests:       b.Guests,
		NightlyPrice: b.NightlyPrice,
		TotalPrice:   b.TotalPrice,
		Total:        b.TotalPrice.String(),
		IssuedAt:     s.now().UTC(),
	}, nil
}

// Dashboard summarizes the principal's account
func (s *bookingService) Dashboard(ctx context.Context, principal *models.Principal) (*models.DashboardResponse, error) {
	if err := authenticated(principal); err != nil {
		return nil, err
	}

	count, err := s.bookingRepo.CountByUser(ctx, principal.UserID)
	if err != nil {
		s.logger.Error("failed to count bookings", zap.Int("userId", principal.UserID), zap.Error(err))
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	return &models.DashboardResponse{
		Principal:    *principal,
		Role:         principal.Rank().String(),
		BookingCount: count,
	}, nil
}
