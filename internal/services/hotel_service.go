package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hotelbooking/backend/internal/models"
	"github.com/hotelbooking/backend/internal/pricing"
	"github.com/hotelbooking/backend/internal/validation"
	"go.uber.org/zap"
)

// Unavailability reasons reported on room listings
const (
	reasonOverCapacity = "over_capacity"
	reasonInvalidRoom  = "invalid_room"
)

// HotelRepository is the interface that wraps methods for Hotels and Rooms table data access
type HotelRepository interface {
	// Method List retrieves hotels with their rooms, optionally filtered by city.
	List(ctx context.Context, filter models.HotelFilter) ([]models.Hotel, error)
	// Method GetByID retrieves a hotel with its rooms.
	//
	// If the hotel does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Hotel, error)
	// Method GetRoomByID retrieves a single room.
	//
	// If the room does not exist, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetRoomByID(ctx context.Context, id int) (*models.Room, error)
	// Method CreateHotel inserts a hotel and sets its ID.
	CreateHotel(ctx context.Context, hotel *models.Hotel) error
	// Method CreateRoom inserts a room and sets its ID.
	//
	// If the hotel does not exist, an error wrapping models.ErrNotFound is returned.
	CreateRoom(ctx context.Context, room *models.Room) error
}

type hotelService struct {
	repo   HotelRepository
	logger *zap.Logger
}

// NewHotelService creates a new hotel service
func NewHotelService(repo HotelRepository, logger *zap.Logger) *hotelService {
	return &hotelService{
		repo:   repo,
		logger: logger,
	}
}

// Search lists hotels for a party.
//
// With a guest count every room carries a quote or is marked unavailable.
// The price range is compared in major currency units against the quoted price,
// or against the base price when no guest count is given. Rooms outside the
// range are dropped, and so are hotels left without rooms by a filter.
func (s *hotelService) Search(ctx context.Context, req *models.HotelSearchRequest) ([]models.HotelListing, error) {
	if req.Guests < 0 {
		return nil, pricing.ErrInvalidGuestCount
	}
	if req.MinPrice != nil && *req.MinPrice < 0 {
		return nil, fmt.Errorf("%w: minimum price must not be negative", models.ErrInvalidInput)
	}
	if (req.MinPrice != nil && *req.MinPrice > models.MaxMajorUnits) || (req.MaxPrice != nil && *req.MaxPrice > models.MaxMajorUnits) {
		return nil, fmt.Errorf("%w: price bound exceeds %d", models.ErrInvalidInput, models.MaxMajorUnits)
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return nil, fmt.Errorf("%w: minimum price exceeds maximum price", models.ErrInvalidInput)
	}

	hotels, err := s.repo.List(ctx, models.HotelFilter{City: req.City})
	if err != nil {
		s.logger.Error("failed to list hotels", zap.Error(err))
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}

	filtered := req.Guests > 0 || req.MinPrice != nil || req.MaxPrice != nil
	listings := make([]models.HotelListing, 0, len(hotels))

	for _, hotel := range hotels {
		rooms := make([]models.RoomListing, 0, len(hotel.Rooms))
		for _, room := range hotel.Rooms {
			listing := s.listRoom(room, req.Guests)
			if listing.Available && !inPriceRange(listedPrice(listing), req.MinPrice, req.MaxPrice) {
				continue
			}
			rooms = append(rooms, listing)
		}

		if filtered && !hasAvailable(rooms) {
			continue
		}

		listings = append(listings, models.HotelListing{
			ID:          hotel.ID,
			Name:        hotel.Name,
			City:        hotel.City,
			Address:     hotel.Address,
			Description: hotel.Description,
			Stars:       hotel.Stars,
			Rooms:       rooms,
		})
	}

	return listings, nil
}

// listedPrice is the quoted price of a listing, or its base price when unquoted
func listedPrice(listing models.RoomListing) models.Money {
	if listing.Quote != nil {
		return listing.Quote.Price
	}
	return listing.BasePrice
}

func (s *hotelService) listRoom(room models.Room, guests int) models.RoomListing {
	listing := models.RoomListing{Room: room, Available: true}
	if guests == 0 {
		return listing
	}

	quote, err := quoteRoom(&room, guests)
	switch {
	case err == nil:
		listing.Quote = quote
	case errors.Is(err, pricing.ErrOverCapacity):
		listing.Available = false
		listing.Reason = reasonOverCapacity
	default:
		s.logger.Warn("room has invalid pricing data", zap.Int("roomId", room.ID), zap.Error(err))
		listing.Available = false
		listing.Reason = reasonInvalidRoom
	}

	return listing
}

func inPriceRange(price models.Money, minPrice, maxPrice *int) bool {
	if minPrice != nil && price < models.MoneyFromMajor(*minPrice) {
		return false
	}
	if maxPrice != nil && price > models.MoneyFromMajor(*maxPrice) {
		return false
	}
	return true
}

func hasAvailable(rooms []models.RoomListing) bool {
	for _, room := range rooms {
		if room.Available {
			return true
		}
	}
	return false
}

func quoteRoom(room *models.Room, guests int) (*models.RoomQuote, error) {
	q, err := pricing.QuoteFor(pricing.Input{
		BasePrice:       room.BasePrice,
		MaxPeople:       room.MaxPeople,
		RequestedGuests: guests,
	})
	if err != nil {
		return nil, err
	}

	return &models.RoomQuote{
		RoomID:     room.ID,
		Guests:     guests,
		Price:      q.Price,
		Tier:       string(q.Tier),
		Multiplier: q.Multiplier,
	}, nil
}

// GetHotel retrieves a hotel with its rooms
func (s *hotelService) GetHotel(ctx context.Context, id int) (*models.Hotel, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: hotel id must be positive", models.ErrInvalidInput)
	}

	hotel, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return hotel, nil
}

// Quote prices a room for a party of guests
func (s *hotelService) Quote(ctx context.Context, roomID, guests int) (*models.RoomQuote, error) {
	if guests <= 0 {
		return nil, pricing.ErrInvalidGuestCount
	}

	room, err := s.repo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	quote, err := quoteRoom(room, guests)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidRoom) {
			s.logger.Error("room has invalid pricing data", zap.Int("roomId", room.ID))
		}
		return nil, err
	}
	return quote, nil
}

// CreateHotel adds a hotel to the catalog
func (s *hotelService) CreateHotel(ctx context.Context, req *models.CreateHotelRequest) (*models.Hotel, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	hotel := &models.Hotel{
		Name:        req.Name,
		City:        req.City,
		Address:     req.Address,
		Description: req.Description,
		Stars:       req.Stars,
		Rooms:       []models.Room{},
	}
	if err := s.repo.CreateHotel(ctx, hotel); err != nil {
		s.logger.Error("failed to create hotel", zap.Error(err))
		return nil, fmt.Errorf("failed to create hotel: %w", err)
	}

	return hotel, nil
}

// CreateRoom adds a room to an existing hotel
func (s *hotelService) CreateRoom(ctx context.Context, hotelID int, req *models.CreateRoomRequest) (*models.Room, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	room := &models.Room{
		HotelID:   hotelID,
		Name:      req.Name,
		BasePrice: req.BasePrice,
		MaxPeople: req.MaxPeople,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}
