package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/hotelbooking/backend/internal/models"
	"go.uber.org/zap"
)

// mysqlForeignKeyViolation is the MySQL error number for a missing parent row
const mysqlForeignKeyViolation = 1452

type hotelRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHotelRepository creates a new hotel repository
func NewHotelRepository(db *sql.DB, logger *zap.Logger) *hotelRepository {
	return &hotelRepository{
		db:     db,
		logger: logger,
	}
}

// hotelsWithRoomsQuery joins hotels with their rooms. Hotels without rooms yield a row with NULL room columns.
const hotelsWithRoomsQuery = `
		SELECT h.id, h.name, h.city, h.address, h.description, h.stars,
			r.id, r.name, r.base_price, r.max_people
		FROM hotels h
		LEFT JOIN rooms r ON r.hotel_id = h.id
	`

// List retrieves hotels with their rooms, optionally filtered by city
func (r *hotelRepository) List(ctx context.Context, filter models.HotelFilter) ([]models.Hotel, error) {
	query := hotelsWithRoomsQuery
	args := []any{}
	if filter.City != "" {
		query += "WHERE h.city = ?\n"
		args = append(args, filter.City)
	}
	query += "ORDER BY h.id, r.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query hotels", zap.Error(err))
		return nil, fmt.Errorf("failed to query hotels: %w", err)
	}
	defer rows.Close()

	return r.scanHotels(rows)
}

// GetByID retrieves a hotel with its rooms
func (r *hotelRepository) GetByID(ctx context.Context, id int) (*models.Hotel, error) {
	query := hotelsWithRoomsQuery + "WHERE h.id = ?\nORDER BY r.id"

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to query hotel by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to query hotel: %w", err)
	}
	defer rows.Close()

	hotels, err := r.scanHotels(rows)
	if err != nil {
		return nil, err
	}
	if len(hotels) == 0 {
		return nil, fmt.Errorf("hotel %w", models.ErrNotFound)
	}

	return &hotels[0], nil
}

// scanHotels folds joined hotel/room rows into hotels. Rows must be ordered by hotel ID.
func (r *hotelRepository) scanHotels(rows *sql.Rows) ([]models.Hotel, error) {
	var hotels []models.Hotel
	for rows.Next() {
		var hotel models.Hotel
		var roomID, maxPeople sql.NullInt64
		var roomName sql.NullString
		var basePrice sql.NullInt64
		if err := rows.Scan(&hotel.ID, &hotel.Name, &hotel.City, &hotel.Address, &hotel.Description, &hotel.Stars,
			&roomID, &roomName, &basePrice, &maxPeople); err != nil {
			r.logger.Error("failed to scan hotel", zap.Error(err))
			return nil, fmt.Errorf("failed to scan hotel: %w", err)
		}

		if len(hotels) == 0 || hotels[len(hotels)-1].ID != hotel.ID {
			hotel.Rooms = []models.Room{}
			hotels = append(hotels, hotel)
		}
		if roomID.Valid {
			current := &hotels[len(hotels)-1]
			current.Rooms = append(current.Rooms, models.Room{
				ID:        int(roomID.Int64),
				HotelID:   hotel.ID,
				Name:      roomName.String,
				BasePrice: models.Money(basePrice.Int64),
				MaxPeople: int(maxPeople.Int64),
			})
		}
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return hotels, nil
}

// GetRoomByID retrieves a single room
func (r *hotelRepository) GetRoomByID(ctx context.Context, id int) (*models.Room, error) {
	query := `
		SELECT id, hotel_id, name, base_price, max_people
		FROM rooms
		WHERE id = ?
	`

	var room models.Room
	err := r.db.QueryRowContext(ctx, query, id).Scan(&room.ID, &room.HotelID, &room.Name, &room.BasePrice, &room.MaxPeople)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("room %w", models.ErrNotFound)
		}
		r.logger.Error("failed to query room by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to query room: %w", err)
	}

	return &room, nil
}

// CreateHotel inserts a hotel and sets its ID
func (r *hotelRepository) CreateHotel(ctx context.Context, hotel *models.Hotel) error {
	query := `
		INSERT INTO hotels (name, city, address, description, stars)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, hotel.Name, hotel.City, hotel.Address, hotel.Description, hotel.Stars)
	if err != nil {
		r.logger.Error("failed to insert hotel", zap.Error(err))
		return fmt.Errorf("failed to create hotel: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get hotel id: %w", err)
	}
	hotel.ID = int(id)

	return nil
}

// CreateRoom inserts a room of an existing hotel and sets its ID
func (r *hotelRepository) CreateRoom(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (hotel_id, name, base_price, max_people)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, room.HotelID, room.Name, int64(room.BasePrice), room.MaxPeople)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlForeignKeyViolation {
			return fmt.Errorf("hotel %w", models.ErrNotFound)
		}
		r.logger.Error("failed to insert room", zap.Error(err))
		return fmt.Errorf("failed to create room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get room id: %w", err)
	}
	room.ID = int(id)

	return nil
}
