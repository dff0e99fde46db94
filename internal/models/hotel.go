package models

// Hotel represents a property in the catalog
type Hotel struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	City        string `json:"city"`
	Address     string `json:"address"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	Rooms       []Room `json:"rooms"`
}

// Room represents a bookable room type of a hotel
type Room struct {
	ID        int    `json:"id"`
	HotelID   int    `json:"hotelId"`
	Name      string `json:"name"`
	BasePrice Money  `json:"basePrice"` // minor units per night
	MaxPeople int    `json:"maxPeople"`
}

// HotelFilter narrows the hotel listing
type HotelFilter struct {
	City string
}

// RoomQuote is the nightly price of a room for a party size
type RoomQuote struct {
	RoomID     int    `json:"roomId"`
	Guests     int    `json:"guests"`
	Price      Money  `json:"price"`
	Tier       string `json:"tier"`
	Multiplier int    `json:"multiplier"`
}

// RoomListing is a room with an optional quote for the requested party
type RoomListing struct {
	Room
	Available bool       `json:"available"`
	Reason    string     `json:"reason,omitempty"`
	Quote     *RoomQuote `json:"quote,omitempty"`
}

// HotelListing is a hotel in search results
type HotelListing struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	City        string        `json:"city"`
	Address     string        `json:"address"`
	Description string        `json:"description"`
	Stars       int           `json:"stars"`
	Rooms       []RoomListing `json:"rooms"`
}

// HotelSearchRequest holds listing query parameters.
// Guests and the price range are optional.
type HotelSearchRequest struct {
	City     string
	Guests   int
	MinPrice *int
	MaxPrice *int
}

// CreateHotelRequest represents a request to add a hotel
type CreateHotelRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	City        string `json:"city" validate:"required,max=100"`
	Address     string `json:"address" validate:"max=255"`
	Description string `json:"description" validate:"max=2000"`
	Stars       int    `json:"stars" validate:"gte=1,lte=5"`
}

// CreateRoomRequest represents a request to add a room to a hotel
type CreateRoomRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	BasePrice Money  `json:"basePrice" validate:"gte=0,lte=100000000"`
	MaxPeople int    `json:"maxPeople" validate:"gte=1,lte=20"`
}
