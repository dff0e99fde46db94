package models

// Default search preference values
const (
	DefaultGuests   = 1
	DefaultMinPrice = 0
	DefaultMaxPrice = 1000
)

// SearchPreferences is the last search a user ran.
// Dates are ISO dates ("2006-01-02") or null.
type SearchPreferences struct {
	City       string  `json:"city"`
	CheckIn    *string `json:"checkIn"`
	CheckOut   *string `json:"checkOut"`
	Guests     int     `json:"guests"`
	PriceRange [2]int  `json:"priceRange"`
}

// DefaultSearchPreferences returns the preferences used when none are stored
func DefaultSearchPreferences() SearchPreferences {
	return SearchPreferences{
		City:       "",
		CheckIn:    nil,
		CheckOut:   nil,
		Guests:     DefaultGuests,
		PriceRange: [2]int{DefaultMinPrice, DefaultMaxPrice},
	}
}
