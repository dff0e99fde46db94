// Package pricing computes the nightly price of a room for a party size.
//
// The price follows a tiered capacity surcharge: up to the room's capacity
// the base price applies, up to twice the capacity the price doubles, and
// beyond that the room cannot host the party at all.
package pricing

import (
	"errors"
	"math"

	"github.com/hotelbooking/backend/internal/models"
)

// Rejections. All of them are terminal for the given input.
var (
	// ErrInvalidGuestCount is returned for a party of zero or fewer guests
	ErrInvalidGuestCount = errors.New("guest count must be positive")
	// ErrOverCapacity is returned when the party exceeds twice the room capacity
	ErrOverCapacity = errors.New("room cannot host this many guests")
	// ErrInvalidRoom is returned for a room with a negative price or no capacity
	ErrInvalidRoom = errors.New("invalid room pricing data")
	// ErrTotalOverflow is returned when a stay total cannot be represented
	ErrTotalOverflow = errors.New("stay total exceeds the supported amount")
)

// Tier is a step of the capacity surcharge ladder
type Tier string

// Pricing tiers
const (
	TierStandard  Tier = "standard"
	TierSurcharge Tier = "surcharge"
)

// surchargeMultiplier applies between capacity and twice the capacity
const surchargeMultiplier = 2

// Input is a single price query
type Input struct {
	BasePrice       models.Money
	MaxPeople       int
	RequestedGuests int
}

// Quote is a successful price with the tier that produced it
type Quote struct {
	Price      models.Money
	Tier       Tier
	Multiplier int
}

// QuoteFor prices in and reports the tier used
func QuoteFor(in Input) (Quote, error) {
	if in.RequestedGuests <= 0 {
		return Quote{}, ErrInvalidGuestCount
	}
	if in.MaxPeople <= 0 || in.BasePrice < 0 || in.BasePrice > math.MaxInt64/surchargeMultiplier {
		return Quote{}, ErrInvalidRoom
	}

	switch {
	case in.RequestedGuests <= in.MaxPeople:
		return Quote{Price: in.BasePrice, Tier: TierStandard, Multiplier: 1}, nil
	case in.RequestedGuests <= surchargeMultiplier*in.MaxPeople:
		return Quote{Price: in.BasePrice * surchargeMultiplier, Tier: TierSurcharge, Multiplier: surchargeMultiplier}, nil
	default:
		return Quote{}, ErrOverCapacity
	}
}

// PriceFor returns the nightly price for in, or one of the rejection errors
func PriceFor(in Input) (models.Money, error) {
	q, err := QuoteFor(in)
	if err != nil {
		return 0, err
	}
	return q.Price, nil
}

// TotalFor returns the price of a stay of nights at the nightly price
func TotalFor(nightly models.Money, nights int) (models.Money, error) {
	if nightly < 0 || nights < 1 {
		return 0, ErrInvalidRoom
	}
	if nightly > models.Money(math.MaxInt64/int64(nights)) {
		return 0, ErrTotalOverflow
	}
	return nightly * models.Money(nights), nil
}
