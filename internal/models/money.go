package models

import (
	"fmt"
	"math"
)

// Money is a currency amount in minor units (cents)
type Money int64

const (
	// MaxNightlyPrice caps the base price a room can be listed at (1,000,000.00)
	MaxNightlyPrice Money = 100_000_000
	// MaxMajorUnits is the largest whole-unit amount MoneyFromMajor can represent
	MaxMajorUnits = math.MaxInt64 / 100
)

// MoneyFromMajor converts whole currency units into Money.
// units must not exceed MaxMajorUnits.
func MoneyFromMajor(units int) Money {
	return Money(units) * 100
}

// String formats the amount as "123.45"
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
