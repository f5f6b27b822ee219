// Package pricing holds the pure fare, refund and reschedule computations.
// All money logic lives here so booking, refund and reschedule agree on it.
package pricing

import (
	"math"

	"github.com/skytrails/airline-reservation-backend/internal/models"
)

// Cabin class fare multipliers applied to a flight's base price
const (
	EconomyMultiplier  = 1.0
	BusinessMultiplier = 2.5
	FirstMultiplier    = 3.5
)

// Multiplier returns the fare multiplier for a cabin class
func Multiplier(class models.CabinClass) float64 {
	switch class {
	case models.CabinFirst:
		return FirstMultiplier
	case models.CabinBusiness:
		return BusinessMultiplier
	default:
		return EconomyMultiplier
	}
}

// Fare computes the ticket price for a cabin class on a flight, rounded to cents
func Fare(basePrice float64, class models.CabinClass) float64 {
	return roundCents(basePrice * Multiplier(class))
}

func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
