package pricing

import (
	"github.com/skytrails/airline-reservation-backend/internal/models"
)

// PriceDifference computes what a reschedule costs: the target flight's fare
// in the target cabin class minus the fare originally paid. Positive means
// the passenger owes a surcharge, negative means a credit.
func PriceDifference(targetBasePrice float64, targetClass models.CabinClass, originalTicketPrice float64) float64 {
	return roundCents(Fare(targetBasePrice, targetClass) - originalTicketPrice)
}
