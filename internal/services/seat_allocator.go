package services

import (
	"fmt"

	"github.com/skytrails/airline-reservation-backend/internal/models"
)

// Cabin rows seat eight across: A B | aisle | C D E F | aisle | G H.
var (
	rowLetters    = []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	windowLetters = map[string]bool{"A": true, "H": true}
	aisleLetters  = map[string]bool{"B": true, "C": true, "F": true, "G": true}
)

// SeatAllocator assigns concrete seat numbers within a cabin class.
// It is pure; callers supply the taken set and enforce uniqueness at
// the store.
type SeatAllocator struct{}

// NewSeatAllocator creates a new SeatAllocator
func NewSeatAllocator() *SeatAllocator {
	return &SeatAllocator{}
}

// SeatsForClass returns the ordered seat numbers belonging to a cabin
// class. Rows are numbered front to back with first class ahead of
// business ahead of economy.
func (a *SeatAllocator) SeatsForClass(aircraft *models.Aircraft, class models.CabinClass) []string {
	total := aircraft.FirstSeats + aircraft.BusinessSeats + aircraft.EconomySeats

	all := make([]string, 0, total)
	for i := 0; i < total; i++ {
		row := i/len(rowLetters) + 1
		all = append(all, fmt.Sprintf("%d%s", row, rowLetters[i%len(rowLetters)]))
	}

	switch class {
	case models.CabinFirst:
		return all[:aircraft.FirstSeats]
	case models.CabinBusiness:
		return all[aircraft.FirstSeats : aircraft.FirstSeats+aircraft.BusinessSeats]
	default:
		return all[aircraft.FirstSeats+aircraft.BusinessSeats:]
	}
}

// Pick chooses a free seat in the class, honoring the preference when a
// matching seat is free and falling back to any free seat otherwise.
// Returns NoSeatAvailableError when the class is full.
func (a *SeatAllocator) Pick(
	aircraft *models.Aircraft,
	flightID string,
	class models.CabinClass,
	preference models.SeatPreference,
	taken []string,
) (string, error) {
	takenSet := make(map[string]bool, len(taken))
	for _, seat := range taken {
		takenSet[seat] = true
	}

	candidates := a.SeatsForClass(aircraft, class)

	if preference == models.PreferenceWindow || preference == models.PreferenceAisle {
		for _, seat := range candidates {
			if takenSet[seat] || !matchesPreference(seat, preference) {
				continue
			}
			return seat, nil
		}
	}

	for _, seat := range candidates {
		if !takenSet[seat] {
			return seat, nil
		}
	}

	return "", &models.NoSeatAvailableError{FlightID: flightID, CabinClass: class}
}

func matchesPreference(seat string, preference models.SeatPreference) bool {
	letter := seat[len(seat)-1:]
	switch preference {
	case models.PreferenceWindow:
		return windowLetters[letter]
	case models.PreferenceAisle:
		return aisleLetters[letter]
	}
	return true
}
