package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/skytrails/airline-reservation-backend/internal/models"
)

// FlightRepository handles database operations for the flights table
type FlightRepository struct {
	db DB
}

// NewFlightRepository creates a new FlightRepository
func NewFlightRepository(db DB) *FlightRepository {
	return &FlightRepository{db: db}
}

const flightColumns = `
	flight_id, flight_number, aircraft_id, departure_airport, arrival_airport,
	departure_time, arrival_time, base_price, available_seats, status,
	gate, terminal, created_at, updated_at
`

// GetByID retrieves a flight by its ID
func (r *FlightRepository) GetByID(flightID string) (*models.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE flight_id = $1`

	var flight models.Flight
	err := r.db.Get(&flight, query, flightID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}

	return &flight, nil
}

// Search retrieves bookable flights matching the route and departure day,
// ordered by departure time.
func (r *FlightRepository) Search(req *models.SearchFlightsRequest) ([]models.Flight, error) {
	query := `
		SELECT ` + flightColumns + `
		FROM flights
		WHERE departure_airport = $1
		  AND arrival_airport = $2
		  AND departure_time >= $3::date
		  AND departure_time < $3::date + INTERVAL '1 day'
		  AND status IN ('scheduled', 'delayed')
		ORDER BY departure_time ASC
	`

	flights := []models.Flight{}
	err := r.db.Select(&flights, query, req.DepartureAirport, req.ArrivalAirport, req.DepartureDate)
	if err != nil {
		return nil, fmt.Errorf("failed to search flights: %w", err)
	}

	return flights, nil
}

// ReserveSeat atomically takes one seat from the flight's open inventory.
// The decrement only succeeds while seats remain and the flight is still
// sellable, so concurrent bookings can never drive the count negative.
func (r *FlightRepository) ReserveSeat(flightID string) error {
	query := `
		UPDATE flights
		SET available_seats = available_seats - 1,
		    updated_at = NOW()
		WHERE flight_id = $1
		  AND available_seats > 0
		  AND status IN ('scheduled', 'delayed')
	`

	result, err := r.db.Exec(query, flightID)
	if err != nil {
		return fmt.Errorf("failed to reserve seat: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check reserve result: %w", err)
	}
	if rows == 0 {
		// Distinguish a missing flight from a sold-out or closed one.
		if _, getErr := r.GetByID(flightID); getErr != nil {
			return getErr
		}
		return &models.SeatUnavailableError{FlightID: flightID}
	}

	return nil
}

// ReleaseSeat returns one seat to the flight's open inventory. The count
// is capped at the aircraft's capacity so repeated releases cannot
// overfill the flight.
func (r *FlightRepository) ReleaseSeat(flightID string) error {
	query := `
		UPDATE flights f
		SET available_seats = available_seats + 1,
		    updated_at = NOW()
		FROM aircraft a
		WHERE f.flight_id = $1
		  AND f.aircraft_id = a.aircraft_id
		  AND f.available_seats < a.total_seats
	`

	result, err := r.db.Exec(query, flightID)
	if err != nil {
		return fmt.Errorf("failed to release seat: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check release result: %w", err)
	}
	if rows == 0 {
		if _, getErr := r.GetByID(flightID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("flight %s inventory already at capacity", flightID)
	}

	return nil
}

// UpdateStatus transitions a flight to a new status
func (r *FlightRepository) UpdateStatus(flightID string, status models.FlightStatus) error {
	query := `
		UPDATE flights
		SET status = $2, updated_at = NOW()
		WHERE flight_id = $1
	`

	result, err := r.db.Exec(query, flightID, status)
	if err != nil {
		return fmt.Errorf("failed to update flight status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check status update result: %w", err)
	}
	if rows == 0 {
		return models.ErrFlightNotFound
	}

	return nil
}
