package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/skytrails/airline-reservation-backend/internal/models"
)

// AircraftRepository handles database operations for the aircraft table
type AircraftRepository struct {
	db DB
}

// NewAircraftRepository creates a new AircraftRepository
func NewAircraftRepository(db DB) *AircraftRepository {
	return &AircraftRepository{db: db}
}

// GetByID retrieves an aircraft by its ID
func (r *AircraftRepository) GetByID(aircraftID string) (*models.Aircraft, error) {
	query := `
		SELECT aircraft_id, aircraft_type, total_seats,
		       first_class_seats, business_class_seats, economy_class_seats,
		       manufacturer, status
		FROM aircraft
		WHERE aircraft_id = $1
	`

	var aircraft models.Aircraft
	err := r.db.Get(&aircraft, query, aircraftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("aircraft %s not found", aircraftID)
		}
		return nil, fmt.Errorf("failed to get aircraft: %w", err)
	}

	return &aircraft, nil
}
