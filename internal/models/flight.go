package models

import (
	"errors"
	"time"
)

// FlightStatus represents the operational status of a flight
type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusDelayed   FlightStatus = "delayed"
	FlightStatusCancelled FlightStatus = "cancelled"
	FlightStatusCompleted FlightStatus = "completed"
)

// CabinClass represents a bookable cabin class
type CabinClass string

const (
	CabinEconomy  CabinClass = "economy"
	CabinBusiness CabinClass = "business"
	CabinFirst    CabinClass = "first"
)

// Valid reports whether the cabin class is one of the three supported classes
func (c CabinClass) Valid() bool {
	switch c {
	case CabinEconomy, CabinBusiness, CabinFirst:
		return true
	}
	return false
}

// Flight represents a scheduled flight with its remaining seat inventory
type Flight struct {
	FlightID         string       `json:"flight_id" db:"flight_id"`
	FlightNumber     string       `json:"flight_number" db:"flight_number"`
	AircraftID       string       `json:"aircraft_id" db:"aircraft_id"`
	DepartureAirport string       `json:"departure_airport" db:"departure_airport"`
	ArrivalAirport   string       `json:"arrival_airport" db:"arrival_airport"`
	DepartureTime    time.Time    `json:"departure_time" db:"departure_time"`
	ArrivalTime      time.Time    `json:"arrival_time" db:"arrival_time"`
	BasePrice        float64      `json:"base_price" db:"base_price"`
	AvailableSeats   int          `json:"available_seats" db:"available_seats"`
	Status           FlightStatus `json:"status" db:"status"`
	Gate             *string      `json:"gate,omitempty" db:"gate"`
	Terminal         *string      `json:"terminal,omitempty" db:"terminal"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at" db:"updated_at"`
}

// IsBookable reports whether new orders may be placed on the flight
func (f *Flight) IsBookable(now time.Time) bool {
	if f.Status != FlightStatusScheduled && f.Status != FlightStatusDelayed {
		return false
	}
	return f.DepartureTime.After(now)
}

// HoursUntilDeparture returns the time to departure in fractional hours,
// evaluated against the supplied clock instant
func (f *Flight) HoursUntilDeparture(now time.Time) float64 {
	return f.DepartureTime.Sub(now).Hours()
}

// SearchFlightsRequest represents a flight search query
type SearchFlightsRequest struct {
	DepartureAirport string `form:"from" json:"from"`
	ArrivalAirport   string `form:"to" json:"to"`
	DepartureDate    string `form:"date" json:"date"` // YYYY-MM-DD
}

// Validate validates the search request
func (r *SearchFlightsRequest) Validate() error {
	if r.DepartureAirport == "" || r.ArrivalAirport == "" {
		return errors.New("from and to airports are required")
	}
	if r.DepartureAirport == r.ArrivalAirport {
		return errors.New("departure and arrival airports must differ")
	}
	if r.DepartureDate != "" {
		if _, err := time.Parse("2006-01-02", r.DepartureDate); err != nil {
			return errors.New("date must be in YYYY-MM-DD format")
		}
	}
	return nil
}

// FlightSearchResult is a flight decorated with per-class fares for display
type FlightSearchResult struct {
	Flight
	EconomyFare  float64 `json:"economy_fare"`
	BusinessFare float64 `json:"business_fare"`
	FirstFare    float64 `json:"first_fare"`
}

// UpdateFlightStatusRequest represents an admin flight status transition
type UpdateFlightStatusRequest struct {
	Status FlightStatus `json:"status" binding:"required"`
}

// Validate validates the requested status transition target
func (r *UpdateFlightStatusRequest) Validate() error {
	switch r.Status {
	case FlightStatusScheduled, FlightStatusDelayed, FlightStatusCancelled, FlightStatusCompleted:
		return nil
	}
	return errors.New("status must be one of: scheduled, delayed, cancelled, completed")
}
