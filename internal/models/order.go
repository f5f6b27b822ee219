package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "active"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// SeatPreference is a best-effort filter for seat allocation
type SeatPreference string

const (
	PreferenceNone   SeatPreference = "none"
	PreferenceWindow SeatPreference = "window"
	PreferenceAisle  SeatPreference = "aisle"
)

// Order represents a ticket reservation.
// TicketPrice is the fare charged at booking time and never changes except
// through a reschedule, which replaces it with the target flight's fare.
type Order struct {
	OrderID       uuid.UUID     `json:"order_id" db:"order_id"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	FlightID      string        `json:"flight_id" db:"flight_id"`
	PassengerName string        `json:"passenger_name" db:"passenger_name"`
	PassengerID   string        `json:"passenger_id" db:"passenger_id"`
	CabinClass    CabinClass    `json:"cabin_class" db:"cabin_class"`
	SeatNumber    *string       `json:"seat_number,omitempty" db:"seat_number"`
	TicketPrice   float64       `json:"ticket_price" db:"ticket_price"`
	BookingTime   time.Time     `json:"booking_time" db:"booking_time"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	OrderStatus   OrderStatus   `json:"order_status" db:"order_status"`
	PaymentMethod *string       `json:"payment_method,omitempty" db:"payment_method"`
	PaymentTime   *time.Time    `json:"payment_time,omitempty" db:"payment_time"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// IsPaid reports whether the order's fare has been collected
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// HoldsInventory reports whether the order currently counts against the
// flight's available_seats counter
func (o *Order) HoldsInventory() bool {
	return o.PaymentStatus == PaymentStatusPending || o.PaymentStatus == PaymentStatusPaid
}

// BookFlightRequest represents the request to create an order
type BookFlightRequest struct {
	FlightID      string     `json:"flight_id" binding:"required"`
	CabinClass    CabinClass `json:"cabin_class" binding:"required"`
	PassengerName string     `json:"passenger_name" binding:"required"`
	PassengerID   string     `json:"passenger_id" binding:"required"`
}

// Validate validates the booking request
func (r *BookFlightRequest) Validate() error {
	if !r.CabinClass.Valid() {
		return errors.New("cabin_class must be one of: economy, business, first")
	}
	return nil
}

// ConfirmPaymentRequest represents the request to pay for an order
type ConfirmPaymentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// SelectSeatRequest represents the request to assign a seat to a paid order
type SelectSeatRequest struct {
	Preference SeatPreference `json:"preference"`
}

// Validate validates the seat preference
func (r *SelectSeatRequest) Validate() error {
	switch r.Preference {
	case "", PreferenceNone, PreferenceWindow, PreferenceAisle:
		return nil
	}
	return errors.New("preference must be one of: none, window, aisle")
}

// RescheduleRequest represents the request to move an order to another flight
type RescheduleRequest struct {
	TargetFlightID   string     `json:"target_flight_id" binding:"required"`
	TargetCabinClass CabinClass `json:"target_cabin_class" binding:"required"`
	PaymentMethod    string     `json:"payment_method"`
}

// Validate validates the reschedule request
func (r *RescheduleRequest) Validate() error {
	if !r.TargetCabinClass.Valid() {
		return errors.New("target_cabin_class must be one of: economy, business, first")
	}
	return nil
}

// RescheduleResult reports the outcome of a committed reschedule
type RescheduleResult struct {
	OrderID         uuid.UUID  `json:"order_id"`
	FlightID        string     `json:"flight_id"`
	CabinClass      CabinClass `json:"cabin_class"`
	NewTicketPrice  float64    `json:"new_ticket_price"`
	PriceDifference float64    `json:"price_difference"`
}
