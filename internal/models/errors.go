package models

import (
	"errors"
	"fmt"
)

// Not-found sentinels, returned by repositories
var (
	ErrFlightNotFound = errors.New("flight not found")
	ErrOrderNotFound  = errors.New("order not found")
	ErrUserNotFound   = errors.New("user not found")
)

// SeatUnavailableError means the flight's inventory is exhausted at booking
// time. Not retryable until a cancellation frees capacity.
type SeatUnavailableError struct {
	FlightID string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("no seats available on flight %s", e.FlightID)
}

// SeatConflictError means a concurrent caller won the race for a specific
// seat. Retryable by allocating a different seat.
type SeatConflictError struct {
	FlightID   string
	SeatNumber string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat %s on flight %s was taken by another order", e.SeatNumber, e.FlightID)
}

// InvalidStateTransitionError means the operation was attempted against an
// order in the wrong state. Surfaced verbatim to the caller.
type InvalidStateTransitionError struct {
	Operation     string
	PaymentStatus PaymentStatus
	OrderStatus   OrderStatus
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s not allowed: order is %s/%s", e.Operation, e.PaymentStatus, e.OrderStatus)
}

// RefundDeniedError means the order is outside its refund window. Carries the
// computed threshold so callers can render a message.
type RefundDeniedError struct {
	HoursUntilDeparture float64
	CutoffHours         float64
}

func (e *RefundDeniedError) Error() string {
	return fmt.Sprintf("refund denied: %.1f hours until departure, cutoff is %.0f hours", e.HoursUntilDeparture, e.CutoffHours)
}

// NoSeatAvailableError means a reschedule target or a seat-map partition has
// no free capacity. Not retryable for that target.
type NoSeatAvailableError struct {
	FlightID   string
	CabinClass CabinClass
}

func (e *NoSeatAvailableError) Error() string {
	if e.CabinClass != "" {
		return fmt.Sprintf("no %s seat available on flight %s", e.CabinClass, e.FlightID)
	}
	return fmt.Sprintf("no seat available on flight %s", e.FlightID)
}

// TransientError wraps store contention or timeouts. The whole operation was
// rolled back and is safe to retry.
type TransientError struct {
	Cause error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient store error: %v", e.Cause)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether the caller may safely retry the failed operation
func IsRetryable(err error) bool {
	var conflict *SeatConflictError
	var transient *TransientError
	return errors.As(err, &conflict) || errors.As(err, &transient)
}
