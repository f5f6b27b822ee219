package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/skytrails/airline-reservation-backend/internal/models"
)

// seatConstraint is the partial unique index guarding one live order
// per (flight, seat). Refunded and cancelled orders fall outside it, so
// their seats become assignable again.
const seatConstraint = "uniq_orders_flight_seat"

// OrderRepository handles database operations for the orders table
type OrderRepository struct {
	db DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `
	order_id, user_id, flight_id, passenger_name, passenger_id, cabin_class,
	seat_number, ticket_price, booking_time, payment_status, order_status,
	payment_method, payment_time, created_at, updated_at
`

// Create inserts a new order in its initial pending state
func (r *OrderRepository) Create(order *models.Order) error {
	query := `
		INSERT INTO orders (
			order_id, user_id, flight_id, passenger_name, passenger_id,
			cabin_class, seat_number, ticket_price, payment_status, order_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING booking_time, created_at, updated_at
	`

	if order.OrderID == uuid.Nil {
		order.OrderID = uuid.New()
	}

	err := r.db.QueryRow(
		query,
		order.OrderID, order.UserID, order.FlightID, order.PassengerName,
		order.PassengerID, order.CabinClass, order.SeatNumber,
		order.TicketPrice, order.PaymentStatus, order.OrderStatus,
	).Scan(&order.BookingTime, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID
func (r *OrderRepository) GetByID(orderID uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`

	var order models.Order
	err := r.db.Get(&order, query, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

// GetByIDForUpdate retrieves an order and row-locks it for the rest of
// the enclosing transaction. State checks made against the result hold
// until commit.
func (r *OrderRepository) GetByIDForUpdate(orderID uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1 FOR UPDATE`

	var order models.Order
	err := r.db.Get(&order, query, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	return &order, nil
}

// ListByUser retrieves all orders for a user, newest first
func (r *OrderRepository) ListByUser(userID uuid.UUID) ([]models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	orders := []models.Order{}
	if err := r.db.Select(&orders, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// MarkPaid records payment on a pending order. The predicates repeat
// the state check so a raced transition can never pay twice.
func (r *OrderRepository) MarkPaid(orderID uuid.UUID, paymentMethod string) error {
	query := `
		UPDATE orders
		SET payment_status = 'paid',
		    payment_method = $2,
		    payment_time = NOW(),
		    updated_at = NOW()
		WHERE order_id = $1
		  AND payment_status = 'pending'
		  AND order_status = 'active'
	`

	result, err := r.db.Exec(query, orderID, paymentMethod)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check payment update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("order %s is no longer payable", orderID)
	}

	return nil
}

// MarkRefunded moves a paid order to its terminal refunded state. The
// seat number is kept for the record; the seat uniqueness index ignores
// refunded orders, so the physical seat frees up immediately.
func (r *OrderRepository) MarkRefunded(orderID uuid.UUID) error {
	query := `
		UPDATE orders
		SET payment_status = 'refunded',
		    order_status = 'refunded',
		    updated_at = NOW()
		WHERE order_id = $1
		  AND payment_status = 'paid'
		  AND order_status = 'active'
	`

	result, err := r.db.Exec(query, orderID)
	if err != nil {
		return fmt.Errorf("failed to mark order refunded: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check refund update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("order %s is no longer refundable", orderID)
	}

	return nil
}

// AssignSeat writes a seat number onto an order. A unique-violation on
// the live-seat index means another order won the seat concurrently.
func (r *OrderRepository) AssignSeat(orderID uuid.UUID, flightID string, seatNumber string) error {
	query := `
		UPDATE orders
		SET seat_number = $2, updated_at = NOW()
		WHERE order_id = $1
		  AND order_status = 'active'
	`

	result, err := r.db.Exec(query, orderID, seatNumber)
	if err != nil {
		if isUniqueViolation(err, seatConstraint) {
			return &models.SeatConflictError{FlightID: flightID, SeatNumber: seatNumber}
		}
		return fmt.Errorf("failed to assign seat: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check seat assignment result: %w", err)
	}
	if rows == 0 {
		return models.ErrOrderNotFound
	}

	return nil
}

// TakenSeats returns the seat numbers currently held on a flight by
// orders that still occupy inventory.
func (r *OrderRepository) TakenSeats(flightID string) ([]string, error) {
	query := `
		SELECT seat_number
		FROM orders
		WHERE flight_id = $1
		  AND seat_number IS NOT NULL
		  AND order_status IN ('active', 'completed')
	`

	seats := []string{}
	if err := r.db.Select(&seats, query, flightID); err != nil {
		return nil, fmt.Errorf("failed to get taken seats: %w", err)
	}

	return seats, nil
}

// MoveToFlight rebooks an order onto a new flight. The seat assignment
// does not carry over; the passenger picks again on the new flight.
func (r *OrderRepository) MoveToFlight(orderID uuid.UUID, flightID string, cabinClass models.CabinClass, ticketPrice float64) error {
	query := `
		UPDATE orders
		SET flight_id = $2,
		    cabin_class = $3,
		    ticket_price = $4,
		    seat_number = NULL,
		    updated_at = NOW()
		WHERE order_id = $1
		  AND payment_status = 'paid'
		  AND order_status = 'active'
	`

	result, err := r.db.Exec(query, orderID, flightID, cabinClass, ticketPrice)
	if err != nil {
		return fmt.Errorf("failed to move order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check reschedule result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("order %s is no longer reschedulable", orderID)
	}

	return nil
}

// CompleteForFlight settles all paid active orders on a flight. Used
// when the flight itself completes. Returns the number of orders moved.
func (r *OrderRepository) CompleteForFlight(flightID string) (int64, error) {
	query := `
		UPDATE orders
		SET order_status = 'completed', updated_at = NOW()
		WHERE flight_id = $1
		  AND payment_status = 'paid'
		  AND order_status = 'active'
	`

	result, err := r.db.Exec(query, flightID)
	if err != nil {
		return 0, fmt.Errorf("failed to complete orders: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check completion result: %w", err)
	}

	return rows, nil
}

// CancelUnpaid cancels a pending unpaid order so its inventory can be
// released. Paid orders go through the refund path instead.
func (r *OrderRepository) CancelUnpaid(orderID uuid.UUID) error {
	query := `
		UPDATE orders
		SET order_status = 'cancelled', updated_at = NOW()
		WHERE order_id = $1
		  AND payment_status = 'pending'
		  AND order_status = 'active'
	`

	result, err := r.db.Exec(query, orderID)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check cancel result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("order %s is no longer cancellable", orderID)
	}

	return nil
}
