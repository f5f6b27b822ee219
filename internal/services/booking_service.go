package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skytrails/airline-reservation-backend/internal/database"
	"github.com/skytrails/airline-reservation-backend/internal/models"
	"github.com/skytrails/airline-reservation-backend/internal/pricing"
	"github.com/skytrails/airline-reservation-backend/pkg/notify"
)

// seatPickAttempts bounds retries when concurrent passengers race for
// the same seat. Each attempt re-reads the taken set in a fresh
// transaction.
const seatPickAttempts = 3

// BookingService drives the order lifecycle: book, pay, seat, refund,
// reschedule. Every mutating operation runs inside one store
// transaction, so partial failures leave no trace.
type BookingService struct {
	db        database.TxRunner
	gateway   PaymentGateway
	allocator *SeatAllocator
	notifier  notify.Sender
	logger    *logrus.Logger

	// now is the clock used for departure-window decisions.
	now func() time.Time
}

// NewBookingService creates a new BookingService
func NewBookingService(
	db database.TxRunner,
	gateway PaymentGateway,
	allocator *SeatAllocator,
	notifier notify.Sender,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		db:        db,
		gateway:   gateway,
		allocator: allocator,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// BookFlight reserves one seat of inventory on a flight and opens a
// pending order priced at the cabin fare.
func (s *BookingService) BookFlight(userID uuid.UUID, req *models.BookFlightRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.db.WithTx(func(tx database.DB) error {
		flights := database.NewFlightRepository(tx)
		orders := database.NewOrderRepository(tx)

		flight, err := flights.GetByID(req.FlightID)
		if err != nil {
			return err
		}
		if !flight.IsBookable(s.now()) {
			return &models.SeatUnavailableError{FlightID: req.FlightID}
		}

		if err := flights.ReserveSeat(req.FlightID); err != nil {
			return err
		}

		order = &models.Order{
			UserID:        userID,
			FlightID:      req.FlightID,
			PassengerName: req.PassengerName,
			PassengerID:   req.PassengerID,
			CabinClass:    req.CabinClass,
			TicketPrice:   pricing.Fare(flight.BasePrice, req.CabinClass),
			PaymentStatus: models.PaymentStatusPending,
			OrderStatus:   models.OrderStatusActive,
		}
		return orders.Create(order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":  order.OrderID,
		"flight_id": order.FlightID,
		"cabin":     order.CabinClass,
		"price":     order.TicketPrice,
	}).Info("Order created")

	s.sendNotification(userID, notify.TemplateBookingConfirmed, map[string]string{
		"order_id":  order.OrderID.String(),
		"flight_id": order.FlightID,
		"price":     fmt.Sprintf("%.2f", order.TicketPrice),
	})

	return order, nil
}

// ConfirmPayment charges the order's fare and marks it paid. Paying an
// order twice is rejected, not double-charged.
func (s *BookingService) ConfirmPayment(userID uuid.UUID, orderID uuid.UUID, req *models.ConfirmPaymentRequest) (*models.Order, error) {
	var order *models.Order
	err := s.db.WithTx(func(tx database.DB) error {
		orders := database.NewOrderRepository(tx)

		current, err := s.lockOwnedOrder(orders, userID, orderID)
		if err != nil {
			return err
		}
		if current.PaymentStatus != models.PaymentStatusPending || current.OrderStatus != models.OrderStatusActive {
			return &models.InvalidStateTransitionError{
				Operation:     "confirm payment",
				PaymentStatus: current.PaymentStatus,
				OrderStatus:   current.OrderStatus,
			}
		}

		if _, err := s.gateway.Charge(current.TicketPrice, req.PaymentMethod); err != nil {
			return fmt.Errorf("payment failed: %w", err)
		}

		if err := orders.MarkPaid(orderID, req.PaymentMethod); err != nil {
			return err
		}

		order, err = orders.GetByID(orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"amount":   order.TicketPrice,
		"method":   req.PaymentMethod,
	}).Info("Payment confirmed")

	s.sendNotification(userID, notify.TemplatePaymentReceived, map[string]string{
		"order_id": orderID.String(),
		"amount":   fmt.Sprintf("%.2f", order.TicketPrice),
	})

	return order, nil
}

// CancelOrder cancels a pending unpaid order and returns its inventory
// unit to the flight. Paid orders go through the refund path instead.
func (s *BookingService) CancelOrder(userID uuid.UUID, orderID uuid.UUID) (*models.Order, error) {
	var order *models.Order
	err := s.db.WithTx(func(tx database.DB) error {
		orders := database.NewOrderRepository(tx)
		flights := database.NewFlightRepository(tx)

		current, err := s.lockOwnedOrder(orders, userID, orderID)
		if err != nil {
			return err
		}
		if current.PaymentStatus != models.PaymentStatusPending || current.OrderStatus != models.OrderStatusActive {
			return &models.InvalidStateTransitionError{
				Operation:     "cancel",
				PaymentStatus: current.PaymentStatus,
				OrderStatus:   current.OrderStatus,
			}
		}

		if err := orders.CancelUnpaid(orderID); err != nil {
			return err
		}
		if err := flights.ReleaseSeat(current.FlightID); err != nil {
			return err
		}

		order, err = orders.GetByID(orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":  orderID,
		"flight_id": order.FlightID,
	}).Info("Order cancelled")

	return order, nil
}

// SelectSeat assigns a concrete seat to a paid order. Losing a seat
// race is retried with a different seat a bounded number of times.
func (s *BookingService) SelectSeat(userID uuid.UUID, orderID uuid.UUID, req *models.SelectSeatRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < seatPickAttempts; attempt++ {
		order, err := s.trySelectSeat(userID, orderID, req.Preference)
		if err == nil {
			return order, nil
		}

		var conflict *models.SeatConflictError
		if !errors.As(err, &conflict) {
			return nil, err
		}

		lastErr = err
		s.logger.WithFields(logrus.Fields{
			"order_id": orderID,
			"seat":     conflict.SeatNumber,
			"attempt":  attempt + 1,
		}).Warn("Seat taken concurrently, retrying")
	}

	return nil, lastErr
}

func (s *BookingService) trySelectSeat(userID uuid.UUID, orderID uuid.UUID, preference models.SeatPreference) (*models.Order, error) {
	var order *models.Order
	err := s.db.WithTx(func(tx database.DB) error {
		orders := database.NewOrderRepository(tx)
		flights := database.NewFlightRepository(tx)
		aircraft := database.NewAircraftRepository(tx)

		current, err := s.lockOwnedOrder(orders, userID, orderID)
		if err != nil {
			return err
		}
		if !current.IsPaid() || current.OrderStatus != models.OrderStatusActive {
			return &models.InvalidStateTransitionError{
				Operation:     "select seat",
				PaymentStatus: current.PaymentStatus,
				OrderStatus:   current.OrderStatus,
			}
		}

		flight, err := flights.GetByID(current.FlightID)
		if err != nil {
			return err
		}
		plane, err := aircraft.GetByID(flight.AircraftID)
		if err != nil {
			return err
		}
		taken, err := orders.TakenSeats(current.FlightID)
		if err != nil {
			return err
		}

		seat, err := s.allocator.Pick(plane, current.FlightID, current.CabinClass, preference, taken)
		if err != nil {
			return err
		}

		if err := orders.AssignSeat(orderID, current.FlightID, seat); err != nil {
			return err
		}

		order, err = orders.GetByID(orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"seat":     *order.SeatNumber,
	}).Info("Seat assigned")

	return order, nil
}

// RequestRefund refunds a paid order according to the departure-window
// policy. Refunding an already refunded order returns the original
// record unchanged.
func (s *BookingService) RequestRefund(userID uuid.UUID, orderID uuid.UUID, req *models.RequestRefundRequest) (*models.RefundRecord, error) {
	var record *models.RefundRecord
	var alreadyRefunded bool

	err := s.db.WithTx(func(tx database.DB) error {
		orders := database.NewOrderRepository(tx)
		flights := database.NewFlightRepository(tx)
		refunds := database.NewRefundRepository(tx)

		current, err := s.lockOwnedOrder(orders, userID, orderID)
		if err != nil {
			return err
		}

		if current.PaymentStatus == models.PaymentStatusRefunded {
			existing, err := refunds.GetByOrderID(orderID)
			if err != nil {
				return err
			}
			if existing == nil {
				return fmt.Errorf("order %s refunded but no refund record exists", orderID)
			}
			record = existing
			alreadyRefunded = true
			return nil
		}

		if !current.IsPaid() || current.OrderStatus != models.OrderStatusActive {
			return &models.InvalidStateTransitionError{
				Operation:     "refund",
				PaymentStatus: current.PaymentStatus,
				OrderStatus:   current.OrderStatus,
			}
		}

		flight, err := flights.GetByID(current.FlightID)
		if err != nil {
			return err
		}

		quote, err := pricing.QuoteRefund(current.TicketPrice, flight.HoursUntilDeparture(s.now()))
		if err != nil {
			return err
		}

		if err := orders.MarkRefunded(orderID); err != nil {
			return err
		}
		if err := flights.ReleaseSeat(current.FlightID); err != nil {
			return err
		}

		record = &models.RefundRecord{
			OrderID:      orderID,
			RefundReason: req.Reason,
			RefundAmount: quote.Amount,
			RefundFee:    quote.Fee,
			RefundStatus: models.RefundStatusCompleted,
		}
		return refunds.Create(record)
	})
	if err != nil {
		return nil, err
	}

	if alreadyRefunded {
		return record, nil
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"amount":   record.RefundAmount,
		"fee":      record.RefundFee,
	}).Info("Refund processed")

	s.sendNotification(userID, notify.TemplateRefundProcessed, map[string]string{
		"order_id": orderID.String(),
		"amount":   fmt.Sprintf("%.2f", record.RefundAmount),
		"fee":      fmt.Sprintf("%.2f", record.RefundFee),
	})

	return record, nil
}

// Reschedule moves a paid order to another bookable flight, charging or
// crediting the fare difference. The seat does not carry over.
func (s *BookingService) Reschedule(userID uuid.UUID, orderID uuid.UUID, req *models.RescheduleRequest) (*models.RescheduleResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var result *models.RescheduleResult
	err := s.db.WithTx(func(tx database.DB) error {
		orders := database.NewOrderRepository(tx)
		flights := database.NewFlightRepository(tx)

		current, err := s.lockOwnedOrder(orders, userID, orderID)
		if err != nil {
			return err
		}
		if !current.IsPaid() || current.OrderStatus != models.OrderStatusActive {
			return &models.InvalidStateTransitionError{
				Operation:     "reschedule",
				PaymentStatus: current.PaymentStatus,
				OrderStatus:   current.OrderStatus,
			}
		}
		if req.TargetFlightID == current.FlightID && req.TargetCabinClass == current.CabinClass {
			return fmt.Errorf("order %s is already on that flight and cabin", orderID)
		}

		target, err := flights.GetByID(req.TargetFlightID)
		if err != nil {
			return err
		}
		if !target.IsBookable(s.now()) {
			return &models.NoSeatAvailableError{FlightID: req.TargetFlightID, CabinClass: req.TargetCabinClass}
		}

		// A cabin change on the same flight keeps the order's existing
		// inventory unit; only a flight change moves it. Take the new
		// seat before giving back the old one, so a full target flight
		// fails the whole operation cleanly.
		if req.TargetFlightID != current.FlightID {
			if err := flights.ReserveSeat(req.TargetFlightID); err != nil {
				var unavailable *models.SeatUnavailableError
				if errors.As(err, &unavailable) {
					return &models.NoSeatAvailableError{FlightID: req.TargetFlightID, CabinClass: req.TargetCabinClass}
				}
				return err
			}
			if err := flights.ReleaseSeat(current.FlightID); err != nil {
				return err
			}
		}

		newPrice := pricing.Fare(target.BasePrice, req.TargetCabinClass)
		difference := pricing.PriceDifference(target.BasePrice, req.TargetCabinClass, current.TicketPrice)

		if difference > 0 {
			if _, err := s.gateway.Charge(difference, req.PaymentMethod); err != nil {
				return fmt.Errorf("surcharge payment failed: %w", err)
			}
		}

		if err := orders.MoveToFlight(orderID, req.TargetFlightID, req.TargetCabinClass, newPrice); err != nil {
			return err
		}

		result = &models.RescheduleResult{
			OrderID:         orderID,
			FlightID:        req.TargetFlightID,
			CabinClass:      req.TargetCabinClass,
			NewTicketPrice:  newPrice,
			PriceDifference: difference,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":   orderID,
		"flight_id":  result.FlightID,
		"difference": result.PriceDifference,
	}).Info("Order rescheduled")

	s.sendNotification(userID, notify.TemplateRescheduleConfirmed, map[string]string{
		"order_id":   orderID.String(),
		"flight_id":  result.FlightID,
		"difference": fmt.Sprintf("%.2f", result.PriceDifference),
	})

	return result, nil
}

// GetOrder retrieves one of the user's orders
func (s *BookingService) GetOrder(userID uuid.UUID, orderID uuid.UUID) (*models.Order, error) {
	order, err := database.NewOrderRepository(s.db).GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, models.ErrOrderNotFound
	}
	return order, nil
}

// ListOrders retrieves the user's orders, optionally filtered by status
func (s *BookingService) ListOrders(userID uuid.UUID, status models.OrderStatus) ([]models.Order, error) {
	orders, err := database.NewOrderRepository(s.db).ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return orders, nil
	}

	filtered := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.OrderStatus == status {
			filtered = append(filtered, order)
		}
	}
	return filtered, nil
}

// lockOwnedOrder row-locks an order and checks ownership. Foreign
// orders read as not found so IDs cannot be probed.
func (s *BookingService) lockOwnedOrder(orders *database.OrderRepository, userID uuid.UUID, orderID uuid.UUID) (*models.Order, error) {
	order, err := orders.GetByIDForUpdate(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, models.ErrOrderNotFound
	}
	return order, nil
}

// sendNotification delivers best-effort; failures are logged, never
// propagated to the caller.
func (s *BookingService) sendNotification(userID uuid.UUID, templateID string, vars map[string]string) {
	contact := userID.String()
	if user, err := database.NewUserRepository(s.db).GetByID(userID); err == nil {
		contact = user.Username
	}

	if err := s.notifier.Send(contact, templateID, vars); err != nil {
		s.logger.WithError(err).WithField("template", templateID).Warn("Notification delivery failed")
	}
}
