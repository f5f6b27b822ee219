package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skytrails/airline-reservation-backend/internal/models"
)

// respondError translates domain errors into HTTP responses. Retryable
// failures carry a retryable flag so clients can back off and repeat.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var (
		seatUnavailable *models.SeatUnavailableError
		seatConflict    *models.SeatConflictError
		invalidState    *models.InvalidStateTransitionError
		refundDenied    *models.RefundDeniedError
		noSeat          *models.NoSeatAvailableError
		transient       *models.TransientError
	)

	switch {
	case errors.Is(err, models.ErrFlightNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})

	case errors.As(err, &seatUnavailable):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "seat_unavailable",
			"message":   err.Error(),
			"retryable": false,
		})

	case errors.As(err, &seatConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "seat_conflict",
			"message":   err.Error(),
			"retryable": true,
		})

	case errors.As(err, &invalidState):
		c.JSON(http.StatusConflict, gin.H{
			"error":          "invalid_state",
			"message":        err.Error(),
			"payment_status": invalidState.PaymentStatus,
			"order_status":   invalidState.OrderStatus,
		})

	case errors.As(err, &refundDenied):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":                 "refund_denied",
			"message":               err.Error(),
			"hours_until_departure": refundDenied.HoursUntilDeparture,
		})

	case errors.As(err, &noSeat):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "no_seat_available",
			"message":   err.Error(),
			"retryable": false,
		})

	case errors.As(err, &transient):
		logger.WithError(err).Warn("Transient store failure")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "transient_error",
			"message":   "Temporary failure, please retry",
			"retryable": true,
		})

	default:
		logger.WithError(err).Error("Request failed")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "request_failed",
			"message": err.Error(),
		})
	}
}
