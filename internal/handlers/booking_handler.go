package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skytrails/airline-reservation-backend/internal/middleware"
	"github.com/skytrails/airline-reservation-backend/internal/models"
	"github.com/skytrails/airline-reservation-backend/internal/services"
)

// BookingHandler handles order lifecycle endpoints
type BookingHandler struct {
	bookingService *services.BookingService
	logger         *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *services.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// BookFlight creates a pending order on a flight
// POST /api/v1/orders
func (h *BookingHandler) BookFlight(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.BookFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	order, err := h.bookingService.BookFlight(userCtx.UserID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// ConfirmPayment pays for a pending order
// POST /api/v1/orders/:id/payment
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	order, err := h.bookingService.ConfirmPayment(userCtx.UserID, orderID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// CancelOrder cancels a pending unpaid order
// DELETE /api/v1/orders/:id
func (h *BookingHandler) CancelOrder(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.bookingService.CancelOrder(userCtx.UserID, orderID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// SelectSeat assigns a seat to a paid order
// POST /api/v1/orders/:id/seat
func (h *BookingHandler) SelectSeat(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req models.SelectSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	order, err := h.bookingService.SelectSeat(userCtx.UserID, orderID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// RequestRefund refunds a paid order under the departure-window policy
// POST /api/v1/orders/:id/refund
func (h *BookingHandler) RequestRefund(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req models.RequestRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	record, err := h.bookingService.RequestRefund(userCtx.UserID, orderID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// Reschedule moves a paid order to another flight
// POST /api/v1/orders/:id/reschedule
func (h *BookingHandler) Reschedule(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	result, err := h.bookingService.Reschedule(userCtx.UserID, orderID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOrder returns one of the caller's orders
// GET /api/v1/orders/:id
func (h *BookingHandler) GetOrder(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.bookingService.GetOrder(userCtx.UserID, orderID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders returns the caller's orders, optionally filtered by status
// GET /api/v1/orders?status=active
func (h *BookingHandler) ListOrders(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	status := models.OrderStatus(c.Query("status"))
	switch status {
	case "", models.OrderStatusActive, models.OrderStatusCompleted,
		models.OrderStatusCancelled, models.OrderStatusRefunded:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	orders, err := h.bookingService.ListOrders(userCtx.UserID, status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}
