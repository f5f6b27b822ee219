package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skytrails/airline-reservation-backend/internal/models"
	"github.com/skytrails/airline-reservation-backend/internal/services"
)

// FlightHandler handles flight search and admin status endpoints
type FlightHandler struct {
	flightService *services.FlightService
	logger        *logrus.Logger
}

// NewFlightHandler creates a new FlightHandler
func NewFlightHandler(flightService *services.FlightService, logger *logrus.Logger) *FlightHandler {
	return &FlightHandler{
		flightService: flightService,
		logger:        logger,
	}
}

// Search returns bookable flights on a route and day with per-cabin fares
// GET /api/v1/flights?from=PEK&to=SHA&date=2026-09-01
func (h *FlightHandler) Search(c *gin.Context) {
	var req models.SearchFlightsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query: " + err.Error()})
		return
	}

	results, err := h.flightService.Search(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"flights": results, "count": len(results)})
}

// GetFlight returns a single flight
// GET /api/v1/flights/:id
func (h *FlightHandler) GetFlight(c *gin.Context) {
	flight, err := h.flightService.GetFlight(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, flight)
}

// UpdateStatus transitions a flight's operational status (admin only)
// PATCH /api/v1/flights/:id/status
func (h *FlightHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateFlightStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	flight, err := h.flightService.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, flight)
}
