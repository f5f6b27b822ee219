package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/skytrails/airline-reservation-backend/internal/database"
	"github.com/skytrails/airline-reservation-backend/internal/models"
	"github.com/skytrails/airline-reservation-backend/internal/pricing"
)

// FlightService serves flight search and admin status management.
// Search results are cached in Redis; the cache is advisory and every
// miss or cache failure falls through to the store.
type FlightService struct {
	db       database.TxRunner
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *logrus.Logger
}

// NewFlightService creates a new FlightService. cache may be nil, in
// which case every search hits the store directly.
func NewFlightService(db database.TxRunner, cache *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *FlightService {
	return &FlightService{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Search returns bookable flights on a route and day, with per-cabin
// fares computed from the base price.
func (s *FlightService) Search(ctx context.Context, req *models.SearchFlightsRequest) ([]models.FlightSearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("flights:%s:%s:%s", req.DepartureAirport, req.ArrivalAirport, req.DepartureDate)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var results []models.FlightSearchResult
			if jsonErr := json.Unmarshal([]byte(cached), &results); jsonErr == nil {
				return results, nil
			}
		} else if err != redis.Nil {
			s.logger.WithError(err).Warn("Flight cache read failed")
		}
	}

	flights, err := database.NewFlightRepository(s.db).Search(req)
	if err != nil {
		return nil, err
	}

	results := make([]models.FlightSearchResult, 0, len(flights))
	for _, flight := range flights {
		results = append(results, models.FlightSearchResult{
			Flight:       flight,
			EconomyFare:  pricing.Fare(flight.BasePrice, models.CabinEconomy),
			BusinessFare: pricing.Fare(flight.BasePrice, models.CabinBusiness),
			FirstFare:    pricing.Fare(flight.BasePrice, models.CabinFirst),
		})
	}

	if s.cache != nil {
		payload, err := json.Marshal(results)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.WithError(err).Warn("Flight cache write failed")
			}
		}
	}

	return results, nil
}

// GetFlight retrieves a single flight
func (s *FlightService) GetFlight(flightID string) (*models.Flight, error) {
	return database.NewFlightRepository(s.db).GetByID(flightID)
}

// UpdateStatus transitions a flight's status. Completing a flight also
// settles its paid active orders. The route's cached search results are
// dropped so the new status shows immediately.
func (s *FlightService) UpdateStatus(ctx context.Context, flightID string, req *models.UpdateFlightStatusRequest) (*models.Flight, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var flight *models.Flight
	err := s.db.WithTx(func(tx database.DB) error {
		flights := database.NewFlightRepository(tx)
		orders := database.NewOrderRepository(tx)

		if err := flights.UpdateStatus(flightID, req.Status); err != nil {
			return err
		}

		if req.Status == models.FlightStatusCompleted {
			settled, err := orders.CompleteForFlight(flightID)
			if err != nil {
				return err
			}
			s.logger.WithFields(logrus.Fields{
				"flight_id": flightID,
				"orders":    settled,
			}).Info("Flight completed, orders settled")
		}

		var err error
		flight, err = flights.GetByID(flightID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cacheKey := fmt.Sprintf("flights:%s:%s:%s",
			flight.DepartureAirport, flight.ArrivalAirport,
			flight.DepartureTime.Format("2006-01-02"))
		if err := s.cache.Del(ctx, cacheKey).Err(); err != nil {
			s.logger.WithError(err).Warn("Flight cache invalidation failed")
		}
	}

	return flight, nil
}
