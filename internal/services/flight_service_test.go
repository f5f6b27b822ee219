package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skytrails/airline-reservation-backend/internal/database"
	"github.com/skytrails/airline-reservation-backend/internal/models"
)

func newFlightService(t *testing.T) (*FlightService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	service := NewFlightService(
		&database.PostgresDB{DB: sqlx.NewDb(db, "sqlmock")},
		nil, // cache disabled in tests
		time.Minute,
		testLogger(),
	)

	return service, mock
}

func TestFlightSearch(t *testing.T) {
	t.Run("Computes Per Cabin Fares", func(t *testing.T) {
		service, mock := newFlightService(t)

		departure := fixedNow.Add(48 * time.Hour)
		mock.ExpectQuery(`SELECT (.+) FROM flights`).
			WithArgs("PEK", "SHA", "2026-03-03").
			WillReturnRows(sqlmock.NewRows(flightColumns()).AddRow(
				"CA1234", "CA1234", "B738-01", "PEK", "SHA",
				departure, departure.Add(2*time.Hour), 1000.00,
				120, "scheduled", nil, nil, fixedNow, fixedNow,
			))

		results, err := service.Search(context.Background(), &models.SearchFlightsRequest{
			DepartureAirport: "PEK",
			ArrivalAirport:   "SHA",
			DepartureDate:    "2026-03-03",
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 1000.00, results[0].EconomyFare)
		assert.Equal(t, 2500.00, results[0].BusinessFare)
		assert.Equal(t, 3500.00, results[0].FirstFare)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rejects Same Route Endpoints", func(t *testing.T) {
		service, _ := newFlightService(t)

		_, err := service.Search(context.Background(), &models.SearchFlightsRequest{
			DepartureAirport: "PEK",
			ArrivalAirport:   "PEK",
			DepartureDate:    "2026-03-03",
		})
		assert.Error(t, err)
	})
}

func TestFlightUpdateStatus(t *testing.T) {
	t.Run("Completion Settles Paid Orders", func(t *testing.T) {
		service, mock := newFlightService(t)

		departure := fixedNow.Add(-2 * time.Hour)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE flights`).
			WithArgs("CA1234", models.FlightStatusCompleted).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE orders`).
			WithArgs("CA1234").
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id`).
			WithArgs("CA1234").
			WillReturnRows(sqlmock.NewRows(flightColumns()).AddRow(
				"CA1234", "CA1234", "B738-01", "PEK", "SHA",
				departure, departure.Add(2*time.Hour), 1000.00,
				100, "completed", nil, nil, fixedNow, fixedNow,
			))
		mock.ExpectCommit()

		flight, err := service.UpdateStatus(context.Background(), "CA1234", &models.UpdateFlightStatusRequest{
			Status: models.FlightStatusCompleted,
		})
		require.NoError(t, err)
		assert.Equal(t, models.FlightStatusCompleted, flight.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Delay Does Not Touch Orders", func(t *testing.T) {
		service, mock := newFlightService(t)

		departure := fixedNow.Add(12 * time.Hour)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE flights`).
			WithArgs("CA1234", models.FlightStatusDelayed).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id`).
			WithArgs("CA1234").
			WillReturnRows(sqlmock.NewRows(flightColumns()).AddRow(
				"CA1234", "CA1234", "B738-01", "PEK", "SHA",
				departure, departure.Add(2*time.Hour), 1000.00,
				100, "delayed", nil, nil, fixedNow, fixedNow,
			))
		mock.ExpectCommit()

		flight, err := service.UpdateStatus(context.Background(), "CA1234", &models.UpdateFlightStatusRequest{
			Status: models.FlightStatusDelayed,
		})
		require.NoError(t, err)
		assert.Equal(t, models.FlightStatusDelayed, flight.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Status Rejected", func(t *testing.T) {
		service, _ := newFlightService(t)

		_, err := service.UpdateStatus(context.Background(), "CA1234", &models.UpdateFlightStatusRequest{
			Status: "boarding",
		})
		assert.Error(t, err)
	})
}
