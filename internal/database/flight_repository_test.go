package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skytrails/airline-reservation-backend/internal/models"
)

func newMockDB(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

func flightRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"flight_id", "flight_number", "aircraft_id", "departure_airport",
		"arrival_airport", "departure_time", "arrival_time", "base_price",
		"available_seats", "status", "gate", "terminal", "created_at", "updated_at",
	})
}

func TestFlightGetByID(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewFlightRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id`).
			WithArgs("CA1234").
			WillReturnRows(flightRows().AddRow(
				"CA1234", "CA1234", "B738-01", "PEK", "SHA",
				now.Add(48*time.Hour), now.Add(50*time.Hour), 1200.00,
				150, "scheduled", nil, nil, now, now,
			))

		flight, err := repo.GetByID("CA1234")
		require.NoError(t, err)
		assert.Equal(t, "CA1234", flight.FlightID)
		assert.Equal(t, 1200.00, flight.BasePrice)
		assert.Equal(t, models.FlightStatusScheduled, flight.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id`).
			WithArgs("XX0000").
			WillReturnRows(flightRows())

		flight, err := repo.GetByID("XX0000")
		assert.Nil(t, flight)
		assert.ErrorIs(t, err, models.ErrFlightNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFlightReserveSeat(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewFlightRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE flights`).
			WithArgs("CA1234").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ReserveSeat("CA1234")
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Sold Out", func(t *testing.T) {
		now := time.Now()
		mock.ExpectExec(`UPDATE flights`).
			WithArgs("CA1234").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id`).
			WithArgs("CA1234").
			WillReturnRows(flightRows().AddRow(
				"CA1234", "CA1234", "B738-01", "PEK", "SHA",
				now.Add(48*time.Hour), now.Add(50*time.Hour), 1200.00,
				0, "scheduled", nil, nil, now, now,
			))

		err := repo.ReserveSeat("CA1234")
		var unavailable *models.SeatUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, "CA1234", unavailable.FlightID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Flight Missing", func(t *testing.T) {
		mock.ExpectExec(`UPDATE flights`).
			WithArgs("XX0000").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE flight_id`).
			WithArgs("XX0000").
			WillReturnRows(flightRows())

		err := repo.ReserveSeat("XX0000")
		assert.ErrorIs(t, err, models.ErrFlightNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFlightReleaseSeat(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewFlightRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE flights`).
			WithArgs("CA1234").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ReleaseSeat("CA1234")
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFlightUpdateStatus(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewFlightRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE flights`).
			WithArgs("CA1234", models.FlightStatusDelayed).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus("CA1234", models.FlightStatusDelayed)
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE flights`).
			WithArgs("XX0000", models.FlightStatusCancelled).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus("XX0000", models.FlightStatusCancelled)
		assert.ErrorIs(t, err, models.ErrFlightNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
