package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skytrails/airline-reservation-backend/internal/models"
)

func TestFare(t *testing.T) {
	tests := []struct {
		name      string
		basePrice float64
		class     models.CabinClass
		want      float64
	}{
		{"economy is base price", 1000, models.CabinEconomy, 1000.00},
		{"business is 2.5x", 1000, models.CabinBusiness, 2500.00},
		{"first is 3.5x", 1000, models.CabinFirst, 3500.00},
		{"rounds to cents", 580.33, models.CabinBusiness, 1450.83},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fare(tt.basePrice, tt.class))
		})
	}
}

func TestQuoteRefund(t *testing.T) {
	t.Run("more than 24h out is fully refundable", func(t *testing.T) {
		quote, err := QuoteRefund(1200, 30)
		require.NoError(t, err)
		assert.Equal(t, 1200.00, quote.Amount)
		assert.Equal(t, 0.00, quote.Fee)
	})

	t.Run("2-24h window charges 20 percent fee", func(t *testing.T) {
		quote, err := QuoteRefund(1200, 10)
		require.NoError(t, err)
		assert.Equal(t, 960.00, quote.Amount)
		assert.Equal(t, 240.00, quote.Fee)
	})

	t.Run("inside 2h cutoff is denied", func(t *testing.T) {
		_, err := QuoteRefund(1200, 1)
		require.Error(t, err)

		var denied *models.RefundDeniedError
		require.True(t, errors.As(err, &denied))
		assert.Equal(t, 1.0, denied.HoursUntilDeparture)
		assert.Equal(t, 2.0, denied.CutoffHours)
	})

	t.Run("exactly 2h is denied", func(t *testing.T) {
		_, err := QuoteRefund(1200, 2)
		var denied *models.RefundDeniedError
		require.True(t, errors.As(err, &denied))
	})

	t.Run("exactly 24h is in the fee window", func(t *testing.T) {
		quote, err := QuoteRefund(1000, 24)
		require.NoError(t, err)
		assert.Equal(t, 800.00, quote.Amount)
		assert.Equal(t, 200.00, quote.Fee)
	})

	t.Run("already departed is denied", func(t *testing.T) {
		_, err := QuoteRefund(1200, -3)
		var denied *models.RefundDeniedError
		require.True(t, errors.As(err, &denied))
	})
}

func TestPriceDifference(t *testing.T) {
	t.Run("economy to business surcharge", func(t *testing.T) {
		// original economy fare 1000 (base 1000 x 1.0), target business 2500
		diff := PriceDifference(1000, models.CabinBusiness, 1000)
		assert.Equal(t, 1500.00, diff)
	})

	t.Run("cheaper target yields credit", func(t *testing.T) {
		diff := PriceDifference(600, models.CabinEconomy, 1000)
		assert.Equal(t, -400.00, diff)
	})

	t.Run("same fare is zero", func(t *testing.T) {
		diff := PriceDifference(1000, models.CabinEconomy, 1000)
		assert.Equal(t, 0.00, diff)
	})
}
