package pricing

import (
	"github.com/skytrails/airline-reservation-backend/internal/models"
)

// Refund window thresholds, in hours before departure
const (
	FullRefundAfterHours = 24  // more than this: full refund, no fee
	RefundCutoffHours    = 2   // at or under this: refund denied
	LateRefundFeeRate    = 0.2 // fee charged inside the 2-24h window
)

// RefundQuote is the amount returned to the passenger and the fee retained
type RefundQuote struct {
	Amount float64 `json:"amount"`
	Fee    float64 `json:"fee"`
}

// QuoteRefund computes the refundable amount for a ticket given the hours
// remaining until departure, evaluated at the instant the refund is requested.
// Returns RefundDeniedError inside the cutoff window; no state is consulted.
func QuoteRefund(ticketPrice, hoursUntilDeparture float64) (RefundQuote, error) {
	if hoursUntilDeparture <= RefundCutoffHours {
		return RefundQuote{}, &models.RefundDeniedError{
			HoursUntilDeparture: hoursUntilDeparture,
			CutoffHours:         RefundCutoffHours,
		}
	}
	if hoursUntilDeparture > FullRefundAfterHours {
		return RefundQuote{Amount: roundCents(ticketPrice), Fee: 0}, nil
	}
	fee := roundCents(ticketPrice * LateRefundFeeRate)
	return RefundQuote{Amount: roundCents(ticketPrice - fee), Fee: fee}, nil
}
