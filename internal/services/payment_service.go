package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ChargeResult reports a settled charge
type ChargeResult struct {
	TransactionID string
	Amount        float64
	Method        string
}

// PaymentGateway collects fares and reschedule surcharges. Outcomes are
// deterministic functions of the request; the caller owns retries.
type PaymentGateway interface {
	Charge(amount float64, method string) (*ChargeResult, error)
}

// SimulatedGateway is a PaymentGateway that settles every charge
// locally. Used until a real acquirer integration lands.
type SimulatedGateway struct {
	logger *logrus.Logger

	// FailNext makes the next charge fail, for tests.
	FailNext bool
}

// NewSimulatedGateway creates a new SimulatedGateway
func NewSimulatedGateway(logger *logrus.Logger) *SimulatedGateway {
	return &SimulatedGateway{logger: logger}
}

// Charge settles a charge
func (g *SimulatedGateway) Charge(amount float64, method string) (*ChargeResult, error) {
	if amount < 0 {
		return nil, fmt.Errorf("charge amount must not be negative: %.2f", amount)
	}
	if g.FailNext {
		g.FailNext = false
		return nil, fmt.Errorf("charge declined by gateway")
	}

	result := &ChargeResult{
		TransactionID: uuid.New().String(),
		Amount:        amount,
		Method:        method,
	}

	g.logger.WithFields(logrus.Fields{
		"transaction_id": result.TransactionID,
		"amount":         amount,
		"method":         method,
	}).Info("Charge settled")

	return result, nil
}
