package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/skytrails/airline-reservation-backend/internal/models"
)

// RefundRepository handles database operations for the refunds table
type RefundRepository struct {
	db DB
}

// NewRefundRepository creates a new RefundRepository
func NewRefundRepository(db DB) *RefundRepository {
	return &RefundRepository{db: db}
}

// Create inserts a refund record. The orders uniqueness on order_id
// keeps the ledger at one refund per order.
func (r *RefundRepository) Create(refund *models.RefundRecord) error {
	query := `
		INSERT INTO refunds (
			refund_id, order_id, refund_amount, refund_fee,
			refund_reason, refund_status
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING refund_time
	`

	if refund.RefundID == uuid.Nil {
		refund.RefundID = uuid.New()
	}

	err := r.db.QueryRow(
		query,
		refund.RefundID, refund.OrderID, refund.RefundAmount, refund.RefundFee,
		refund.RefundReason, refund.RefundStatus,
	).Scan(&refund.RefundTime)
	if err != nil {
		return fmt.Errorf("failed to create refund: %w", err)
	}

	return nil
}

// GetByOrderID retrieves the refund record for an order, or nil when
// the order has never been refunded.
func (r *RefundRepository) GetByOrderID(orderID uuid.UUID) (*models.RefundRecord, error) {
	query := `
		SELECT refund_id, order_id, refund_amount, refund_fee,
		       refund_reason, refund_time, refund_status
		FROM refunds
		WHERE order_id = $1
	`

	var refund models.RefundRecord
	err := r.db.Get(&refund, query, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refund: %w", err)
	}

	return &refund, nil
}
