package models

import (
	"time"

	"github.com/google/uuid"
)

// RefundStatus represents the processing state of a refund record
type RefundStatus string

const (
	RefundStatusProcessing RefundStatus = "processing"
	RefundStatusCompleted  RefundStatus = "completed"
	RefundStatusDenied     RefundStatus = "denied"
)

// RefundRecord represents money returned for a refunded order.
// Exactly one record exists per refunded order; it is immutable once written.
type RefundRecord struct {
	RefundID     uuid.UUID    `json:"refund_id" db:"refund_id"`
	OrderID      uuid.UUID    `json:"order_id" db:"order_id"`
	RefundReason string       `json:"refund_reason" db:"refund_reason"`
	RefundAmount float64      `json:"refund_amount" db:"refund_amount"`
	RefundFee    float64      `json:"refund_fee" db:"refund_fee"`
	RefundTime   time.Time    `json:"refund_time" db:"refund_time"`
	RefundStatus RefundStatus `json:"refund_status" db:"refund_status"`
}

// RequestRefundRequest represents the request to refund a paid order
type RequestRefundRequest struct {
	Reason string `json:"reason" binding:"required"`
}
