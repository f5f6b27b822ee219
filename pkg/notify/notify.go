package notify

import (
	"github.com/sirupsen/logrus"
)

// Template identifiers for passenger notifications.
const (
	TemplateBookingConfirmed    = "booking_confirmed"
	TemplatePaymentReceived     = "payment_received"
	TemplateRefundProcessed     = "refund_processed"
	TemplateRescheduleConfirmed = "reschedule_confirmed"
)

// Sender delivers a templated notification to a passenger contact.
// Implementations must be safe for concurrent use.
type Sender interface {
	Send(contact string, templateID string, vars map[string]string) error
}

// LogSender writes notifications to the application log instead of an
// external channel. Stands in until an SMS or email provider is wired.
type LogSender struct {
	logger *logrus.Logger
}

// NewLogSender creates a new LogSender
func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the notification
func (s *LogSender) Send(contact string, templateID string, vars map[string]string) error {
	fields := logrus.Fields{
		"contact":  contact,
		"template": templateID,
	}
	for k, v := range vars {
		fields["var_"+k] = v
	}

	s.logger.WithFields(fields).Info("Notification sent")
	return nil
}
