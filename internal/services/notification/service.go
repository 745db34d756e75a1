// Package notification is the fire-and-forget sink the core calls after a
// transition commits. Delivery transport (mail, push, webhooks) is an
// external concern; this implementation records the event and moves on.
// Nothing in the core ever awaits delivery inside a critical section.
package notification

import (
	"context"
	"log"

	"stayhub/internal/models"
)

// Events emitted by the core workflows.
const (
	EventDepositApproved     = "deposit_approved"
	EventDepositRejected     = "deposit_rejected"
	EventWithdrawalCompleted = "withdrawal_completed"
	EventWithdrawalRejected  = "withdrawal_rejected"
	EventWithdrawalConfirm   = "withdrawal_confirmation_requested"
	EventBookingConfirmed    = "booking_confirmed"
	EventBookingCancelled    = "booking_cancelled"
	EventBookingCheckedOut   = "booking_checked_out"
)

// Sink receives post-commit events.
type Sink interface {
	Notify(ctx context.Context, userID uint, event string, data models.JSON)
}

// Service is the default logging sink.
type Service struct{}

// NewService creates a new notification service.
func NewService() *Service {
	return &Service{}
}

func (s *Service) Notify(ctx context.Context, userID uint, event string, data models.JSON) {
	log.Printf("notify user=%d event=%s data=%v", userID, event, data)
}
