// Package settlement computes the final bill for a stay and settles it
// against the wallet at checkout. Settlement is fail-open by policy: when
// balances cannot cover the amount due, checkout still completes and the
// shortfall is recorded on the booking for out-of-band collection.
package settlement

import (
	"context"
	"strconv"
	"time"

	"stayhub/internal/errors"
	"stayhub/internal/models"
	"stayhub/internal/repositories"
	"stayhub/internal/services/ledger"
	"stayhub/internal/services/notification"
	"stayhub/internal/utils/keylock"

	"github.com/google/uuid"
)

// Payment options
const (
	OptionUseBonus    = "use_bonus"
	OptionUseMainOnly = "use_main_only"
)

// Bill is the itemized stay cost at a point in time.
type Bill struct {
	Nights         int   `json:"nights"`
	RoomPrice      int64 `json:"room_price"`
	ServicePrice   int64 `json:"service_price"`
	EstimatedTotal int64 `json:"estimated_total"`
	AlreadyPaid    int64 `json:"already_paid"`
	AmountDue      int64 `json:"amount_due"`
}

// Service is the checkout settlement contract.
type Service interface {
	ComputeBill(ctx context.Context, bookingID uint) (*Bill, error)
	Settle(ctx context.Context, bookingID uint, paymentOption, note string) (*models.Booking, error)
	Invoice(ctx context.Context, bookingID uint) (*models.Invoice, error)
}

type service struct {
	store    repositories.Store
	ledger   ledger.Service
	notifier notification.Sink
	locks    *keylock.KeyedMutex
}

// NewService creates the settlement service. locks must be the same keyed
// mutex the booking service uses so checkout serializes with other
// transitions for the booking.
func NewService(store repositories.Store, ledgerSvc ledger.Service, notifier notification.Sink, locks *keylock.KeyedMutex) Service {
	if store == nil {
		panic("store is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	if locks == nil {
		locks = keylock.New()
	}
	return &service{
		store:    store,
		ledger:   ledgerSvc,
		notifier: notifier,
		locks:    locks,
	}
}

func (s *service) ComputeBill(ctx context.Context, bookingID uint) (*Bill, error) {
	booking, err := s.store.Bookings().GetByID(bookingID)
	if err != nil {
		if err == repositories.ErrBookingNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return computeBill(booking), nil
}

func computeBill(booking *models.Booking) *Bill {
	nights := booking.Nights()
	roomPrice := int64(nights) * booking.RoomNightlyPrice

	var servicePrice int64
	for i := range booking.Services {
		servicePrice += booking.Services[i].Total()
	}

	total := roomPrice + servicePrice
	alreadyPaid := booking.PaidFromWallet + booking.PaidFromBonus
	due := total - alreadyPaid
	if due < 0 {
		due = 0
	}

	return &Bill{
		Nights:         nights,
		RoomPrice:      roomPrice,
		ServicePrice:   servicePrice,
		EstimatedTotal: total,
		AlreadyPaid:    alreadyPaid,
		AmountDue:      due,
	}
}

// Settle closes the stay: it nets prior payments against the full bill,
// splits the remainder across bonus and main balances per the payment
// option, and freezes an invoice snapshot. Ledger debits, booking update and
// invoice creation commit as one transaction.
func (s *service) Settle(ctx context.Context, bookingID uint, paymentOption, note string) (*models.Booking, error) {
	switch paymentOption {
	case OptionUseBonus, OptionUseMainOnly:
	default:
		return nil, errors.Validation("unknown payment option %q", paymentOption)
	}

	unlock := s.locks.Lock(bookingID)
	defer unlock()

	booking, err := s.store.Bookings().GetByID(bookingID)
	if err != nil {
		if err == repositories.ErrBookingNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, errors.InvalidState(booking.Status)
	}
	if !booking.CheckedIn() {
		return nil, errors.InvalidState("not_checked_in")
	}

	if _, err := s.ledger.EnsureAccount(ctx, booking.UserID); err != nil {
		return nil, err
	}

	err = s.ledger.Apply(ctx, booking.UserID, func(ops ledger.Ops) error {
		bill := computeBill(booking)
		ref := strconv.FormatUint(uint64(booking.ID), 10)

		bonusDebit, mainDebit := splitDue(bill.AmountDue, paymentOption, ops.Account())
		if bonusDebit > 0 {
			if _, err := ops.Debit(bonusDebit, models.BucketBonus, models.TransactionTypePayment, ref, "booking"); err != nil {
				return err
			}
		}
		if mainDebit > 0 {
			if _, err := ops.Debit(mainDebit, models.BucketMain, models.TransactionTypePayment, ref, "booking"); err != nil {
				return err
			}
		}

		booking.PaidFromBonus += bonusDebit
		booking.PaidFromWallet += mainDebit
		booking.OutstandingAmount = bill.AmountDue - bonusDebit - mainDebit
		booking.TotalPrice = bill.EstimatedTotal
		booking.Status = models.BookingStatusCompleted
		if booking.OutstandingAmount == 0 {
			booking.PaymentStatus = models.PaymentStatusPaid
		}
		if err := ops.Store().Bookings().Update(booking); err != nil {
			return err
		}

		return ops.Store().Invoices().Create(buildInvoice(booking, bill, note))
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, booking.UserID, notification.EventBookingCheckedOut, models.JSON{
			"booking_id":  booking.ID,
			"outstanding": booking.OutstandingAmount,
		})
	}
	return booking, nil
}

// splitDue decides how much of the amount due each bucket covers. Under
// use_bonus the bonus balance is drained first; use_main_only never touches
// bonus. Shortfall is whatever neither bucket can cover.
func splitDue(due int64, paymentOption string, account *models.WalletAccount) (bonusDebit, mainDebit int64) {
	if due <= 0 {
		return 0, 0
	}
	if paymentOption == OptionUseBonus {
		bonusDebit = min64(due, account.BonusBalance)
	}
	mainDebit = min64(due-bonusDebit, account.MainBalance)
	return bonusDebit, mainDebit
}

func buildInvoice(booking *models.Booking, bill *Bill, note string) *models.Invoice {
	lines := []map[string]interface{}{
		{
			"description": "room",
			"quantity":    bill.Nights,
			"unit_price":  booking.RoomNightlyPrice,
			"total":       bill.RoomPrice,
		},
	}
	for i := range booking.Services {
		svc := &booking.Services[i]
		lines = append(lines, map[string]interface{}{
			"description": svc.Name,
			"service_id":  svc.ServiceID,
			"quantity":    svc.Quantity,
			"unit_price":  svc.Price,
			"total":       svc.Total(),
		})
	}

	return &models.Invoice{
		Number:         "INV-" + uuid.NewString(),
		BookingID:      booking.ID,
		UserID:         booking.UserID,
		Nights:         bill.Nights,
		RoomPrice:      bill.RoomPrice,
		ServicePrice:   bill.ServicePrice,
		Total:          bill.EstimatedTotal,
		PaidFromWallet: booking.PaidFromWallet,
		PaidFromBonus:  booking.PaidFromBonus,
		Outstanding:    booking.OutstandingAmount,
		Note:           note,
		Lines:          models.JSON{"items": lines},
		IssuedAt:       time.Now(),
	}
}

func (s *service) Invoice(ctx context.Context, bookingID uint) (*models.Invoice, error) {
	invoice, err := s.store.Invoices().GetByBookingID(bookingID)
	if err != nil {
		if err == repositories.ErrInvoiceNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return invoice, nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
