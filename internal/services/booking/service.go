// Package booking governs the reservation lifecycle. Status moves only
// through the transition table in transitions.go, and every transition for a
// single booking runs under that booking's mutex so double check-in or
// double checkout cannot happen.
package booking

import (
	"context"
	"strconv"
	"strings"
	"time"

	"stayhub/internal/errors"
	"stayhub/internal/models"
	"stayhub/internal/repositories"
	"stayhub/internal/services/ledger"
	"stayhub/internal/services/notification"
	"stayhub/internal/utils/keylock"
)

// Service is the booking state machine contract.
type Service interface {
	Create(ctx context.Context, userID uint, in CreateInput) (*models.Booking, error)
	PayDepositFromWallet(ctx context.Context, userID, bookingID uint) (*models.Booking, error)
	UploadProof(ctx context.Context, userID, bookingID uint, proofImage string) (*models.Booking, error)
	Approve(ctx context.Context, bookingID uint, approved bool, note string) (*models.Booking, error)
	CheckIn(ctx context.Context, bookingID uint) (*models.Booking, error)
	AddService(ctx context.Context, bookingID, serviceID uint, quantity int) (*models.Booking, error)
	ConfirmServiceDelivery(ctx context.Context, bookingID, lineID uint) (*models.BookingService, error)
	Cancel(ctx context.Context, userID, bookingID uint) (*models.Booking, error)
	Get(ctx context.Context, bookingID uint) (*models.Booking, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Booking, int64, error)
}

type service struct {
	store    repositories.Store
	ledger   ledger.Service
	rooms    RoomCatalog
	services ServiceCatalog
	notifier notification.Sink
	policy   DepositPolicy
	locks    *keylock.KeyedMutex
}

// NewService creates the booking service. The keyed mutex is shared with the
// settlement service so checkout serializes with every other transition for
// the same booking.
func NewService(
	store repositories.Store,
	ledgerSvc ledger.Service,
	rooms RoomCatalog,
	services ServiceCatalog,
	notifier notification.Sink,
	policy DepositPolicy,
	locks *keylock.KeyedMutex,
) Service {
	if store == nil {
		panic("store is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	if rooms == nil {
		panic("room catalog is required")
	}
	if services == nil {
		panic("service catalog is required")
	}
	if locks == nil {
		locks = keylock.New()
	}
	return &service{
		store:    store,
		ledger:   ledgerSvc,
		rooms:    rooms,
		services: services,
		notifier: notifier,
		policy:   policy,
		locks:    locks,
	}
}

func (s *service) Create(ctx context.Context, userID uint, in CreateInput) (*models.Booking, error) {
	if !in.CheckOut.After(in.CheckIn) {
		return nil, errors.Validation("check-out must be after check-in")
	}
	if in.Guests < 1 {
		return nil, errors.Validation("at least one guest is required")
	}
	if strings.TrimSpace(in.ContactName) == "" || strings.TrimSpace(in.ContactPhone) == "" {
		return nil, errors.Validation("contact name and phone are required")
	}

	room, err := s.rooms.Room(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID:           userID,
		HotelID:          room.HotelID,
		RoomID:           in.RoomID,
		CheckIn:          in.CheckIn,
		CheckOut:         in.CheckOut,
		Guests:           in.Guests,
		Status:           models.BookingStatusPendingDeposit,
		PaymentStatus:    models.PaymentStatusPending,
		RoomNightlyPrice: room.NightlyPrice,
		ContactName:      in.ContactName,
		ContactPhone:     in.ContactPhone,
		ContactEmail:     in.ContactEmail,
	}
	booking.TotalPrice = int64(booking.Nights()) * room.NightlyPrice
	booking.DepositAmount = s.policy.Amount(booking.TotalPrice)

	if err := s.store.Bookings().Create(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// PayDepositFromWallet funds the deposit directly from the wallet's main
// balance, skipping proof review. The debit and the move to confirmed
// commit together.
func (s *service) PayDepositFromWallet(ctx context.Context, userID, bookingID uint) (*models.Booking, error) {
	unlock := s.locks.Lock(bookingID)
	defer unlock()

	booking, err := s.get(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, errors.ErrNotFound
	}
	if booking.Status != models.BookingStatusPendingDeposit {
		return nil, errors.InvalidState(booking.Status)
	}

	if _, err := s.ledger.EnsureAccount(ctx, userID); err != nil {
		return nil, err
	}

	deposit := booking.DepositAmount
	err = s.ledger.Apply(ctx, userID, func(ops ledger.Ops) error {
		if ops.Account().AvailableBalance() < deposit {
			return errors.ErrInsufficientFunds
		}
		ref := strconv.FormatUint(uint64(bookingID), 10)
		if _, err := ops.Debit(deposit, models.BucketMain, models.TransactionTypePayment, ref, "booking"); err != nil {
			return err
		}
		booking.PaidFromWallet += deposit
		booking.Status = models.BookingStatusConfirmed
		return ops.Store().Bookings().Update(booking)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, booking, notification.EventBookingConfirmed)
	return booking, nil
}

// UploadProof attaches a transfer proof and queues the booking for human
// review. No ledger effect until approval.
func (s *service) UploadProof(ctx context.Context, userID, bookingID uint, proofImage string) (*models.Booking, error) {
	if strings.TrimSpace(proofImage) == "" {
		return nil, errors.Validation("proof image is required")
	}

	unlock := s.locks.Lock(bookingID)
	defer unlock()

	return s.transition(bookingID, func(booking *models.Booking) error {
		if booking.UserID != userID {
			return errors.ErrNotFound
		}
		if !canTransition(booking.Status, models.BookingStatusAwaitingApproval) {
			return errors.InvalidState(booking.Status)
		}
		booking.ProofImage = proofImage
		booking.Status = models.BookingStatusAwaitingApproval
		return nil
	})
}

// Approve settles a proof review: approval confirms the booking, rejection
// sends it back to pending_deposit.
func (s *service) Approve(ctx context.Context, bookingID uint, approved bool, note string) (*models.Booking, error) {
	unlock := s.locks.Lock(bookingID)
	defer unlock()

	target := models.BookingStatusConfirmed
	if !approved {
		target = models.BookingStatusPendingDeposit
	}

	booking, err := s.transition(bookingID, func(booking *models.Booking) error {
		if booking.Status != models.BookingStatusAwaitingApproval {
			return errors.InvalidState(booking.Status)
		}
		booking.Status = target
		booking.AdminNote = note
		return nil
	})
	if err != nil {
		return nil, err
	}

	if approved {
		s.notify(ctx, booking, notification.EventBookingConfirmed)
	}
	return booking, nil
}

func (s *service) CheckIn(ctx context.Context, bookingID uint) (*models.Booking, error) {
	unlock := s.locks.Lock(bookingID)
	defer unlock()

	return s.transition(bookingID, func(booking *models.Booking) error {
		if booking.Status != models.BookingStatusConfirmed {
			return errors.InvalidState(booking.Status)
		}
		if booking.CheckedIn() {
			return errors.InvalidState("checked_in")
		}
		now := time.Now()
		booking.ActualCheckIn = &now
		return nil
	})
}

// AddService attaches a service line to a confirmed booking, freezing its
// unit price at attach time.
func (s *service) AddService(ctx context.Context, bookingID, serviceID uint, quantity int) (*models.Booking, error) {
	if quantity < 1 {
		return nil, errors.Validation("quantity must be at least 1")
	}

	unlock := s.locks.Lock(bookingID)
	defer unlock()

	booking, err := s.get(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, errors.InvalidState(booking.Status)
	}

	info, err := s.services.Service(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	line := &models.BookingService{
		BookingID:            bookingID,
		ServiceID:            serviceID,
		Name:                 info.Name,
		Quantity:             quantity,
		Price:                info.Price,
		RequiresConfirmation: info.RequiresConfirmation,
		AddedAt:              time.Now(),
	}
	if err := s.store.Bookings().CreateService(line); err != nil {
		return nil, err
	}
	return s.get(bookingID)
}

func (s *service) ConfirmServiceDelivery(ctx context.Context, bookingID, lineID uint) (*models.BookingService, error) {
	unlock := s.locks.Lock(bookingID)
	defer unlock()

	line, err := s.store.Bookings().GetService(bookingID, lineID)
	if err != nil {
		if err == repositories.ErrBookingNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	if !line.RequiresConfirmation {
		return nil, errors.Validation("service does not require delivery confirmation")
	}
	if line.DeliveredAt != nil {
		return nil, errors.InvalidState("delivered")
	}

	now := time.Now()
	line.DeliveredAt = &now
	if err := s.store.Bookings().UpdateService(line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *service) Cancel(ctx context.Context, userID, bookingID uint) (*models.Booking, error) {
	unlock := s.locks.Lock(bookingID)
	defer unlock()

	booking, err := s.transition(bookingID, func(booking *models.Booking) error {
		if userID != 0 && booking.UserID != userID {
			return errors.ErrNotFound
		}
		if !canTransition(booking.Status, models.BookingStatusCancelled) {
			return errors.InvalidState(booking.Status)
		}
		booking.Status = models.BookingStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, booking, notification.EventBookingCancelled)
	return booking, nil
}

func (s *service) Get(ctx context.Context, bookingID uint) (*models.Booking, error) {
	return s.get(bookingID)
}

func (s *service) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Booking, int64, error) {
	return s.store.Bookings().ListByUser(userID, limit, offset)
}

// transition applies mutate to the booking inside one transaction. Callers
// hold the booking's mutex.
func (s *service) transition(bookingID uint, mutate func(*models.Booking) error) (*models.Booking, error) {
	var booking *models.Booking
	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		var err error
		booking, err = st.Bookings().GetByIDForUpdate(bookingID)
		if err != nil {
			if err == repositories.ErrBookingNotFound {
				return errors.ErrNotFound
			}
			return err
		}
		if err := mutate(booking); err != nil {
			return err
		}
		return st.Bookings().Update(booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *service) get(bookingID uint) (*models.Booking, error) {
	booking, err := s.store.Bookings().GetByID(bookingID)
	if err != nil {
		if err == repositories.ErrBookingNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *service) notify(ctx context.Context, booking *models.Booking, event string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, booking.UserID, event, models.JSON{
		"booking_id": booking.ID,
		"status":     booking.Status,
	})
}
