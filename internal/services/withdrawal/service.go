// Package withdrawal implements the cash-out workflow. The requested amount
// is reserved against the wallet's available balance the moment a request is
// created and only leaves the main balance at completion; rejection releases
// the reservation with no ledger entry. Admin-initiated requests hold a
// single-use confirmation token the user must countersign before the request
// enters the normal approval queue.
package withdrawal

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

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Process actions
const (
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionComplete = "complete"
)

// DefaultTokenTTL bounds how long an unconfirmed admin-initiated request
// stays confirmable.
const DefaultTokenTTL = 48 * time.Hour

// CreateInput carries the amount and destination bank account.
type CreateInput struct {
	Amount      int64
	BankName    string
	BankAccount string
	BankOwner   string
}

// Service is the withdrawal workflow contract.
type Service interface {
	// Create opens a user-initiated request in status pending.
	Create(ctx context.Context, userID uint, in CreateInput) (*models.WithdrawalRequest, error)
	// AdminCreate opens a request in pending_confirmation and returns the
	// plaintext confirmation token exactly once.
	AdminCreate(ctx context.Context, userID uint, in CreateInput) (*models.WithdrawalRequest, string, error)
	Confirm(ctx context.Context, id uint, token, signature string) (*models.WithdrawalRequest, error)
	Process(ctx context.Context, id uint, action, note string) (*models.WithdrawalRequest, error)
	Get(ctx context.Context, id uint) (*models.WithdrawalRequest, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.WithdrawalRequest, int64, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.WithdrawalRequest, int64, error)
}

type service struct {
	store    repositories.Store
	ledger   ledger.Service
	notifier notification.Sink
	tokenTTL time.Duration
}

// NewService creates the withdrawal workflow service.
func NewService(store repositories.Store, ledgerSvc ledger.Service, notifier notification.Sink, tokenTTL time.Duration) Service {
	if store == nil {
		panic("store is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &service{
		store:    store,
		ledger:   ledgerSvc,
		notifier: notifier,
		tokenTTL: tokenTTL,
	}
}

func (s *service) Create(ctx context.Context, userID uint, in CreateInput) (*models.WithdrawalRequest, error) {
	req, err := s.create(ctx, userID, in, models.WithdrawalStatusPending)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) AdminCreate(ctx context.Context, userID uint, in CreateInput) (*models.WithdrawalRequest, string, error) {
	token := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	expires := time.Now().Add(s.tokenTTL)

	req, err := s.create(ctx, userID, in, models.WithdrawalStatusPendingConfirmation, func(r *models.WithdrawalRequest) {
		r.TokenHash = string(hash)
		r.TokenExpiresAt = &expires
	})
	if err != nil {
		return nil, "", err
	}

	s.notify(ctx, userID, notification.EventWithdrawalConfirm, req)
	return req, token, nil
}

func (s *service) create(ctx context.Context, userID uint, in CreateInput, status string, mods ...func(*models.WithdrawalRequest)) (*models.WithdrawalRequest, error) {
	if in.Amount <= 0 {
		return nil, errors.Validation("withdrawal amount must be positive")
	}
	if strings.TrimSpace(in.BankName) == "" || strings.TrimSpace(in.BankAccount) == "" {
		return nil, errors.Validation("bank name and account are required")
	}

	req := &models.WithdrawalRequest{
		UserID:      userID,
		Amount:      in.Amount,
		BankName:    in.BankName,
		BankAccount: in.BankAccount,
		BankOwner:   in.BankOwner,
		Status:      status,
	}
	for _, mod := range mods {
		mod(req)
	}

	// Reservation and request creation commit together; an insufficient
	// available balance aborts creation entirely.
	err := s.ledger.Apply(ctx, userID, func(ops ledger.Ops) error {
		if err := ops.Reserve(in.Amount, models.ReservationWithdrawal); err != nil {
			return err
		}
		return ops.Store().Withdrawals().Create(req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) Confirm(ctx context.Context, id uint, token, signature string) (*models.WithdrawalRequest, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, errors.Validation("signature is required")
	}

	var req *models.WithdrawalRequest
	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		var err error
		req, err = st.Withdrawals().GetByIDForUpdate(id)
		if err != nil {
			if err == repositories.ErrWithdrawalNotFound {
				return errors.ErrNotFound
			}
			return err
		}

		// A request out of pending_confirmation has either spent its token
		// or never had one.
		if req.Status != models.WithdrawalStatusPendingConfirmation {
			return errors.ErrInvalidToken
		}
		if req.TokenExpiresAt != nil && time.Now().After(*req.TokenExpiresAt) {
			return errors.ErrInvalidToken
		}
		if bcrypt.CompareHashAndPassword([]byte(req.TokenHash), []byte(token)) != nil {
			return errors.ErrInvalidToken
		}

		now := time.Now()
		req.Status = models.WithdrawalStatusPending
		req.UserSignature = signature
		req.ConfirmedAt = &now
		req.TokenHash = ""
		req.TokenExpiresAt = nil
		return st.Withdrawals().Update(req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) Process(ctx context.Context, id uint, action, note string) (*models.WithdrawalRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionApprove:
		err = s.store.ExecuteInTransaction(func(st repositories.Store) error {
			req, err = approve(st, id, note)
			return err
		})
	case ActionReject:
		err = s.ledger.Apply(ctx, req.UserID, func(ops ledger.Ops) error {
			req, err = reject(ops, id, note)
			return err
		})
	case ActionComplete:
		err = s.ledger.Apply(ctx, req.UserID, func(ops ledger.Ops) error {
			req, err = complete(ops, id, note)
			return err
		})
	default:
		return nil, errors.Validation("unknown action %q", action)
	}
	if err != nil {
		return nil, err
	}

	switch req.Status {
	case models.WithdrawalStatusCompleted:
		s.notify(ctx, req.UserID, notification.EventWithdrawalCompleted, req)
	case models.WithdrawalStatusRejected:
		s.notify(ctx, req.UserID, notification.EventWithdrawalRejected, req)
	}
	return req, nil
}

// approve moves pending to approved. Operational handoff only: no funds
// move until completion.
func approve(st repositories.Store, id uint, note string) (*models.WithdrawalRequest, error) {
	req, err := st.Withdrawals().GetByIDForUpdate(id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.WithdrawalStatusPending {
		return nil, errors.InvalidState(req.Status)
	}
	req.Status = models.WithdrawalStatusApproved
	req.AdminNote = note
	if err := st.Withdrawals().Update(req); err != nil {
		return nil, err
	}
	return req, nil
}

// reject releases the reservation and terminates the request. No
// WalletTransaction is written; the funds never left the main balance.
func reject(ops ledger.Ops, id uint, note string) (*models.WithdrawalRequest, error) {
	req, err := ops.Store().Withdrawals().GetByIDForUpdate(id)
	if err != nil {
		return nil, err
	}
	switch req.Status {
	case models.WithdrawalStatusPendingConfirmation,
		models.WithdrawalStatusPending,
		models.WithdrawalStatusApproved:
	default:
		return nil, errors.InvalidState(req.Status)
	}

	if err := ops.Release(req.Amount, models.ReservationWithdrawal); err != nil {
		return nil, err
	}
	req.Status = models.WithdrawalStatusRejected
	req.AdminNote = note
	req.TokenHash = ""
	req.TokenExpiresAt = nil
	if err := ops.Store().Withdrawals().Update(req); err != nil {
		return nil, err
	}
	return req, nil
}

// complete finalizes an approved request: the amount leaves the main
// balance and the reservation is released in the same commit.
func complete(ops ledger.Ops, id uint, note string) (*models.WithdrawalRequest, error) {
	req, err := ops.Store().Withdrawals().GetByIDForUpdate(id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.WithdrawalStatusApproved {
		return nil, errors.InvalidState(req.Status)
	}

	ref := strconv.FormatUint(uint64(req.ID), 10)
	if _, err := ops.Debit(req.Amount, models.BucketMain, models.TransactionTypeWithdrawal, ref, "withdrawal"); err != nil {
		return nil, err
	}
	if err := ops.Release(req.Amount, models.ReservationWithdrawal); err != nil {
		return nil, err
	}

	req.Status = models.WithdrawalStatusCompleted
	req.AdminNote = note
	if err := ops.Store().Withdrawals().Update(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.WithdrawalRequest, error) {
	req, err := s.store.Withdrawals().GetByID(id)
	if err != nil {
		if err == repositories.ErrWithdrawalNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *service) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.WithdrawalRequest, int64, error) {
	return s.store.Withdrawals().ListByUser(userID, limit, offset)
}

func (s *service) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.WithdrawalRequest, int64, error) {
	return s.store.Withdrawals().ListByStatus(status, limit, offset)
}

func (s *service) notify(ctx context.Context, userID uint, event string, req *models.WithdrawalRequest) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, userID, event, models.JSON{
		"withdrawal_id": req.ID,
		"amount":        req.Amount,
		"status":        req.Status,
	})
}
