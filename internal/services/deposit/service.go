// Package deposit implements the wallet top-up workflow. A user submission
// stays pending until an admin processes it; only approval touches the
// ledger. Admin-created deposits are credited and approved in one commit and
// must carry the admin's signature.
package deposit

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
	"stayhub/internal/services/promotion"
)

// Process actions
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// SubmitInput is a user-submitted deposit request. HotelID/RoomID only
// scope the promotion lookup; they are not persisted.
type SubmitInput struct {
	Amount      int64
	BankName    string
	BankAccount string
	ProofImage  string
	HotelID     *uint
	RoomID      *uint
}

// AdminCreateInput is an admin-initiated deposit, credited immediately.
type AdminCreateInput struct {
	UserID    uint
	Amount    int64
	Note      string
	Signature string
}

// Service is the deposit workflow contract.
type Service interface {
	Submit(ctx context.Context, userID uint, in SubmitInput) (*models.DepositRequest, error)
	AdminCreate(ctx context.Context, in AdminCreateInput) (*models.DepositRequest, error)
	Process(ctx context.Context, id uint, action, note string) (*models.DepositRequest, error)
	Get(ctx context.Context, id uint) (*models.DepositRequest, error)
	ListPending(ctx context.Context, limit, offset int) ([]models.DepositRequest, int64, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.DepositRequest, int64, error)
}

type service struct {
	store      repositories.Store
	ledger     ledger.Service
	promotions promotion.Service
	notifier   notification.Sink
	minAmount  int64
}

// NewService creates the deposit workflow service. minAmount is the smallest
// accepted deposit in minor units; zero disables the floor.
func NewService(store repositories.Store, ledgerSvc ledger.Service, promotions promotion.Service, notifier notification.Sink, minAmount int64) Service {
	if store == nil {
		panic("store is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	if promotions == nil {
		panic("promotion service is required")
	}
	return &service{
		store:      store,
		ledger:     ledgerSvc,
		promotions: promotions,
		notifier:   notifier,
		minAmount:  minAmount,
	}
}

func (s *service) Submit(ctx context.Context, userID uint, in SubmitInput) (*models.DepositRequest, error) {
	if err := s.validateAmount(in.Amount); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.BankName) == "" || strings.TrimSpace(in.BankAccount) == "" {
		return nil, errors.Validation("bank name and account are required")
	}

	// The wallet account must exist before approval can credit it.
	if _, err := s.ledger.EnsureAccount(ctx, userID); err != nil {
		return nil, err
	}

	// Bonus is resolved once here and frozen; approval never recomputes it.
	result, err := s.promotions.Resolve(ctx, in.Amount, in.HotelID, in.RoomID, time.Now())
	if err != nil {
		return nil, err
	}

	req := &models.DepositRequest{
		UserID:      userID,
		Amount:      in.Amount,
		BonusAmount: result.BonusAmount,
		BankName:    in.BankName,
		BankAccount: in.BankAccount,
		ProofImage:  in.ProofImage,
		Status:      models.DepositStatusPending,
	}
	if result.Promotion != nil {
		req.PromotionID = &result.Promotion.ID
	}
	if err := s.store.Deposits().Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) AdminCreate(ctx context.Context, in AdminCreateInput) (*models.DepositRequest, error) {
	if err := s.validateAmount(in.Amount); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Signature) == "" {
		return nil, errors.Validation("admin signature is required")
	}

	if _, err := s.ledger.EnsureAccount(ctx, in.UserID); err != nil {
		return nil, err
	}

	result, err := s.promotions.Resolve(ctx, in.Amount, nil, nil, time.Now())
	if err != nil {
		return nil, err
	}

	req := &models.DepositRequest{
		UserID:         in.UserID,
		Amount:         in.Amount,
		BonusAmount:    result.BonusAmount,
		Status:         models.DepositStatusApproved,
		IsAdminCreated: true,
		AdminNote:      in.Note,
		AdminSignature: in.Signature,
	}
	if result.Promotion != nil {
		req.PromotionID = &result.Promotion.ID
	}

	// Record creation and both credits commit together or not at all.
	err = s.ledger.Apply(ctx, in.UserID, func(ops ledger.Ops) error {
		if err := ops.Store().Deposits().Create(req); err != nil {
			return err
		}
		return creditDeposit(ops, req)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, req.UserID, notification.EventDepositApproved, req)
	return req, nil
}

func (s *service) Process(ctx context.Context, id uint, action, note string) (*models.DepositRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionApprove:
		err = s.ledger.Apply(ctx, req.UserID, func(ops ledger.Ops) error {
			req, err = approve(ops, id, note)
			return err
		})
	case ActionReject:
		err = s.store.ExecuteInTransaction(func(st repositories.Store) error {
			req, err = reject(st, id, note)
			return err
		})
	default:
		return nil, errors.Validation("unknown action %q", action)
	}
	if err != nil {
		return nil, err
	}

	event := notification.EventDepositApproved
	if req.Status == models.DepositStatusRejected {
		event = notification.EventDepositRejected
	}
	s.notify(ctx, req.UserID, event, req)
	return req, nil
}

func approve(ops ledger.Ops, id uint, note string) (*models.DepositRequest, error) {
	req, err := ops.Store().Deposits().GetByIDForUpdate(id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.DepositStatusPending {
		return nil, errors.InvalidState(req.Status)
	}

	req.Status = models.DepositStatusApproved
	req.AdminNote = note
	if err := ops.Store().Deposits().Update(req); err != nil {
		return nil, err
	}
	if err := creditDeposit(ops, req); err != nil {
		return nil, err
	}
	return req, nil
}

func reject(st repositories.Store, id uint, note string) (*models.DepositRequest, error) {
	req, err := st.Deposits().GetByIDForUpdate(id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.DepositStatusPending {
		return nil, errors.InvalidState(req.Status)
	}

	// Rejection has no ledger effect.
	req.Status = models.DepositStatusRejected
	req.AdminNote = note
	if err := st.Deposits().Update(req); err != nil {
		return nil, err
	}
	return req, nil
}

// creditDeposit posts the main credit and, when a bonus was frozen on the
// request, the bonus credit.
func creditDeposit(ops ledger.Ops, req *models.DepositRequest) error {
	ref := strconv.FormatUint(uint64(req.ID), 10)
	if _, err := ops.Credit(req.Amount, models.BucketMain, models.TransactionTypeDeposit, ref, "deposit"); err != nil {
		return err
	}
	if req.BonusAmount > 0 {
		if _, err := ops.Credit(req.BonusAmount, models.BucketBonus, models.TransactionTypeBonus, ref, "deposit"); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.DepositRequest, error) {
	req, err := s.store.Deposits().GetByID(id)
	if err != nil {
		if err == repositories.ErrDepositNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *service) ListPending(ctx context.Context, limit, offset int) ([]models.DepositRequest, int64, error) {
	return s.store.Deposits().ListByStatus(models.DepositStatusPending, limit, offset)
}

func (s *service) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.DepositRequest, int64, error) {
	return s.store.Deposits().ListByUser(userID, limit, offset)
}

func (s *service) validateAmount(amount int64) error {
	if amount <= 0 {
		return errors.Validation("deposit amount must be positive")
	}
	if s.minAmount > 0 && amount < s.minAmount {
		return errors.Validation("deposit amount below minimum of %d", s.minAmount)
	}
	return nil
}

func (s *service) notify(ctx context.Context, userID uint, event string, req *models.DepositRequest) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, userID, event, models.JSON{
		"deposit_id": req.ID,
		"amount":     req.Amount,
		"bonus":      req.BonusAmount,
		"status":     req.Status,
	})
}
