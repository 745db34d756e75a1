// Package promotion resolves deposit bonus rules. Resolve is the single
// source of truth for bonus computation: the deposit workflow calls it once
// at submission time and freezes the result on the request, and the UI calls
// it for live previews. It never mutates state.
package promotion

import (
	"context"
	"time"

	"stayhub/internal/errors"
	"stayhub/internal/models"
	"stayhub/internal/repositories"
)

// Result is the outcome of a resolution. Promotion is nil and BonusAmount
// zero when no rule matches.
type Result struct {
	Promotion   *models.PromotionConfig `json:"promotion,omitempty"`
	BonusAmount int64                   `json:"bonus_amount"`
}

// Service resolves and manages promotion rules.
type Service interface {
	Resolve(ctx context.Context, amount int64, hotelID, roomID *uint, now time.Time) (Result, error)

	Create(ctx context.Context, promo *models.PromotionConfig) error
	Update(ctx context.Context, promo *models.PromotionConfig) error
	SetActive(ctx context.Context, id uint, active bool) (*models.PromotionConfig, error)
	Get(ctx context.Context, id uint) (*models.PromotionConfig, error)
	List(ctx context.Context, limit, offset int) ([]models.PromotionConfig, int64, error)
}

type service struct {
	store repositories.Store
}

// NewService creates a new promotion service.
func NewService(store repositories.Store) Service {
	if store == nil {
		panic("store is required")
	}
	return &service{store: store}
}

func (s *service) Resolve(ctx context.Context, amount int64, hotelID, roomID *uint, now time.Time) (Result, error) {
	if amount <= 0 {
		return Result{}, nil
	}

	promos, err := s.store.Promotions().ListActive()
	if err != nil {
		return Result{}, err
	}
	return resolve(promos, amount, hotelID, roomID, now), nil
}

// resolve picks the best matching rule: a room-scoped rule beats a
// hotel-scoped one beats a global one; within the same scope the rule
// yielding the highest bonus wins.
func resolve(promos []models.PromotionConfig, amount int64, hotelID, roomID *uint, now time.Time) Result {
	best := Result{}
	bestRank := -1

	for i := range promos {
		p := &promos[i]
		if !p.ActiveAt(now) || p.DepositAmount > amount {
			continue
		}
		rank, ok := scopeRank(p, hotelID, roomID)
		if !ok {
			continue
		}
		bonus := computeBonus(p, amount)
		if bonus <= 0 {
			continue
		}
		if rank > bestRank || (rank == bestRank && bonus > best.BonusAmount) {
			promo := *p
			best = Result{Promotion: &promo, BonusAmount: bonus}
			bestRank = rank
		}
	}
	return best
}

func scopeRank(p *models.PromotionConfig, hotelID, roomID *uint) (int, bool) {
	switch {
	case p.RoomID != nil:
		if roomID != nil && *roomID == *p.RoomID {
			return 2, true
		}
		return 0, false
	case p.HotelID != nil:
		if hotelID != nil && *hotelID == *p.HotelID {
			return 1, true
		}
		return 0, false
	default:
		return 0, true
	}
}

func computeBonus(p *models.PromotionConfig, amount int64) int64 {
	if p.BonusPercent > 0 {
		bonus := amount * int64(p.BonusPercent) / 100
		if p.MaxBonus > 0 && bonus > p.MaxBonus {
			bonus = p.MaxBonus
		}
		return bonus
	}
	return p.BonusAmount
}

func (s *service) Create(ctx context.Context, promo *models.PromotionConfig) error {
	if err := validate(promo); err != nil {
		return err
	}
	return s.store.Promotions().Create(promo)
}

func (s *service) Update(ctx context.Context, promo *models.PromotionConfig) error {
	if err := validate(promo); err != nil {
		return err
	}
	if _, err := s.Get(ctx, promo.ID); err != nil {
		return err
	}
	return s.store.Promotions().Update(promo)
}

func (s *service) SetActive(ctx context.Context, id uint, active bool) (*models.PromotionConfig, error) {
	promo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	promo.IsActive = active
	if err := s.store.Promotions().Update(promo); err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.PromotionConfig, error) {
	promo, err := s.store.Promotions().GetByID(id)
	if err != nil {
		if err == repositories.ErrPromotionNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return promo, nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]models.PromotionConfig, int64, error) {
	return s.store.Promotions().List(limit, offset)
}

func validate(promo *models.PromotionConfig) error {
	if promo.DepositAmount <= 0 {
		return errors.Validation("deposit threshold must be positive")
	}
	if promo.BonusPercent < 0 || promo.BonusPercent > 100 {
		return errors.Validation("bonus percent must be between 0 and 100")
	}
	if promo.BonusPercent == 0 && promo.BonusAmount <= 0 {
		return errors.Validation("either bonus percent or bonus amount is required")
	}
	if promo.StartDate != nil && promo.EndDate != nil && promo.EndDate.Before(*promo.StartDate) {
		return errors.Validation("end date before start date")
	}
	return nil
}
