package promotion

import (
	"context"
	"testing"
	"time"

	"stayhub/internal/errors"
	"stayhub/internal/models"
	"stayhub/internal/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func seedPromotion(t *testing.T, svc Service, promo models.PromotionConfig) *models.PromotionConfig {
	t.Helper()
	require.NoError(t, svc.Create(context.Background(), &promo))
	return &promo
}

func TestResolvePercentWithCap(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	seedPromotion(t, svc, models.PromotionConfig{
		Name:          "10% up to 100k",
		DepositAmount: 100000,
		BonusPercent:  10,
		MaxBonus:      100000,
		IsActive:      true,
	})

	result, err := svc.Resolve(ctx, 500000, nil, nil, time.Now())
	require.NoError(t, err)
	require.NotNil(t, result.Promotion)
	assert.Equal(t, int64(50000), result.BonusAmount)

	// Cap kicks in above 1,000,000.
	result, err = svc.Resolve(ctx, 2000000, nil, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(100000), result.BonusAmount)
}

func TestResolveNoMatch(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	seedPromotion(t, svc, models.PromotionConfig{
		Name:          "big deposits only",
		DepositAmount: 1000000,
		BonusPercent:  5,
		IsActive:      true,
	})

	// Below the threshold.
	result, err := svc.Resolve(ctx, 999999, nil, nil, time.Now())
	require.NoError(t, err)
	assert.Nil(t, result.Promotion)
	assert.Equal(t, int64(0), result.BonusAmount)
}

func TestResolveScopePrecedence(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	// Global rule pays far more than the scoped ones.
	seedPromotion(t, svc, models.PromotionConfig{
		Name: "global", DepositAmount: 1000, BonusPercent: 50, IsActive: true,
	})
	hotel := seedPromotion(t, svc, models.PromotionConfig{
		Name: "hotel", DepositAmount: 1000, HotelID: uintPtr(3), BonusPercent: 5, IsActive: true,
	})
	room := seedPromotion(t, svc, models.PromotionConfig{
		Name: "room", DepositAmount: 1000, HotelID: uintPtr(3), RoomID: uintPtr(17), BonusPercent: 1, IsActive: true,
	})

	// Room scope beats hotel scope beats global, regardless of payout.
	result, err := svc.Resolve(ctx, 100000, uintPtr(3), uintPtr(17), time.Now())
	require.NoError(t, err)
	require.NotNil(t, result.Promotion)
	assert.Equal(t, room.ID, result.Promotion.ID)
	assert.Equal(t, int64(1000), result.BonusAmount)

	result, err = svc.Resolve(ctx, 100000, uintPtr(3), uintPtr(99), time.Now())
	require.NoError(t, err)
	require.NotNil(t, result.Promotion)
	assert.Equal(t, hotel.ID, result.Promotion.ID)

	result, err = svc.Resolve(ctx, 100000, nil, nil, time.Now())
	require.NoError(t, err)
	require.NotNil(t, result.Promotion)
	assert.Equal(t, "global", result.Promotion.Name)
}

func TestResolveTieBreaksOnBonus(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	seedPromotion(t, svc, models.PromotionConfig{
		Name: "small", DepositAmount: 1000, BonusAmount: 500, IsActive: true,
	})
	seedPromotion(t, svc, models.PromotionConfig{
		Name: "large", DepositAmount: 1000, BonusAmount: 900, IsActive: true,
	})

	result, err := svc.Resolve(ctx, 5000, nil, nil, time.Now())
	require.NoError(t, err)
	require.NotNil(t, result.Promotion)
	assert.Equal(t, "large", result.Promotion.Name)
	assert.Equal(t, int64(900), result.BonusAmount)
}

func TestResolveRespectsDateWindowAndActive(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()
	now := time.Now()

	past := now.Add(-48 * time.Hour)
	expired := seedPromotion(t, svc, models.PromotionConfig{
		Name: "expired", DepositAmount: 1000, BonusPercent: 10, IsActive: true,
		EndDate: &past,
	})
	_ = expired

	disabled := seedPromotion(t, svc, models.PromotionConfig{
		Name: "disabled", DepositAmount: 1000, BonusPercent: 10, IsActive: true,
	})
	_, err := svc.SetActive(ctx, disabled.ID, false)
	require.NoError(t, err)

	result, err := svc.Resolve(ctx, 5000, nil, nil, now)
	require.NoError(t, err)
	assert.Nil(t, result.Promotion)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(memory.NewStore())
	ctx := context.Background()

	err := svc.Create(ctx, &models.PromotionConfig{DepositAmount: 0, BonusPercent: 10})
	assert.ErrorIs(t, err, errors.ErrValidation)

	err = svc.Create(ctx, &models.PromotionConfig{DepositAmount: 1000, BonusPercent: 101})
	assert.ErrorIs(t, err, errors.ErrValidation)

	err = svc.Create(ctx, &models.PromotionConfig{DepositAmount: 1000})
	assert.ErrorIs(t, err, errors.ErrValidation)

	start := time.Now()
	end := start.Add(-time.Hour)
	err = svc.Create(ctx, &models.PromotionConfig{
		DepositAmount: 1000, BonusPercent: 5, StartDate: &start, EndDate: &end,
	})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestUpdateUnknownPromotion(t *testing.T) {
	svc := NewService(memory.NewStore())

	err := svc.Update(context.Background(), &models.PromotionConfig{
		ID: 42, DepositAmount: 1000, BonusPercent: 5,
	})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
