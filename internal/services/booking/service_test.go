package booking

import (
	"context"
	"testing"
	"time"

	"stayhub/internal/errors"
	"stayhub/internal/models"
	"stayhub/internal/repositories/memory"
	"stayhub/internal/services/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	rooms    map[uint]RoomInfo
	services map[uint]ServiceInfo
}

func (s *stubCatalog) Room(_ context.Context, roomID uint) (*RoomInfo, error) {
	info, ok := s.rooms[roomID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return &info, nil
}

func (s *stubCatalog) Service(_ context.Context, serviceID uint) (*ServiceInfo, error) {
	info, ok := s.services[serviceID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return &info, nil
}

type bookingFixture struct {
	store   *memory.Store
	ledger  ledger.Service
	catalog *stubCatalog
	svc     Service
}

func newFixture(t *testing.T, policy DepositPolicy) *bookingFixture {
	t.Helper()
	store := memory.NewStore()
	ledgerSvc := ledger.NewService(store, nil, nil)
	catalog := &stubCatalog{
		rooms: map[uint]RoomInfo{
			10: {HotelID: 3, NightlyPrice: 500000},
		},
		services: map[uint]ServiceInfo{
			20: {Name: "breakfast", Price: 50000},
			21: {Name: "airport pickup", Price: 200000, RequiresConfirmation: true},
		},
	}
	return &bookingFixture{
		store:   store,
		ledger:  ledgerSvc,
		catalog: catalog,
		svc:     NewService(store, ledgerSvc, catalog, catalog, nil, policy, nil),
	}
}

func (f *bookingFixture) fund(t *testing.T, userID uint, amount int64) {
	t.Helper()
	ctx := context.Background()
	_, err := f.ledger.EnsureAccount(ctx, userID)
	require.NoError(t, err)
	_, err = f.ledger.Credit(ctx, userID, amount, models.BucketMain, models.TransactionTypeDeposit, "seed", "deposit")
	require.NoError(t, err)
}

func stay(nights int) (time.Time, time.Time) {
	checkIn := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
	return checkIn, checkIn.AddDate(0, 0, nights)
}

func validCreate(nights int) CreateInput {
	checkIn, checkOut := stay(nights)
	return CreateInput{
		RoomID:       10,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Guests:       2,
		ContactName:  "Nguyen Van A",
		ContactPhone: "0900000000",
	}
}

func TestCreateFreezesPrices(t *testing.T) {
	f := newFixture(t, DepositPolicy{Type: DepositPolicyPercentage, Value: 20})
	ctx := context.Background()

	b, err := f.svc.Create(ctx, 1, validCreate(3))
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPendingDeposit, b.Status)
	assert.Equal(t, uint(3), b.HotelID)
	assert.Equal(t, int64(500000), b.RoomNightlyPrice)
	assert.Equal(t, int64(1500000), b.TotalPrice)
	assert.Equal(t, int64(300000), b.DepositAmount)

	// Catalog price changes never touch an existing booking.
	f.catalog.rooms[10] = RoomInfo{HotelID: 3, NightlyPrice: 900000}
	b, err = f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500000), b.RoomNightlyPrice)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t, DepositPolicy{})
	ctx := context.Background()

	in := validCreate(2)
	in.CheckOut = in.CheckIn
	_, err := f.svc.Create(ctx, 1, in)
	assert.ErrorIs(t, err, errors.ErrValidation)

	in = validCreate(2)
	in.Guests = 0
	_, err = f.svc.Create(ctx, 1, in)
	assert.ErrorIs(t, err, errors.ErrValidation)

	in = validCreate(2)
	in.ContactPhone = ""
	_, err = f.svc.Create(ctx, 1, in)
	assert.ErrorIs(t, err, errors.ErrValidation)

	in = validCreate(2)
	in.RoomID = 404
	_, err = f.svc.Create(ctx, 1, in)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestNightsRoundUp(t *testing.T) {
	checkIn := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)

	b := &models.Booking{CheckIn: checkIn, CheckOut: checkIn.Add(21 * time.Hour)}
	assert.Equal(t, 1, b.Nights())

	b.CheckOut = checkIn.Add(25 * time.Hour)
	assert.Equal(t, 2, b.Nights())

	b.CheckOut = checkIn.Add(48 * time.Hour)
	assert.Equal(t, 2, b.Nights())
}

func TestDepositPolicyAmount(t *testing.T) {
	tests := []struct {
		name   string
		policy DepositPolicy
		total  int64
		want   int64
	}{
		{"default full total", DepositPolicy{}, 1500000, 1500000},
		{"percentage", DepositPolicy{Type: DepositPolicyPercentage, Value: 20}, 1500000, 300000},
		{"percentage rounds half up", DepositPolicy{Type: DepositPolicyPercentage, Value: 15}, 990, 149},
		{"fixed below total", DepositPolicy{Type: DepositPolicyFixed, Value: 200000}, 1500000, 200000},
		{"fixed capped at total", DepositPolicy{Type: DepositPolicyFixed, Value: 2000000}, 1500000, 1500000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Amount(tt.total))
		})
	}
}

func TestPayDepositFromWallet(t *testing.T) {
	f := newFixture(t, DepositPolicy{Type: DepositPolicyPercentage, Value: 20})
	ctx := context.Background()
	f.fund(t, 1, 400000)

	b, err := f.svc.Create(ctx, 1, validCreate(3))
	require.NoError(t, err)

	b, err = f.svc.PayDepositFromWallet(ctx, 1, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
	assert.Equal(t, int64(300000), b.PaidFromWallet)

	account, err := f.ledger.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), account.MainBalance)

	// Already confirmed; paying again is rejected.
	_, err = f.svc.PayDepositFromWallet(ctx, 1, b.ID)
	assert.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestPayDepositInsufficientFunds(t *testing.T) {
	f := newFixture(t, DepositPolicy{Type: DepositPolicyPercentage, Value: 20})
	ctx := context.Background()
	f.fund(t, 1, 100000)

	b, err := f.svc.Create(ctx, 1, validCreate(3))
	require.NoError(t, err)

	_, err = f.svc.PayDepositFromWallet(ctx, 1, b.ID)
	assert.ErrorIs(t, err, errors.ErrInsufficientFunds)

	// The failed attempt changed nothing.
	b, err = f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPendingDeposit, b.Status)
	assert.Equal(t, int64(0), b.PaidFromWallet)
	account, err := f.ledger.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), account.MainBalance)
}

func TestPayDepositOwnership(t *testing.T) {
	f := newFixture(t, DepositPolicy{})
	ctx := context.Background()
	f.fund(t, 2, 5000000)

	b, err := f.svc.Create(ctx, 1, validCreate(3))
	require.NoError(t, err)

	_, err = f.svc.PayDepositFromWallet(ctx, 2, b.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestProofReviewFlow(t *testing.T) {
	f := newFixture(t, DepositPolicy{})
	ctx := context.Background()

	b, err := f.svc.Create(ctx, 1, validCreate(2))
	require.NoError(t, err)

	_, err = f.svc.UploadProof(ctx, 1, b.ID, " ")
	assert.ErrorIs(t, err, errors.ErrValidation)

	b, err = f.svc.UploadProof(ctx, 1, b.ID, "transfer.jpg")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusAwaitingApproval, b.Status)

	// Rejection sends the booking back for another attempt.
	b, err = f.svc.Approve(ctx, b.ID, false, "amount mismatch")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPendingDeposit, b.Status)
	assert.Equal(t, "amount mismatch", b.AdminNote)

	b, err = f.svc.UploadProof(ctx, 1, b.ID, "transfer2.jpg")
	require.NoError(t, err)
	b, err = f.svc.Approve(ctx, b.ID, true, "")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)

	// Approval is not repeatable.
	_, err = f.svc.Approve(ctx, b.ID, true, "")
	assert.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestCheckInRequiresConfirmed(t *testing.T) {
	f := newFixture(t, DepositPolicy{})
	ctx := context.Background()

	b, err := f.svc.Create(ctx, 1, validCreate(2))
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, b.ID)
	assert.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestDoubleCheckIn(t *testing.T) {
	f := newFixture(t, DepositPolicy{Type: DepositPolicyFixed, Value: 100000})
	ctx := context.Background()
	f.fund(t, 1, 100000)

	b, err := f.svc.Create(ctx, 1, validCreate(2))
	require.NoError(t, err)
	_, err = f.svc.PayDepositFromWallet(ctx, 1, b.ID)
	require.NoError(t, err)

	b, err = f.svc.CheckIn(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, b.ActualCheckIn)

	_, err = f.svc.CheckIn(ctx, b.ID)
	assert.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestAddServiceFreezesPrice(t *testing.T) {
	f := newFixture(t, DepositPolicy{Type: DepositPolicyFixed, Value: 100000})
	ctx := context.Background()
	f.fund(t, 1, 100000)

	b, err := f.svc.Create(ctx, 1, validCreate(2))
	require.NoError(t, err)

	// Services attach only to confirmed bookings.
	_, err = f.svc.AddService(ctx, b.ID, 20, 2)
	assert.ErrorIs(t, err, errors.ErrInvalidState)

	_, err = f.svc.PayDepositFromWallet(ctx, 1, b.ID)
	require.NoError(t, err)

	_, err = f.svc.AddService(ctx, b.ID, 20, 0)
	assert.ErrorIs(t, err, errors.ErrValidation)

	b, err = f.svc.AddService(ctx, b.ID, 20, 2)
	require.NoError(t, err)
	require.Len(t, b.Services, 1)
	assert.Equal(t, int64(50000), b.Services[0].Price)
	assert.Equal(t, int64(100000), b.Services[0].Total())
	assert.False(t, b.Services[0].AddedAt.IsZero())

	// A later catalog price change leaves the attached line untouched.
	f.catalog.services[20] = ServiceInfo{Name: "breakfast", Price: 80000}
	b, err = f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), b.Services[0].Price)
}

func TestConfirmServiceDelivery(t *testing.T) {
	f := newFixture(t, DepositPolicy{Type: DepositPolicyFixed, Value: 100000})
	ctx := context.Background()
	f.fund(t, 1, 100000)

	b, err := f.svc.Create(ctx, 1, validCreate(2))
	require.NoError(t, err)
	_, err = f.svc.PayDepositFromWallet(ctx, 1, b.ID)
	require.NoError(t, err)

	b, err = f.svc.AddService(ctx, b.ID, 20, 1)
	require.NoError(t, err)
	b, err = f.svc.AddService(ctx, b.ID, 21, 1)
	require.NoError(t, err)
	require.Len(t, b.Services, 2)

	// Only lines flagged for confirmation accept one.
	_, err = f.svc.ConfirmServiceDelivery(ctx, b.ID, b.Services[0].ID)
	assert.ErrorIs(t, err, errors.ErrValidation)

	line, err := f.svc.ConfirmServiceDelivery(ctx, b.ID, b.Services[1].ID)
	require.NoError(t, err)
	assert.NotNil(t, line.DeliveredAt)

	_, err = f.svc.ConfirmServiceDelivery(ctx, b.ID, b.Services[1].ID)
	assert.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestCancelOwnershipAndState(t *testing.T) {
	f := newFixture(t, DepositPolicy{Type: DepositPolicyFixed, Value: 100000})
	ctx := context.Background()
	f.fund(t, 1, 100000)

	b, err := f.svc.Create(ctx, 1, validCreate(2))
	require.NoError(t, err)

	// Another user cannot cancel it.
	_, err = f.svc.Cancel(ctx, 2, b.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	// Confirmed bookings cannot be cancelled; only checkout completes them.
	_, err = f.svc.PayDepositFromWallet(ctx, 1, b.ID)
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, 1, b.ID)
	assert.ErrorIs(t, err, errors.ErrInvalidState)

	b2, err := f.svc.Create(ctx, 1, validCreate(2))
	require.NoError(t, err)
	b2, err = f.svc.Cancel(ctx, 1, b2.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, b2.Status)

	// Admin cancel (userID 0) works on anyone's pending booking.
	b3, err := f.svc.Create(ctx, 5, validCreate(2))
	require.NoError(t, err)
	b3, err = f.svc.Cancel(ctx, 0, b3.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, b3.Status)
}

func TestTransitionTable(t *testing.T) {
	assert.True(t, canTransition(models.BookingStatusPendingDeposit, models.BookingStatusConfirmed))
	assert.True(t, canTransition(models.BookingStatusAwaitingApproval, models.BookingStatusPendingDeposit))
	assert.True(t, canTransition(models.BookingStatusConfirmed, models.BookingStatusCompleted))

	assert.False(t, canTransition(models.BookingStatusConfirmed, models.BookingStatusCancelled))
	assert.False(t, canTransition(models.BookingStatusCompleted, models.BookingStatusConfirmed))
	assert.False(t, canTransition(models.BookingStatusCancelled, models.BookingStatusPendingDeposit))
}
