package withdrawal

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

type withdrawalFixture struct {
	store  *memory.Store
	ledger ledger.Service
	svc    Service
}

func newFixture(t *testing.T, ttl time.Duration) *withdrawalFixture {
	t.Helper()
	store := memory.NewStore()
	ledgerSvc := ledger.NewService(store, nil, nil)
	return &withdrawalFixture{
		store:  store,
		ledger: ledgerSvc,
		svc:    NewService(store, ledgerSvc, nil, ttl),
	}
}

func (f *withdrawalFixture) fund(t *testing.T, userID uint, amount int64) {
	t.Helper()
	ctx := context.Background()
	_, err := f.ledger.EnsureAccount(ctx, userID)
	require.NoError(t, err)
	_, err = f.ledger.Credit(ctx, userID, amount, models.BucketMain, models.TransactionTypeDeposit, "seed", "deposit")
	require.NoError(t, err)
}

func validCreate(amount int64) CreateInput {
	return CreateInput{
		Amount:      amount,
		BankName:    "VCB",
		BankAccount: "0123456789",
		BankOwner:   "NGUYEN VAN A",
	}
}

func TestCreateReservesFunds(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.fund(t, 1, 1000)

	req, err := f.svc.Create(ctx, 1, validCreate(600))
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusPending, req.Status)

	account, err := f.ledger.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), account.MainBalance)
	assert.Equal(t, int64(600), account.PendingWithdrawal)
	assert.Equal(t, int64(400), account.AvailableBalance())

	// A second request beyond the available balance fails and leaves no
	// request behind.
	_, err = f.svc.Create(ctx, 1, validCreate(500))
	assert.ErrorIs(t, err, errors.ErrInsufficientFunds)

	reqs, total, err := f.svc.ListByUser(ctx, 1, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, reqs, 1)
}

func TestRejectReleasesWithoutTransaction(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.fund(t, 1, 1000)

	req, err := f.svc.Create(ctx, 1, validCreate(600))
	require.NoError(t, err)

	req, err = f.svc.Process(ctx, req.ID, ActionReject, "wrong account")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusRejected, req.Status)

	account, err := f.ledger.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), account.AvailableBalance())

	// Only the seed credit exists; rejection writes no ledger entry.
	_, total, err := f.ledger.Transactions(ctx, 1, "", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestCompleteDebitsAndReleases(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.fund(t, 1, 1000)

	req, err := f.svc.Create(ctx, 1, validCreate(600))
	require.NoError(t, err)

	req, err = f.svc.Process(ctx, req.ID, ActionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusApproved, req.Status)

	// Approval moves no funds.
	account, err := f.ledger.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), account.MainBalance)

	req, err = f.svc.Process(ctx, req.ID, ActionComplete, "paid out")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusCompleted, req.Status)

	account, err = f.ledger.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(400), account.MainBalance)
	assert.Equal(t, int64(0), account.PendingWithdrawal)
	assert.Equal(t, int64(400), account.AvailableBalance())

	txns, _, err := f.ledger.Transactions(ctx, 1, "", 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, txns)
	assert.Equal(t, models.TransactionTypeWithdrawal, txns[0].Type)
	assert.Equal(t, int64(-600), txns[0].Amount)
}

func TestCompleteRequiresApproval(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.fund(t, 1, 1000)

	req, err := f.svc.Create(ctx, 1, validCreate(600))
	require.NoError(t, err)

	_, err = f.svc.Process(ctx, req.ID, ActionComplete, "")
	assert.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestAdminCreateTokenFlow(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.fund(t, 1, 1000)

	req, token, err := f.svc.AdminCreate(ctx, 1, validCreate(600))
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusPendingConfirmation, req.Status)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, token, req.TokenHash)

	// Funds reserve at creation, before the user confirms.
	account, err := f.ledger.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(400), account.AvailableBalance())

	_, err = f.svc.Confirm(ctx, req.ID, "not-the-token", "signed")
	assert.ErrorIs(t, err, errors.ErrInvalidToken)

	req, err = f.svc.Confirm(ctx, req.ID, token, "signed")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusPending, req.Status)
	assert.Equal(t, "signed", req.UserSignature)
	assert.NotNil(t, req.ConfirmedAt)
	assert.Empty(t, req.TokenHash)

	// The token is single use.
	_, err = f.svc.Confirm(ctx, req.ID, token, "signed again")
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
}

func TestConfirmExpiredToken(t *testing.T) {
	f := newFixture(t, time.Nanosecond)
	ctx := context.Background()
	f.fund(t, 1, 1000)

	req, token, err := f.svc.AdminCreate(ctx, 1, validCreate(600))
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	_, err = f.svc.Confirm(ctx, req.ID, token, "signed")
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
}

func TestConfirmRequiresSignature(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.fund(t, 1, 1000)

	req, token, err := f.svc.AdminCreate(ctx, 1, validCreate(600))
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, req.ID, token, "  ")
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestRejectUnconfirmedClearsToken(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.fund(t, 1, 1000)

	req, token, err := f.svc.AdminCreate(ctx, 1, validCreate(600))
	require.NoError(t, err)

	req, err = f.svc.Process(ctx, req.ID, ActionReject, "user unreachable")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusRejected, req.Status)
	assert.Empty(t, req.TokenHash)

	account, err := f.ledger.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), account.AvailableBalance())

	// A rejected request cannot be confirmed even with the right token.
	_, err = f.svc.Confirm(ctx, req.ID, token, "signed")
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
}
