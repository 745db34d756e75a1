package ledger

import (
	"context"
	"sync"
	"testing"

	"stayhub/internal/errors"
	"stayhub/internal/models"
	"stayhub/internal/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewService(store, nil, nil), store
}

func TestCreditAndDebit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.EnsureAccount(ctx, 1)
	require.NoError(t, err)

	txn, err := svc.Credit(ctx, 1, 1000, models.BucketMain, models.TransactionTypeDeposit, "1", "deposit")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), txn.Amount)
	assert.Equal(t, int64(1000), txn.BalanceAfter)

	txn, err = svc.Debit(ctx, 1, 400, models.BucketMain, models.TransactionTypePayment, "7", "booking")
	require.NoError(t, err)
	assert.Equal(t, int64(-400), txn.Amount)
	assert.Equal(t, int64(600), txn.BalanceAfter)

	account, err := svc.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(600), account.MainBalance)
	assert.Equal(t, int64(0), account.BonusBalance)
}

func TestDebitInsufficientFunds(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.EnsureAccount(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Credit(ctx, 1, 100, models.BucketMain, models.TransactionTypeDeposit, "1", "deposit")
	require.NoError(t, err)

	_, err = svc.Debit(ctx, 1, 101, models.BucketMain, models.TransactionTypePayment, "2", "booking")
	assert.ErrorIs(t, err, errors.ErrInsufficientFunds)

	// Bonus cannot cover a main debit and vice versa.
	_, err = svc.Debit(ctx, 1, 50, models.BucketBonus, models.TransactionTypePayment, "2", "booking")
	assert.ErrorIs(t, err, errors.ErrInsufficientFunds)

	// The failed debits left no trace.
	account, err := svc.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), account.MainBalance)
	txns, total, err := store.Wallets().ListTransactions(1, "", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, txns, 1)
}

func TestDebitUnknownAccount(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Debit(context.Background(), 9, 10, models.BucketMain, models.TransactionTypePayment, "1", "booking")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestReserveAndRelease(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.EnsureAccount(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Credit(ctx, 1, 1000, models.BucketMain, models.TransactionTypeDeposit, "1", "deposit")
	require.NoError(t, err)

	require.NoError(t, svc.Reserve(ctx, 1, 600, models.ReservationWithdrawal))

	account, err := svc.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), account.MainBalance)
	assert.Equal(t, int64(400), account.AvailableBalance())

	// Reservations bound further reservations, not the main balance.
	err = svc.Reserve(ctx, 1, 500, models.ReservationWithdrawal)
	assert.ErrorIs(t, err, errors.ErrInsufficientFunds)

	require.NoError(t, svc.Release(ctx, 1, 600, models.ReservationWithdrawal))

	err = svc.Release(ctx, 1, 1, models.ReservationWithdrawal)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestApplyRollsBackOnError(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.EnsureAccount(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Credit(ctx, 1, 500, models.BucketMain, models.TransactionTypeDeposit, "1", "deposit")
	require.NoError(t, err)

	err = svc.Apply(ctx, 1, func(ops Ops) error {
		if _, err := ops.Credit(200, models.BucketMain, models.TransactionTypeDeposit, "2", "deposit"); err != nil {
			return err
		}
		return errors.Validation("forced failure")
	})
	require.Error(t, err)

	account, err := svc.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(500), account.MainBalance)
	_, total, err := store.Wallets().ListTransactions(1, "", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestReplayReconstructsTotalBalance(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.EnsureAccount(ctx, 1)
	require.NoError(t, err)

	_, err = svc.Credit(ctx, 1, 1000, models.BucketMain, models.TransactionTypeDeposit, "1", "deposit")
	require.NoError(t, err)
	_, err = svc.Credit(ctx, 1, 100, models.BucketBonus, models.TransactionTypeBonus, "1", "deposit")
	require.NoError(t, err)
	_, err = svc.Debit(ctx, 1, 300, models.BucketMain, models.TransactionTypePayment, "4", "booking")
	require.NoError(t, err)
	_, err = svc.Debit(ctx, 1, 60, models.BucketBonus, models.TransactionTypePayment, "4", "booking")
	require.NoError(t, err)

	sum, err := store.Wallets().SumTransactionAmounts(1)
	require.NoError(t, err)

	account, err := svc.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, account.TotalBalance(), sum)
	assert.Equal(t, int64(740), sum)
}

func TestConcurrentDebits(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.EnsureAccount(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Credit(ctx, 1, 1000, models.BucketMain, models.TransactionTypeDeposit, "1", "deposit")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Debit(ctx, 1, 100, models.BucketMain, models.TransactionTypePayment, "x", "booking")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, errors.ErrInsufficientFunds)
		}
	}
	assert.Equal(t, 10, succeeded)

	account, err := svc.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), account.MainBalance)
}

func TestEnsureAccountIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.EnsureAccount(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Credit(ctx, 1, 100, models.BucketMain, models.TransactionTypeDeposit, "1", "deposit")
	require.NoError(t, err)

	again, err := svc.EnsureAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.UserID, again.UserID)
	assert.Equal(t, int64(100), again.MainBalance)
}
