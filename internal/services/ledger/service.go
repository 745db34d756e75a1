package ledger

import (
	"context"
	goerrors "errors"
	"fmt"

	"stayhub/internal/errors"
	"stayhub/internal/models"
	"stayhub/internal/repositories"
	"stayhub/internal/utils/keylock"
)

type service struct {
	store   repositories.Store
	cache   WalletCache
	locks   *keylock.KeyedMutex
	metrics MetricsCollector
}

// NewService creates the ledger service. Cache is optional; metrics falls
// back to a no-op collector when nil.
func NewService(store repositories.Store, cache WalletCache, metrics MetricsCollector) Service {
	if store == nil {
		panic("store is required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &service{
		store:   store,
		cache:   cache,
		locks:   keylock.New(),
		metrics: metrics,
	}
}

func (s *service) Apply(ctx context.Context, userID uint, fn func(ops Ops) error) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		account, err := st.Wallets().GetByUserIDForUpdate(userID)
		if err != nil {
			if err == repositories.ErrWalletNotFound {
				return errors.ErrNotFound
			}
			return err
		}
		return fn(&ops{st: st, account: account, metrics: s.metrics})
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.InvalidateWallet(ctx, userID)
	}
	return nil
}

func (s *service) Credit(ctx context.Context, userID uint, amount int64, bucket, txType, reference, referenceModel string) (*models.WalletTransaction, error) {
	var txn *models.WalletTransaction
	err := s.Apply(ctx, userID, func(ops Ops) error {
		var err error
		txn, err = ops.Credit(amount, bucket, txType, reference, referenceModel)
		return err
	})
	if err != nil {
		s.metrics.RecordError("credit", errType(err))
		return nil, err
	}
	return txn, nil
}

func (s *service) Debit(ctx context.Context, userID uint, amount int64, bucket, txType, reference, referenceModel string) (*models.WalletTransaction, error) {
	var txn *models.WalletTransaction
	err := s.Apply(ctx, userID, func(ops Ops) error {
		var err error
		txn, err = ops.Debit(amount, bucket, txType, reference, referenceModel)
		return err
	})
	if err != nil {
		s.metrics.RecordError("debit", errType(err))
		return nil, err
	}
	return txn, nil
}

func (s *service) Reserve(ctx context.Context, userID uint, amount int64, kind string) error {
	return s.Apply(ctx, userID, func(ops Ops) error {
		return ops.Reserve(amount, kind)
	})
}

func (s *service) Release(ctx context.Context, userID uint, amount int64, kind string) error {
	return s.Apply(ctx, userID, func(ops Ops) error {
		return ops.Release(amount, kind)
	})
}

func (s *service) Account(ctx context.Context, userID uint) (*models.WalletAccount, error) {
	if s.cache != nil {
		if account, err := s.cache.GetWallet(ctx, userID); err == nil && account != nil {
			return account, nil
		}
	}

	account, err := s.store.Wallets().GetByUserID(userID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wallet account: %w", err)
	}

	if s.cache != nil {
		s.cache.CacheWallet(ctx, account)
	}
	return account, nil
}

// EnsureAccount returns the user's account, creating an empty one on first
// touch.
func (s *service) EnsureAccount(ctx context.Context, userID uint) (*models.WalletAccount, error) {
	account, err := s.Account(ctx, userID)
	if err == nil {
		return account, nil
	}
	if err != errors.ErrNotFound {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	// Re-check under the lock; another request may have created it.
	account, err = s.store.Wallets().GetByUserID(userID)
	if err == nil {
		return account, nil
	}
	if err != repositories.ErrWalletNotFound {
		return nil, err
	}

	account = &models.WalletAccount{UserID: userID}
	if err := s.store.Wallets().Create(account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *service) Transactions(ctx context.Context, userID uint, txType string, limit, offset int) ([]models.WalletTransaction, int64, error) {
	return s.store.Wallets().ListTransactions(userID, txType, limit, offset)
}

// ops implements Ops against a locked account inside one transaction. Every
// mutation saves the account row and appends its ledger entry immediately,
// so a later failure in the same scope rolls everything back together.
type ops struct {
	st      repositories.Store
	account *models.WalletAccount
	metrics MetricsCollector
}

func (o *ops) Account() *models.WalletAccount { return o.account }
func (o *ops) Store() repositories.Store      { return o.st }

func (o *ops) Credit(amount int64, bucket, txType, reference, referenceModel string) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, errors.Validation("credit amount must be positive")
	}

	oldTotal := o.account.TotalBalance()
	switch bucket {
	case models.BucketMain:
		o.account.MainBalance += amount
	case models.BucketBonus:
		o.account.BonusBalance += amount
	default:
		return nil, errors.Validation("unknown bucket %q", bucket)
	}

	txn, err := o.append(amount, bucket, txType, reference, referenceModel)
	if err != nil {
		return nil, err
	}
	o.metrics.RecordTransaction(txType, amount)
	o.metrics.RecordBalanceChange(o.account.UserID, oldTotal, o.account.TotalBalance())
	return txn, nil
}

func (o *ops) Debit(amount int64, bucket, txType, reference, referenceModel string) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, errors.Validation("debit amount must be positive")
	}

	oldTotal := o.account.TotalBalance()
	switch bucket {
	case models.BucketMain:
		if o.account.MainBalance < amount {
			return nil, errors.ErrInsufficientFunds
		}
		o.account.MainBalance -= amount
	case models.BucketBonus:
		if o.account.BonusBalance < amount {
			return nil, errors.ErrInsufficientFunds
		}
		o.account.BonusBalance -= amount
	default:
		return nil, errors.Validation("unknown bucket %q", bucket)
	}

	txn, err := o.append(-amount, bucket, txType, reference, referenceModel)
	if err != nil {
		return nil, err
	}
	o.metrics.RecordTransaction(txType, amount)
	o.metrics.RecordBalanceChange(o.account.UserID, oldTotal, o.account.TotalBalance())
	return txn, nil
}

func (o *ops) Reserve(amount int64, kind string) error {
	if amount <= 0 {
		return errors.Validation("reserve amount must be positive")
	}
	if o.account.AvailableBalance() < amount {
		return errors.ErrInsufficientFunds
	}

	switch kind {
	case models.ReservationPayment:
		o.account.PendingPayments += amount
	case models.ReservationWithdrawal:
		o.account.PendingWithdrawal += amount
	default:
		return errors.Validation("unknown reservation kind %q", kind)
	}
	return o.st.Wallets().Update(o.account)
}

func (o *ops) Release(amount int64, kind string) error {
	if amount <= 0 {
		return errors.Validation("release amount must be positive")
	}

	switch kind {
	case models.ReservationPayment:
		if o.account.PendingPayments < amount {
			return errors.Validation("release exceeds reserved payments")
		}
		o.account.PendingPayments -= amount
	case models.ReservationWithdrawal:
		if o.account.PendingWithdrawal < amount {
			return errors.Validation("release exceeds reserved withdrawals")
		}
		o.account.PendingWithdrawal -= amount
	default:
		return errors.Validation("unknown reservation kind %q", kind)
	}
	return o.st.Wallets().Update(o.account)
}

func (o *ops) append(signedAmount int64, bucket, txType, reference, referenceModel string) (*models.WalletTransaction, error) {
	if err := o.st.Wallets().Update(o.account); err != nil {
		return nil, err
	}
	txn := &models.WalletTransaction{
		UserID:         o.account.UserID,
		Type:           txType,
		Bucket:         bucket,
		Amount:         signedAmount,
		BalanceAfter:   o.account.TotalBalance(),
		Reference:      reference,
		ReferenceModel: referenceModel,
	}
	if err := o.st.Wallets().CreateTransaction(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func errType(err error) string {
	var de *errors.DomainError
	if goerrors.As(err, &de) {
		return de.Code
	}
	return "internal"
}
