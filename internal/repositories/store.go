// Package repositories provides the data access layer. Repository
// interfaces are implemented against gorm/Postgres here and against plain
// maps in the memory subpackage for unit tests.
package repositories

import (
	"gorm.io/gorm"
)

// Store bundles all repositories behind a single transactional scope.
// ExecuteInTransaction runs fn against a Store whose repositories share one
// database transaction; fn returning an error rolls every write back. This
// is the single atomic commit boundary for every core operation.
type Store interface {
	Wallets() WalletRepository
	Deposits() DepositRepository
	Withdrawals() WithdrawalRepository
	Promotions() PromotionRepository
	Bookings() BookingRepository
	Invoices() InvoiceRepository

	ExecuteInTransaction(fn func(Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a gorm-backed Store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Wallets() WalletRepository         { return &walletRepository{db: s.db} }
func (s *gormStore) Deposits() DepositRepository       { return &depositRepository{db: s.db} }
func (s *gormStore) Withdrawals() WithdrawalRepository { return &withdrawalRepository{db: s.db} }
func (s *gormStore) Promotions() PromotionRepository   { return &promotionRepository{db: s.db} }
func (s *gormStore) Bookings() BookingRepository       { return &bookingRepository{db: s.db} }
func (s *gormStore) Invoices() InvoiceRepository       { return &invoiceRepository{db: s.db} }

func (s *gormStore) ExecuteInTransaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
