package repositories

import (
	"errors"

	"stayhub/internal/models"
)

var (
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrDepositNotFound    = errors.New("deposit request not found")
	ErrWithdrawalNotFound = errors.New("withdrawal request not found")
	ErrPromotionNotFound  = errors.New("promotion not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrInvoiceNotFound    = errors.New("invoice not found")
)

// WalletRepository defines wallet account and ledger entry persistence.
// GetByUserIDForUpdate must acquire a row lock when running inside a
// transaction so concurrent mutations for the same user serialize.
type WalletRepository interface {
	Create(account *models.WalletAccount) error
	GetByUserID(userID uint) (*models.WalletAccount, error)
	GetByUserIDForUpdate(userID uint) (*models.WalletAccount, error)
	Update(account *models.WalletAccount) error

	CreateTransaction(txn *models.WalletTransaction) error
	// ListTransactions returns entries newest first. txType narrows by
	// transaction type; empty means all.
	ListTransactions(userID uint, txType string, limit, offset int) ([]models.WalletTransaction, int64, error)
	SumTransactionAmounts(userID uint) (int64, error)
}
