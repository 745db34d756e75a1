package ledger

import (
	"context"

	"stayhub/internal/models"
	"stayhub/internal/repositories"
)

// Service is the wallet ledger contract.
type Service interface {
	// Standalone mutations, each its own atomic commit.
	Credit(ctx context.Context, userID uint, amount int64, bucket, txType, reference, referenceModel string) (*models.WalletTransaction, error)
	Debit(ctx context.Context, userID uint, amount int64, bucket, txType, reference, referenceModel string) (*models.WalletTransaction, error)
	Reserve(ctx context.Context, userID uint, amount int64, kind string) error
	Release(ctx context.Context, userID uint, amount int64, kind string) error

	// Apply runs fn under the user's mutex inside one store transaction.
	// Workflow services use it to combine ledger writes with their own
	// status flips into a single commit boundary.
	Apply(ctx context.Context, userID uint, fn func(ops Ops) error) error

	// Reads
	Account(ctx context.Context, userID uint) (*models.WalletAccount, error)
	EnsureAccount(ctx context.Context, userID uint) (*models.WalletAccount, error)
	// Transactions lists the user's ledger entries newest first. txType
	// narrows by transaction type; empty means all.
	Transactions(ctx context.Context, userID uint, txType string, limit, offset int) ([]models.WalletTransaction, int64, error)
}

// Ops is the mutation surface available inside an Apply scope. All calls
// operate on the locked account within the enclosing transaction.
type Ops interface {
	Credit(amount int64, bucket, txType, reference, referenceModel string) (*models.WalletTransaction, error)
	Debit(amount int64, bucket, txType, reference, referenceModel string) (*models.WalletTransaction, error)
	Reserve(amount int64, kind string) error
	Release(amount int64, kind string) error
	Account() *models.WalletAccount
	Store() repositories.Store
}

// WalletCache is the read-side cache the ledger invalidates after commits.
type WalletCache interface {
	GetWallet(ctx context.Context, userID uint) (*models.WalletAccount, error)
	CacheWallet(ctx context.Context, account *models.WalletAccount) error
	InvalidateWallet(ctx context.Context, userID uint) error
}
