package memory

import (
	"sort"

	"stayhub/internal/models"
	"stayhub/internal/repositories"
)

type walletRepo struct {
	r runner
}

func (w *walletRepo) Create(account *models.WalletAccount) error {
	return w.r.run(func(d *data) error {
		d.walletSeq++
		account.ID = d.walletSeq
		account.CreatedAt = now()
		account.UpdatedAt = account.CreatedAt
		d.wallets[account.UserID] = *account
		return nil
	})
}

func (w *walletRepo) GetByUserID(userID uint) (*models.WalletAccount, error) {
	var out *models.WalletAccount
	err := w.r.run(func(d *data) error {
		acct, ok := d.wallets[userID]
		if !ok {
			return repositories.ErrWalletNotFound
		}
		out = &acct
		return nil
	})
	return out, err
}

func (w *walletRepo) GetByUserIDForUpdate(userID uint) (*models.WalletAccount, error) {
	return w.GetByUserID(userID)
}

func (w *walletRepo) Update(account *models.WalletAccount) error {
	return w.r.run(func(d *data) error {
		if _, ok := d.wallets[account.UserID]; !ok {
			return repositories.ErrWalletNotFound
		}
		account.UpdatedAt = now()
		d.wallets[account.UserID] = *account
		return nil
	})
}

func (w *walletRepo) CreateTransaction(txn *models.WalletTransaction) error {
	return w.r.run(func(d *data) error {
		d.txnSeq++
		txn.ID = d.txnSeq
		txn.CreatedAt = now()
		d.txns = append(d.txns, *txn)
		return nil
	})
}

func (w *walletRepo) ListTransactions(userID uint, txType string, limit, offset int) ([]models.WalletTransaction, int64, error) {
	var out []models.WalletTransaction
	var total int64
	err := w.r.run(func(d *data) error {
		var mine []models.WalletTransaction
		for _, t := range d.txns {
			if t.UserID != userID {
				continue
			}
			if txType != "" && t.Type != txType {
				continue
			}
			mine = append(mine, t)
		}
		sort.Slice(mine, func(i, j int) bool { return mine[i].ID > mine[j].ID })
		total = int64(len(mine))
		out = page(mine, limit, offset)
		return nil
	})
	return out, total, err
}

func (w *walletRepo) SumTransactionAmounts(userID uint) (int64, error) {
	var sum int64
	err := w.r.run(func(d *data) error {
		for _, t := range d.txns {
			if t.UserID == userID {
				sum += t.Amount
			}
		}
		return nil
	})
	return sum, err
}
