package repositories

import (
	"fmt"

	"stayhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

func (r *walletRepository) Create(account *models.WalletAccount) error {
	if err := r.db.Create(account).Error; err != nil {
		return fmt.Errorf("failed to create wallet account: %w", err)
	}
	return nil
}

func (r *walletRepository) GetByUserID(userID uint) (*models.WalletAccount, error) {
	var account models.WalletAccount
	if err := r.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet account: %w", err)
	}
	return &account, nil
}

func (r *walletRepository) GetByUserIDForUpdate(userID uint) (*models.WalletAccount, error) {
	var account models.WalletAccount
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet account: %w", err)
	}
	return &account, nil
}

func (r *walletRepository) Update(account *models.WalletAccount) error {
	if err := r.db.Save(account).Error; err != nil {
		return fmt.Errorf("failed to update wallet account: %w", err)
	}
	return nil
}

func (r *walletRepository) CreateTransaction(txn *models.WalletTransaction) error {
	if err := r.db.Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create wallet transaction: %w", err)
	}
	return nil
}

func (r *walletRepository) ListTransactions(userID uint, txType string, limit, offset int) ([]models.WalletTransaction, int64, error) {
	var txns []models.WalletTransaction
	var total int64

	q := r.db.Model(&models.WalletTransaction{}).Where("user_id = ?", userID)
	if txType != "" {
		q = q.Where("type = ?", txType)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count wallet transactions: %w", err)
	}
	if err := q.Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&txns).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	return txns, total, nil
}

func (r *walletRepository) SumTransactionAmounts(userID uint) (int64, error) {
	var sum int64
	err := r.db.Model(&models.WalletTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum wallet transactions: %w", err)
	}
	return sum, nil
}
