package repositories

import (
	"fmt"

	"stayhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WithdrawalRepository persists withdrawal requests.
type WithdrawalRepository interface {
	Create(req *models.WithdrawalRequest) error
	GetByID(id uint) (*models.WithdrawalRequest, error)
	GetByIDForUpdate(id uint) (*models.WithdrawalRequest, error)
	Update(req *models.WithdrawalRequest) error
	ListByStatus(status string, limit, offset int) ([]models.WithdrawalRequest, int64, error)
	ListByUser(userID uint, limit, offset int) ([]models.WithdrawalRequest, int64, error)
}

type withdrawalRepository struct {
	db *gorm.DB
}

func (r *withdrawalRepository) Create(req *models.WithdrawalRequest) error {
	if err := r.db.Create(req).Error; err != nil {
		return fmt.Errorf("failed to create withdrawal request: %w", err)
	}
	return nil
}

func (r *withdrawalRepository) GetByID(id uint) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	if err := r.db.First(&req, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("failed to get withdrawal request: %w", err)
	}
	return &req, nil
}

func (r *withdrawalRepository) GetByIDForUpdate(id uint) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("failed to lock withdrawal request: %w", err)
	}
	return &req, nil
}

func (r *withdrawalRepository) Update(req *models.WithdrawalRequest) error {
	if err := r.db.Save(req).Error; err != nil {
		return fmt.Errorf("failed to update withdrawal request: %w", err)
	}
	return nil
}

func (r *withdrawalRepository) ListByStatus(status string, limit, offset int) ([]models.WithdrawalRequest, int64, error) {
	return r.list(r.db.Where("status = ?", status), limit, offset)
}

func (r *withdrawalRepository) ListByUser(userID uint, limit, offset int) ([]models.WithdrawalRequest, int64, error) {
	return r.list(r.db.Where("user_id = ?", userID), limit, offset)
}

func (r *withdrawalRepository) list(q *gorm.DB, limit, offset int) ([]models.WithdrawalRequest, int64, error) {
	var reqs []models.WithdrawalRequest
	var total int64

	q = q.Model(&models.WithdrawalRequest{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count withdrawal requests: %w", err)
	}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reqs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list withdrawal requests: %w", err)
	}
	return reqs, total, nil
}
