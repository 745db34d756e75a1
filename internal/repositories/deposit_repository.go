package repositories

import (
	"fmt"

	"stayhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DepositRepository persists deposit requests.
type DepositRepository interface {
	Create(req *models.DepositRequest) error
	GetByID(id uint) (*models.DepositRequest, error)
	GetByIDForUpdate(id uint) (*models.DepositRequest, error)
	Update(req *models.DepositRequest) error
	ListByStatus(status string, limit, offset int) ([]models.DepositRequest, int64, error)
	ListByUser(userID uint, limit, offset int) ([]models.DepositRequest, int64, error)
}

type depositRepository struct {
	db *gorm.DB
}

func (r *depositRepository) Create(req *models.DepositRequest) error {
	if err := r.db.Create(req).Error; err != nil {
		return fmt.Errorf("failed to create deposit request: %w", err)
	}
	return nil
}

func (r *depositRepository) GetByID(id uint) (*models.DepositRequest, error) {
	var req models.DepositRequest
	if err := r.db.First(&req, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrDepositNotFound
		}
		return nil, fmt.Errorf("failed to get deposit request: %w", err)
	}
	return &req, nil
}

func (r *depositRepository) GetByIDForUpdate(id uint) (*models.DepositRequest, error) {
	var req models.DepositRequest
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrDepositNotFound
		}
		return nil, fmt.Errorf("failed to lock deposit request: %w", err)
	}
	return &req, nil
}

func (r *depositRepository) Update(req *models.DepositRequest) error {
	if err := r.db.Save(req).Error; err != nil {
		return fmt.Errorf("failed to update deposit request: %w", err)
	}
	return nil
}

func (r *depositRepository) ListByStatus(status string, limit, offset int) ([]models.DepositRequest, int64, error) {
	return r.list(r.db.Where("status = ?", status), limit, offset)
}

func (r *depositRepository) ListByUser(userID uint, limit, offset int) ([]models.DepositRequest, int64, error) {
	return r.list(r.db.Where("user_id = ?", userID), limit, offset)
}

func (r *depositRepository) list(q *gorm.DB, limit, offset int) ([]models.DepositRequest, int64, error) {
	var reqs []models.DepositRequest
	var total int64

	q = q.Model(&models.DepositRequest{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count deposit requests: %w", err)
	}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reqs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list deposit requests: %w", err)
	}
	return reqs, total, nil
}
