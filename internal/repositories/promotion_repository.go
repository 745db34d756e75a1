package repositories

import (
	"fmt"

	"stayhub/internal/models"

	"gorm.io/gorm"
)

// PromotionRepository persists promotion rules. ListActive returns every
// rule flagged active; date-window and scope filtering is resolver logic.
type PromotionRepository interface {
	Create(promo *models.PromotionConfig) error
	GetByID(id uint) (*models.PromotionConfig, error)
	Update(promo *models.PromotionConfig) error
	ListActive() ([]models.PromotionConfig, error)
	List(limit, offset int) ([]models.PromotionConfig, int64, error)
}

type promotionRepository struct {
	db *gorm.DB
}

func (r *promotionRepository) Create(promo *models.PromotionConfig) error {
	if err := r.db.Create(promo).Error; err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}
	return nil
}

func (r *promotionRepository) GetByID(id uint) (*models.PromotionConfig, error) {
	var promo models.PromotionConfig
	if err := r.db.First(&promo, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPromotionNotFound
		}
		return nil, fmt.Errorf("failed to get promotion: %w", err)
	}
	return &promo, nil
}

func (r *promotionRepository) Update(promo *models.PromotionConfig) error {
	if err := r.db.Save(promo).Error; err != nil {
		return fmt.Errorf("failed to update promotion: %w", err)
	}
	return nil
}

func (r *promotionRepository) ListActive() ([]models.PromotionConfig, error) {
	var promos []models.PromotionConfig
	if err := r.db.Where("is_active = ?", true).Find(&promos).Error; err != nil {
		return nil, fmt.Errorf("failed to list active promotions: %w", err)
	}
	return promos, nil
}

func (r *promotionRepository) List(limit, offset int) ([]models.PromotionConfig, int64, error) {
	var promos []models.PromotionConfig
	var total int64

	q := r.db.Model(&models.PromotionConfig{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count promotions: %w", err)
	}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&promos).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list promotions: %w", err)
	}
	return promos, total, nil
}
