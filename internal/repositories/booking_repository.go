package repositories

import (
	"fmt"

	"stayhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingRepository persists bookings and their attached service lines.
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id uint) (*models.Booking, error)
	GetByIDForUpdate(id uint) (*models.Booking, error)
	Update(booking *models.Booking) error
	CreateService(line *models.BookingService) error
	UpdateService(line *models.BookingService) error
	GetService(bookingID, lineID uint) (*models.BookingService, error)
	ListByUser(userID uint, limit, offset int) ([]models.Booking, int64, error)
	ListByStatus(status string, limit, offset int) ([]models.Booking, int64, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func (r *bookingRepository) Create(booking *models.Booking) error {
	if err := r.db.Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.Preload("Services").First(&booking, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) GetByIDForUpdate(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Services").
		First(&booking, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to lock booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) Update(booking *models.Booking) error {
	if err := r.db.Omit("Services").Save(booking).Error; err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) CreateService(line *models.BookingService) error {
	if err := r.db.Create(line).Error; err != nil {
		return fmt.Errorf("failed to attach booking service: %w", err)
	}
	return nil
}

func (r *bookingRepository) UpdateService(line *models.BookingService) error {
	if err := r.db.Save(line).Error; err != nil {
		return fmt.Errorf("failed to update booking service: %w", err)
	}
	return nil
}

func (r *bookingRepository) GetService(bookingID, lineID uint) (*models.BookingService, error) {
	var line models.BookingService
	if err := r.db.Where("booking_id = ?", bookingID).First(&line, lineID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking service: %w", err)
	}
	return &line, nil
}

func (r *bookingRepository) ListByUser(userID uint, limit, offset int) ([]models.Booking, int64, error) {
	return r.list(r.db.Where("user_id = ?", userID), limit, offset)
}

func (r *bookingRepository) ListByStatus(status string, limit, offset int) ([]models.Booking, int64, error) {
	return r.list(r.db.Where("status = ?", status), limit, offset)
}

func (r *bookingRepository) list(q *gorm.DB, limit, offset int) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	var total int64

	q = q.Model(&models.Booking{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	if err := q.Preload("Services").Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&bookings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, total, nil
}
