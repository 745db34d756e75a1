package repositories

import (
	"fmt"

	"stayhub/internal/models"

	"gorm.io/gorm"
)

// InvoiceRepository persists settlement invoices. Invoices are append-only.
type InvoiceRepository interface {
	Create(invoice *models.Invoice) error
	GetByBookingID(bookingID uint) (*models.Invoice, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func (r *invoiceRepository) Create(invoice *models.Invoice) error {
	if err := r.db.Create(invoice).Error; err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepository) GetByBookingID(bookingID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.Where("booking_id = ?", bookingID).First(&invoice).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &invoice, nil
}
