package models

import (
	"time"
)

// Booking statuses
const (
	BookingStatusPendingDeposit   = "pending_deposit"
	BookingStatusAwaitingApproval = "awaiting_approval"
	BookingStatusConfirmed        = "confirmed"
	BookingStatusCompleted        = "completed"
	BookingStatusCancelled        = "cancelled"
)

// Payment statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Booking is a reservation moving through the lifecycle
// pending_deposit -> awaiting_approval -> confirmed -> completed, with
// cancellation possible before confirmation. RoomNightlyPrice and TotalPrice
// are frozen at creation from the room catalog. PaidFromWallet/PaidFromBonus
// accumulate ledger debits; OutstandingAmount records a settlement shortfall
// left for out-of-band collection.
type Booking struct {
	ID                uint       `gorm:"primarykey" json:"id"`
	UserID            uint       `gorm:"index;not null" json:"user_id"`
	HotelID           uint       `gorm:"index;not null" json:"hotel_id"`
	RoomID            uint       `gorm:"index;not null" json:"room_id"`
	CheckIn           time.Time  `gorm:"not null" json:"check_in"`
	CheckOut          time.Time  `gorm:"not null" json:"check_out"`
	Guests            int        `gorm:"not null;default:1" json:"guests"`
	Status            string     `gorm:"not null;default:'pending_deposit';index" json:"status"`
	PaymentStatus     string     `gorm:"not null;default:'pending'" json:"payment_status"`
	RoomNightlyPrice  int64      `gorm:"not null" json:"room_nightly_price"`
	TotalPrice        int64      `gorm:"not null" json:"total_price"`
	DepositAmount     int64      `gorm:"not null;default:0" json:"deposit_amount"`
	PaidFromWallet    int64      `gorm:"not null;default:0" json:"paid_from_wallet"`
	PaidFromBonus     int64      `gorm:"not null;default:0" json:"paid_from_bonus"`
	OutstandingAmount int64      `gorm:"not null;default:0" json:"outstanding_amount"`
	ProofImage        string     `json:"proof_image,omitempty"`
	ActualCheckIn     *time.Time `json:"actual_check_in,omitempty"`
	ContactName       string     `json:"contact_name"`
	ContactPhone      string     `json:"contact_phone"`
	ContactEmail      string     `json:"contact_email"`
	AdminNote         string     `json:"admin_note,omitempty"`

	Services []BookingService `gorm:"foreignKey:BookingID" json:"services,omitempty"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CheckedIn reports whether the guest has physically arrived.
func (b *Booking) CheckedIn() bool {
	return b.ActualCheckIn != nil
}

// Nights is the billed night count: the stay duration rounded up to whole
// days.
func (b *Booking) Nights() int {
	d := b.CheckOut.Sub(b.CheckIn)
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		nights++
	}
	return nights
}

// BookingService is a service line attached to a confirmed booking. Price is
// the unit price frozen at attach time. DeliveredAt is set when a service
// flagged RequiresConfirmation is confirmed delivered.
type BookingService struct {
	ID                   uint       `gorm:"primarykey" json:"id"`
	BookingID            uint       `gorm:"index;not null" json:"booking_id"`
	ServiceID            uint       `gorm:"not null" json:"service_id"`
	Name                 string     `json:"name"`
	Quantity             int        `gorm:"not null;default:1" json:"quantity"`
	Price                int64      `gorm:"not null" json:"price"`
	RequiresConfirmation bool       `gorm:"not null;default:false" json:"requires_confirmation"`
	AddedAt              time.Time  `gorm:"not null" json:"added_at"`
	DeliveredAt          *time.Time `json:"delivered_at,omitempty"`
}

// Total is quantity times the frozen unit price.
func (s *BookingService) Total() int64 {
	return s.Price * int64(s.Quantity)
}
