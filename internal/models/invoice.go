package models

import (
	"time"
)

// Invoice is the immutable snapshot generated at checkout settlement. Lines
// captures the line items (room nights plus each service) as stored JSON so
// later edits to catalog data can never change a settled bill.
type Invoice struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	Number         string `gorm:"uniqueIndex;not null" json:"number"`
	BookingID      uint   `gorm:"uniqueIndex;not null" json:"booking_id"`
	UserID         uint   `gorm:"index;not null" json:"user_id"`
	Nights         int    `gorm:"not null" json:"nights"`
	RoomPrice      int64  `gorm:"not null" json:"room_price"`
	ServicePrice   int64  `gorm:"not null" json:"service_price"`
	Total          int64  `gorm:"not null" json:"total"`
	PaidFromWallet int64  `gorm:"not null" json:"paid_from_wallet"`
	PaidFromBonus  int64  `gorm:"not null" json:"paid_from_bonus"`
	Outstanding    int64  `gorm:"not null" json:"outstanding"`
	Note           string `json:"note,omitempty"`
	Lines          JSON   `gorm:"type:jsonb" json:"lines"`
	IssuedAt       time.Time
}
