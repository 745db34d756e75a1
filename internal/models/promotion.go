package models

import (
	"time"
)

// PromotionConfig is a scoped bonus rule. Scope narrows from global (no
// hotel, no room) to hotel-wide to a single room. DepositAmount is the
// minimum deposit that activates the rule. Either BonusPercent (with an
// optional MaxBonus cap) or a fixed BonusAmount applies.
type PromotionConfig struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	Name          string     `json:"name"`
	HotelID       *uint      `gorm:"index" json:"hotel_id,omitempty"`
	RoomID        *uint      `gorm:"index" json:"room_id,omitempty"`
	DepositAmount int64      `gorm:"not null" json:"deposit_amount"`
	BonusAmount   int64      `json:"bonus_amount,omitempty"`
	BonusPercent  int        `json:"bonus_percent,omitempty"`
	MaxBonus      int64      `json:"max_bonus,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	IsActive      bool       `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ActiveAt reports whether the rule is live at the given instant.
func (p *PromotionConfig) ActiveAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && now.After(*p.EndDate) {
		return false
	}
	return true
}
