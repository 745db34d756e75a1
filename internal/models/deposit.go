package models

import (
	"time"
)

// Deposit request statuses
const (
	DepositStatusPending  = "pending"
	DepositStatusApproved = "approved"
	DepositStatusRejected = "rejected"
)

// DepositRequest is a wallet top-up request. User-submitted requests start
// pending and carry a transfer proof image; admin-created requests are
// approved immediately and must carry the admin's signature. BonusAmount is
// frozen at submission time by the promotion resolver and never recomputed.
type DepositRequest struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	UserID         uint   `gorm:"index;not null" json:"user_id"`
	Amount         int64  `gorm:"not null" json:"amount"`
	BonusAmount    int64  `gorm:"not null;default:0" json:"bonus_amount"`
	PromotionID    *uint  `json:"promotion_id,omitempty"`
	BankName       string `json:"bank_name"`
	BankAccount    string `json:"bank_account"`
	ProofImage     string `json:"proof_image,omitempty"`
	Status         string `gorm:"not null;default:'pending';index" json:"status"`
	IsAdminCreated bool   `gorm:"not null;default:false" json:"is_admin_created"`
	AdminNote      string `json:"admin_note,omitempty"`
	AdminSignature string `json:"admin_signature,omitempty"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
