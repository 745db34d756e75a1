package models

import (
	"time"
)

// Withdrawal request statuses
const (
	WithdrawalStatusPendingConfirmation = "pending_confirmation"
	WithdrawalStatusPending             = "pending"
	WithdrawalStatusApproved            = "approved"
	WithdrawalStatusCompleted           = "completed"
	WithdrawalStatusRejected            = "rejected"
)

// WithdrawalRequest moves main-balance funds out of the wallet. The amount
// is reserved against the wallet's available balance at creation and only
// leaves MainBalance when the request is completed. Admin-initiated requests
// start in pending_confirmation holding a single-use confirmation token
// (stored bcrypt-hashed) until the user countersigns.
type WithdrawalRequest struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	UserID         uint       `gorm:"index;not null" json:"user_id"`
	Amount         int64      `gorm:"not null" json:"amount"`
	BankName       string     `json:"bank_name"`
	BankAccount    string     `json:"bank_account"`
	BankOwner      string     `json:"bank_owner"`
	Status         string     `gorm:"not null;default:'pending';index" json:"status"`
	TokenHash      string     `json:"-"`
	TokenExpiresAt *time.Time `json:"-"`
	UserSignature  string     `json:"user_signature,omitempty"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	AdminNote      string     `json:"admin_note,omitempty"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
