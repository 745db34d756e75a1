package models

import (
	"time"
)

// Balance buckets
const (
	BucketMain  = "main"
	BucketBonus = "bonus"
)

// Transaction types
const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypePayment    = "payment"
	TransactionTypeRefund     = "refund"
	TransactionTypeBonus      = "bonus"
)

// Reservation kinds
const (
	ReservationPayment    = "payment"
	ReservationWithdrawal = "withdrawal"
)

// WalletAccount holds the dual-balance wallet for a single user.
// MainBalance is spendable and withdrawable, BonusBalance is spendable only.
// All amounts are integer minor-currency units.
type WalletAccount struct {
	ID                uint   `gorm:"primarykey" json:"id"`
	UserID            uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	MainBalance       int64  `gorm:"not null;default:0" json:"main_balance"`
	BonusBalance      int64  `gorm:"not null;default:0" json:"bonus_balance"`
	PendingPayments   int64  `gorm:"not null;default:0" json:"pending_payments"`
	PendingWithdrawal int64  `gorm:"not null;default:0" json:"pending_withdrawal"`
	Currency          string `gorm:"default:'VND'" json:"currency"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AvailableBalance is the portion of the main balance not reserved by
// in-flight bookings or outstanding withdrawal requests. New withdrawals
// are checked against this, never against MainBalance directly.
func (a *WalletAccount) AvailableBalance() int64 {
	return a.MainBalance - a.PendingPayments - a.PendingWithdrawal
}

// TotalBalance is main plus bonus.
func (a *WalletAccount) TotalBalance() int64 {
	return a.MainBalance + a.BonusBalance
}

// WalletTransaction is an immutable ledger entry. Amount is signed:
// positive for credits, negative for debits, so replaying all entries for a
// user reconstructs the current total balance. BalanceAfter is the account's
// total balance (main+bonus) at commit time.
type WalletTransaction struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	UserID         uint   `gorm:"index;not null" json:"user_id"`
	Type           string `gorm:"not null" json:"type"`
	Bucket         string `gorm:"not null" json:"bucket"`
	Amount         int64  `gorm:"not null" json:"amount"`
	BalanceAfter   int64  `gorm:"not null" json:"balance_after"`
	Reference      string `gorm:"index" json:"reference"`
	ReferenceModel string `json:"reference_model"`
	CreatedAt      time.Time
}
