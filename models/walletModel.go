package models

import "gorm.io/gorm"

const (
	WalletTxDeduction = "deduction"
	WalletTxCredit    = "credit"

	WalletTxStatusCompleted = "completed"
)

type UserWallet struct {
	gorm.Model
	UserID       uint                `json:"userId" gorm:"uniqueIndex"`
	Balance      int64               `json:"balance"`
	Currency     string              `json:"currency" gorm:"size:8"`
	Transactions []WalletTransaction `json:"transactions" gorm:"foreignKey:WalletID"`
}

// WalletTransaction is an append-only ledger entry. The composite unique
// index makes a second deduction for the same order impossible at the
// database level, which is the idempotency backstop for retried debits.
type WalletTransaction struct {
	gorm.Model
	WalletID uint   `json:"walletId" gorm:"index;uniqueIndex:idx_wallet_order_type"`
	OrderID  *uint  `json:"orderId" gorm:"uniqueIndex:idx_wallet_order_type"`
	Type     string `json:"type" gorm:"size:16;uniqueIndex:idx_wallet_order_type"`
	Amount   int64  `json:"amount"`
	Status   string `json:"status" gorm:"size:16"`
	Note     string `json:"note"`
}
