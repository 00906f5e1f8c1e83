package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Fullname string `json:"fullname"`
	Email    string `json:"email" gorm:"uniqueIndex;size:120"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	// WalletBalance mirrors UserWallet.Balance for older clients that read
	// the balance off the profile. The wallet ledger is the source of truth.
	WalletBalance int64 `json:"walletBalance"`
}
