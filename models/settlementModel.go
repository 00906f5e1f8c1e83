package models

import "gorm.io/gorm"

const (
	SettlementStatusHeld = "held"

	RefundStatusPendingApproval = "pendingApproval"
)

// Settlement records how a captured order total splits between the
// restaurant and the platform while funds are held in escrow.
type Settlement struct {
	gorm.Model
	OrderID          uint   `json:"orderId" gorm:"uniqueIndex"`
	RestaurantID     uint   `json:"restaurantId" gorm:"index"`
	RestaurantAmount int64  `json:"restaurantAmount"`
	PlatformAmount   int64  `json:"platformAmount"`
	CommissionAmount int64  `json:"commissionAmount"`
	Status           string `json:"status" gorm:"size:16"`
}

// RefundRequest is the deferred, admin-approved follow-up created when a
// paid order is cancelled. It is never processed inline with cancellation.
type RefundRequest struct {
	gorm.Model
	OrderID uint   `json:"orderId" gorm:"index"`
	Amount  int64  `json:"amount"`
	Method  string `json:"method" gorm:"size:20"`
	Status  string `json:"status" gorm:"size:24"`
	Reason  string `json:"reason"`
}
