package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OfferItemRule discounts a single menu item when its coupon code is applied.
type OfferItemRule struct {
	CouponCode      string `json:"couponCode"`
	ItemName        string `json:"itemName"`
	OriginalPrice   int64  `json:"originalPrice"`
	DiscountedPrice int64  `json:"discountedPrice"`
}

// Offer is a restaurant-scoped, time-bounded promotion. The order pipeline
// only ever reads offers.
type Offer struct {
	gorm.Model
	RestaurantID  uint                               `json:"restaurantId" gorm:"index"`
	IsActive      bool                               `json:"isActive"`
	MinOrderValue int64                              `json:"minOrderValue"`
	ValidFrom     *time.Time                         `json:"validFrom"`
	ValidUntil    *time.Time                         `json:"validUntil"`
	Rules         datatypes.JSONSlice[OfferItemRule] `json:"rules"`
}

// InWindow reports whether the offer is valid at the given instant.
func (o *Offer) InWindow(now time.Time) bool {
	if o.ValidFrom != nil && now.Before(*o.ValidFrom) {
		return false
	}
	if o.ValidUntil != nil && now.After(*o.ValidUntil) {
		return false
	}
	return true
}
