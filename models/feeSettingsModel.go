package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DistanceSlab maps a half-open distance range [MinKm, MaxKm) to a delivery
// fee. The slab carrying the overall maximum MaxKm treats its top bound as
// inclusive so the configured range has no gap at the far edge.
type DistanceSlab struct {
	MinKm float64 `json:"minKm"`
	MaxKm float64 `json:"maxKm"`
	Fee   int64   `json:"fee"`
}

type DistanceConfig struct {
	MaxDeliveryDistanceKm float64        `json:"maxDeliveryDistanceKm"`
	Slabs                 []DistanceSlab `json:"slabs"`
}

// AmountRule maps a half-open subtotal range [MinAmount, MaxAmount) to a
// delivery fee that replaces the distance-derived fee entirely.
type AmountRule struct {
	MinAmount int64 `json:"minAmount"`
	MaxAmount int64 `json:"maxAmount"`
	Fee       int64 `json:"fee"`
}

type AmountConfig struct {
	Rules []AmountRule `json:"rules"`
}

// FeeSettings is the admin-configured pricing policy. Exactly one record is
// active at a time; the save workflow deactivates previous actives.
type FeeSettings struct {
	gorm.Model
	IsActive              bool                               `json:"isActive" gorm:"index"`
	DeliveryFee           int64                              `json:"deliveryFee"`
	FreeDeliveryThreshold int64                              `json:"freeDeliveryThreshold"`
	DistanceConfig        datatypes.JSONType[DistanceConfig] `json:"distanceConfig"`
	AmountConfig          datatypes.JSONType[AmountConfig]   `json:"amountConfig"`
	PlatformFee           int64                              `json:"platformFee"`
	GSTRate               float64                            `json:"gstRate"`
	CommissionRate        float64                            `json:"commissionRate"`
}
