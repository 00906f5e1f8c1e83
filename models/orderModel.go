package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusPickedUp  = "pickedUp"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type DeliveryAddress struct {
	Line1 string    `json:"line1"`
	City  string    `json:"city"`
	Point *GeoPoint `json:"point,omitempty"`
}

type Addon struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Pricing is the reproducible price breakdown stored on every order.
// All values are whole currency units; Total is exactly
// Subtotal - Discount + DeliveryFee + PlatformFee + Tax.
type Pricing struct {
	Subtotal    int64 `json:"subtotal"`
	Discount    int64 `json:"discount"`
	DeliveryFee int64 `json:"deliveryFee"`
	PlatformFee int64 `json:"platformFee"`
	Tax         int64 `json:"tax"`
	Total       int64 `json:"total"`
}

type Order struct {
	gorm.Model
	OrderNumber      string                              `json:"orderNumber" gorm:"uniqueIndex;size:40"`
	UserID           uint                                `json:"userId" gorm:"index"`
	RestaurantID     uint                                `json:"restaurantId" gorm:"index"`
	RestaurantName   string                              `json:"restaurantName"`
	ZoneID           uint                                `json:"zoneId"`
	Items            []OrderItem                         `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Address          datatypes.JSONType[DeliveryAddress] `json:"address"`
	Pricing          Pricing                             `json:"pricing" gorm:"embedded;embeddedPrefix:pricing_"`
	PaymentMethod    string                              `json:"paymentMethod"`
	PaymentStatus    string                              `json:"paymentStatus"`
	GatewayOrderID   string                              `json:"gatewayOrderId" gorm:"index;size:64"`
	GatewayPaymentID string                              `json:"gatewayPaymentId" gorm:"size:64"`
	Status           string                              `json:"status" gorm:"index;size:20"`
	EtaMinMinutes    int                                 `json:"etaMinMinutes"`
	EtaMaxMinutes    int                                 `json:"etaMaxMinutes"`
	ConfirmedAt      *time.Time                          `json:"confirmedAt"`
	CancelReason     string                              `json:"cancelReason"`
	CancelledBy      string                              `json:"cancelledBy"`
	CancelledAt      *time.Time                          `json:"cancelledAt"`
}

type OrderItem struct {
	gorm.Model
	OrderID  uint                       `json:"orderId" gorm:"index"`
	Name     string                     `json:"name"`
	Price    int64                      `json:"price"`
	Quantity int                        `json:"quantity"`
	Addons   datatypes.JSONSlice[Addon] `json:"addons"`
}
