package models

import "gorm.io/gorm"

type Restaurant struct {
	gorm.Model
	ExternalID            string   `json:"externalId" gorm:"uniqueIndex;size:40"`
	Slug                  string   `json:"slug" gorm:"uniqueIndex;size:80"`
	Name                  string   `json:"name"`
	IsActive              bool     `json:"isActive"`
	IsAcceptingOrders     bool     `json:"isAcceptingOrders"`
	Lat                   *float64 `json:"lat"`
	Lng                   *float64 `json:"lng"`
	FreeDeliveryThreshold int64    `json:"freeDeliveryThreshold"`
}

// Location returns the restaurant's geographic point, or nil when the
// restaurant has no usable coordinates.
func (r *Restaurant) Location() *GeoPoint {
	if r.Lat == nil || r.Lng == nil {
		return nil
	}
	return &GeoPoint{Lat: *r.Lat, Lng: *r.Lng}
}
