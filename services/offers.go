package services

import (
	"context"
	"time"

	"github.com/tindora/tindora-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OfferResolver finds the active promotion matching a coupon code for a
// restaurant. The order pipeline treats offers as read-only.
type OfferResolver struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewOfferResolver(db *gorm.DB, logger *zap.Logger) *OfferResolver {
	return &OfferResolver{db: db, logger: logger}
}

// Resolve returns the offer rule matching the coupon code, or nil when no
// active, in-window offer carries it. Lookup failures degrade to "no offer"
// so a broken promotion table cannot block a sellable order.
func (r *OfferResolver) Resolve(ctx context.Context, restaurantID uint, couponCode string, now time.Time) (*models.Offer, *models.OfferItemRule) {
	if couponCode == "" {
		return nil, nil
	}

	var offers []models.Offer
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Find(&offers).Error
	if err != nil {
		r.logger.Warn("offer lookup failed, skipping discount",
			zap.Uint("restaurant_id", restaurantID), zap.Error(err))
		return nil, nil
	}

	for i := range offers {
		offer := &offers[i]
		if !offer.InWindow(now) {
			continue
		}
		for j := range offer.Rules {
			if offer.Rules[j].CouponCode == couponCode {
				return offer, &offer.Rules[j]
			}
		}
	}
	return nil, nil
}
