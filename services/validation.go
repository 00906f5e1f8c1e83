package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/tindora/tindora-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Validator resolves the target restaurant for a cart and rejects orders
// that fail an eligibility check. It is read-only.
type Validator struct {
	db     *gorm.DB
	policy *PolicyStore
	logger *zap.Logger
}

func NewValidator(db *gorm.DB, policy *PolicyStore, logger *zap.Logger) *Validator {
	return &Validator{db: db, policy: policy, logger: logger}
}

// ResolveRestaurant accepts an internal numeric id, an external business id,
// or a slug, tried in that priority order.
func (v *Validator) ResolveRestaurant(ctx context.Context, identifier string) (*models.Restaurant, error) {
	if identifier == "" {
		return nil, validationErr("restaurant identifier is required")
	}

	var restaurant models.Restaurant
	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		err := v.db.WithContext(ctx).First(&restaurant, uint(id)).Error
		if err == nil {
			return &restaurant, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internalErr("restaurant lookup failed", err)
		}
	}

	err := v.db.WithContext(ctx).Where("external_id = ?", identifier).First(&restaurant).Error
	if err == nil {
		return &restaurant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internalErr("restaurant lookup failed", err)
	}

	err = v.db.WithContext(ctx).Where("slug = ?", identifier).First(&restaurant).Error
	if err == nil {
		return &restaurant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internalErr("restaurant lookup failed", err)
	}
	return nil, notFoundErr("restaurant %q not found", identifier)
}

// ValidateOrder runs the full eligibility chain for a cart submission and
// returns the resolved restaurant and its zone.
//
// A restaurant that is merely not accepting orders is NOT rejected here;
// such orders queue for manual accept/reject.
func (v *Validator) ValidateOrder(ctx context.Context, restaurantIdentifier string, clientZoneID *uint, address models.DeliveryAddress, itemCount int) (*models.Restaurant, *models.Zone, error) {
	if itemCount == 0 {
		return nil, nil, validationErr("order must contain at least one item")
	}
	if address.Point == nil {
		return nil, nil, validationErr("delivery address must include coordinates")
	}

	restaurant, err := v.ResolveRestaurant(ctx, restaurantIdentifier)
	if err != nil {
		return nil, nil, err
	}
	if !restaurant.IsActive {
		return nil, nil, eligibilityErr("restaurant %s is not active", restaurant.Name)
	}

	location := restaurant.Location()
	if location == nil {
		return nil, nil, validationErr("restaurant %s has no location configured", restaurant.Name)
	}

	zones, err := v.policy.ActiveZones(ctx)
	if err != nil {
		return nil, nil, internalErr("zone lookup failed", err)
	}

	var zone *models.Zone
	for i := range zones {
		if zones[i].Contains(*location) {
			zone = &zones[i]
			break
		}
	}
	if zone == nil {
		return nil, nil, eligibilityErr("restaurant %s is outside all delivery zones", restaurant.Name)
	}

	// Legacy clients omit the zone id; warn and skip the match check
	// instead of rejecting.
	if clientZoneID == nil {
		v.logger.Warn("order placed without a client zone id, skipping zone match",
			zap.Uint("restaurant_id", restaurant.ID))
	} else if *clientZoneID != zone.ID {
		return nil, nil, eligibilityErr("restaurant is not deliverable in your zone")
	}

	return restaurant, zone, nil
}
