package services

import (
	"math"
	"time"

	"context"

	"github.com/tindora/tindora-api/models"
	"github.com/tindora/tindora-api/utils"
	"go.uber.org/zap"
)

// CartItemInput is one line of a cart submission.
type CartItemInput struct {
	Name     string         `json:"name" binding:"required"`
	Price    int64          `json:"price"`
	Quantity int            `json:"quantity" binding:"required"`
	Addons   []models.Addon `json:"addons"`
}

// unitPrice is the per-unit price of a line including its addons.
func (it CartItemInput) unitPrice() int64 {
	price := it.Price
	for _, a := range it.Addons {
		price += a.Price
	}
	return price
}

// Subtotal sums unit price times quantity over all lines.
func Subtotal(items []CartItemInput) int64 {
	var total int64
	for _, it := range items {
		total += it.unitPrice() * int64(it.Quantity)
	}
	return total
}

// PricingParams carries everything BuildPricing needs, already loaded. A
// zero-value Settings prices with no fees and no tax, which is the degraded
// mode when policy configuration is unreadable.
type PricingParams struct {
	Items      []CartItemInput
	Offer      *models.Offer
	OfferRule  *models.OfferItemRule
	DistanceKm *float64
	Settings   models.FeeSettings

	// RestaurantFreeDeliveryThreshold zeroes the delivery fee when the
	// subtotal reaches it. 0 disables.
	RestaurantFreeDeliveryThreshold int64
}

// BuildPricing computes the reproducible price breakdown. The steps are
// strictly ordered because later steps override earlier ones: subtotal,
// coupon discount, distance-phase delivery fee, amount-override phase,
// free-delivery thresholds, platform fee, tax, total. Every component is a
// whole currency unit so the breakdown stays exactly additive.
func BuildPricing(p PricingParams) (*models.Pricing, error) {
	subtotal := Subtotal(p.Items)
	if subtotal <= 0 {
		return nil, validationErr("order subtotal must be positive")
	}

	discount := couponDiscount(p.Items, p.Offer, p.OfferRule, subtotal)

	dc := p.Settings.DistanceConfig.Data()
	deliveryFee := p.Settings.DeliveryFee
	if p.DistanceKm != nil {
		distance := *p.DistanceKm
		if dc.MaxDeliveryDistanceKm > 0 && distance > dc.MaxDeliveryDistanceKm {
			return nil, validationErr("delivery unavailable: %.1f km exceeds the %.1f km limit",
				distance, dc.MaxDeliveryDistanceKm)
		}
		if fee, ok := slabFee(distance, dc.Slabs); ok {
			deliveryFee = fee
		}
	}

	rules := p.Settings.AmountConfig.Data().Rules
	if fee, ok := amountRuleFee(subtotal, rules); ok {
		deliveryFee = fee
	}

	if p.RestaurantFreeDeliveryThreshold > 0 && subtotal >= p.RestaurantFreeDeliveryThreshold {
		deliveryFee = 0
	}
	// The legacy global threshold only applies when no amount rules exist;
	// configured rules are the newer way to express amount-based fees.
	if len(rules) == 0 && p.Settings.FreeDeliveryThreshold > 0 && subtotal >= p.Settings.FreeDeliveryThreshold {
		deliveryFee = 0
	}

	platformFee := p.Settings.PlatformFee
	tax := roundUnit(float64(subtotal-discount) * p.Settings.GSTRate / 100)

	return &models.Pricing{
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: deliveryFee,
		PlatformFee: platformFee,
		Tax:         tax,
		Total:       subtotal - discount + deliveryFee + platformFee + tax,
	}, nil
}

func roundUnit(v float64) int64 {
	return int64(math.Round(v))
}

// slabFee finds the distance slab containing the distance. Ranges are
// half-open except that the slab with the overall-maximum MaxKm includes its
// top bound, so the configured range is covered with no gap at the far edge.
func slabFee(distanceKm float64, slabs []models.DistanceSlab) (int64, bool) {
	if len(slabs) == 0 {
		return 0, false
	}
	var topMax float64
	for _, s := range slabs {
		if s.MaxKm > topMax {
			topMax = s.MaxKm
		}
	}
	for _, s := range slabs {
		if distanceKm >= s.MinKm && distanceKm < s.MaxKm {
			return s.Fee, true
		}
		if s.MaxKm == topMax && distanceKm == s.MaxKm {
			return s.Fee, true
		}
	}
	return 0, false
}

// amountRuleFee selects the amount rule containing the subtotal, using the
// same inclusive-top convention as slabFee. When overlapping candidates
// match, precedence is highest MinAmount, then narrowest range, then highest
// MaxAmount. Configured rule sets should never overlap, but the tie-break is
// still honored when they do.
func amountRuleFee(subtotal int64, rules []models.AmountRule) (int64, bool) {
	if len(rules) == 0 {
		return 0, false
	}
	var topMax int64
	for _, r := range rules {
		if r.MaxAmount > topMax {
			topMax = r.MaxAmount
		}
	}
	best := -1
	for i, r := range rules {
		matches := subtotal >= r.MinAmount &&
			(subtotal < r.MaxAmount || (r.MaxAmount == topMax && subtotal == r.MaxAmount))
		if !matches {
			continue
		}
		if best == -1 || ruleBeats(r, rules[best]) {
			best = i
		}
	}
	if best == -1 {
		return 0, false
	}
	return rules[best].Fee, true
}

func ruleBeats(a, b models.AmountRule) bool {
	if a.MinAmount != b.MinAmount {
		return a.MinAmount > b.MinAmount
	}
	aw, bw := a.MaxAmount-a.MinAmount, b.MaxAmount-b.MinAmount
	if aw != bw {
		return aw < bw
	}
	return a.MaxAmount > b.MaxAmount
}

// couponDiscount computes the per-item coupon discount: price delta times
// the matched line's quantity, capped at that line's subtotal. Zero when the
// cart misses the targeted item or the minimum order value.
func couponDiscount(items []CartItemInput, offer *models.Offer, rule *models.OfferItemRule, subtotal int64) int64 {
	if offer == nil || rule == nil {
		return 0
	}
	if subtotal < offer.MinOrderValue {
		return 0
	}
	perUnit := rule.OriginalPrice - rule.DiscountedPrice
	if perUnit <= 0 {
		return 0
	}
	for _, it := range items {
		if it.Name != rule.ItemName {
			continue
		}
		discount := perUnit * int64(it.Quantity)
		if line := it.Price * int64(it.Quantity); discount > line {
			discount = line
		}
		return discount
	}
	return 0
}

// Pricer loads policy and promotion data and prices a cart with it.
type Pricer struct {
	policy *PolicyStore
	offers *OfferResolver
	logger *zap.Logger
}

func NewPricer(policy *PolicyStore, offers *OfferResolver, logger *zap.Logger) *Pricer {
	return &Pricer{policy: policy, offers: offers, logger: logger}
}

// Quote prices a cart against the active policy. An unreadable policy
// degrades to zero-value settings rather than blocking the order; only a
// non-positive subtotal or an out-of-range distance fails.
func (p *Pricer) Quote(ctx context.Context, items []CartItemInput, restaurant *models.Restaurant, address models.DeliveryAddress, couponCode string) (*models.Pricing, error) {
	var settings models.FeeSettings
	if active, err := p.policy.ActiveFeeSettings(ctx); err != nil {
		p.logger.Warn("fee settings unreadable, pricing with defaults", zap.Error(err))
	} else if active != nil {
		settings = *active
	}

	offer, rule := p.offers.Resolve(ctx, restaurant.ID, couponCode, time.Now())

	var distance *float64
	if loc := restaurant.Location(); loc != nil && address.Point != nil {
		d := utils.HaversineKm(loc.Lat, loc.Lng, address.Point.Lat, address.Point.Lng)
		distance = &d
	}

	return BuildPricing(PricingParams{
		Items:                           items,
		Offer:                           offer,
		OfferRule:                       rule,
		DistanceKm:                      distance,
		Settings:                        settings,
		RestaurantFreeDeliveryThreshold: restaurant.FreeDeliveryThreshold,
	})
}
