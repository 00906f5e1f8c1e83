package services

import (
	"testing"

	"github.com/tindora/tindora-api/models"
	"gorm.io/datatypes"
)

func slabSettings() models.FeeSettings {
	return models.FeeSettings{
		PlatformFee: 5,
		GSTRate:     5,
		DistanceConfig: datatypes.NewJSONType(models.DistanceConfig{
			MaxDeliveryDistanceKm: 20,
			Slabs: []models.DistanceSlab{
				{MinKm: 0, MaxKm: 5, Fee: 20},
				{MinKm: 5, MaxKm: 10, Fee: 30},
				{MinKm: 10, MaxKm: 20, Fee: 40},
			},
		}),
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestBuildPricingDistanceSlabs(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		wantFee    int64
		wantErr    bool
	}{
		{name: "first slab", distanceKm: 3, wantFee: 20},
		{name: "boundary joins next slab", distanceKm: 5, wantFee: 30},
		{name: "second slab", distanceKm: 7.5, wantFee: 30},
		{name: "last slab", distanceKm: 12, wantFee: 40},
		{name: "inclusive top of last slab", distanceKm: 20, wantFee: 40},
		{name: "beyond max distance", distanceKm: 25, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pricing, err := BuildPricing(PricingParams{
				Items:      []CartItemInput{{Name: "Paneer Roll", Price: 300, Quantity: 1}},
				DistanceKm: floatPtr(tt.distanceKm),
				Settings:   slabSettings(),
			})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for distance %v, got pricing %+v", tt.distanceKm, pricing)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if pricing.DeliveryFee != tt.wantFee {
				t.Errorf("delivery fee = %d, want %d", pricing.DeliveryFee, tt.wantFee)
			}
		})
	}
}

func TestBuildPricingBreakdown(t *testing.T) {
	pricing, err := BuildPricing(PricingParams{
		Items:      []CartItemInput{{Name: "Paneer Roll", Price: 300, Quantity: 1}},
		DistanceKm: floatPtr(3),
		Settings:   slabSettings(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := models.Pricing{Subtotal: 300, Discount: 0, DeliveryFee: 20, PlatformFee: 5, Tax: 15, Total: 340}
	if *pricing != want {
		t.Errorf("pricing = %+v, want %+v", *pricing, want)
	}
}

func TestBuildPricingWithCouponDiscount(t *testing.T) {
	offer := &models.Offer{MinOrderValue: 200}
	rule := &models.OfferItemRule{
		CouponCode:      "ROLL50",
		ItemName:        "Paneer Roll",
		OriginalPrice:   300,
		DiscountedPrice: 250,
	}

	pricing, err := BuildPricing(PricingParams{
		Items:      []CartItemInput{{Name: "Paneer Roll", Price: 300, Quantity: 1}},
		Offer:      offer,
		OfferRule:  rule,
		DistanceKm: floatPtr(3),
		Settings:   slabSettings(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// tax = round((300-50) * 5%) = 13
	want := models.Pricing{Subtotal: 300, Discount: 50, DeliveryFee: 20, PlatformFee: 5, Tax: 13, Total: 288}
	if *pricing != want {
		t.Errorf("pricing = %+v, want %+v", *pricing, want)
	}
}

func TestBuildPricingCouponBelowMinOrderValue(t *testing.T) {
	offer := &models.Offer{MinOrderValue: 500}
	rule := &models.OfferItemRule{ItemName: "Paneer Roll", OriginalPrice: 300, DiscountedPrice: 250}

	pricing, err := BuildPricing(PricingParams{
		Items:     []CartItemInput{{Name: "Paneer Roll", Price: 300, Quantity: 1}},
		Offer:     offer,
		OfferRule: rule,
		Settings:  slabSettings(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pricing.Discount != 0 {
		t.Errorf("discount = %d, want 0 below min order value", pricing.Discount)
	}
}

func TestBuildPricingAmountRuleOverridesDistanceFee(t *testing.T) {
	settings := slabSettings()
	settings.AmountConfig = datatypes.NewJSONType(models.AmountConfig{
		Rules: []models.AmountRule{
			{MinAmount: 0, MaxAmount: 500, Fee: 25},
			{MinAmount: 500, MaxAmount: 1000, Fee: 0},
		},
	})

	pricing, err := BuildPricing(PricingParams{
		Items:      []CartItemInput{{Name: "Thali", Price: 600, Quantity: 1}},
		DistanceKm: floatPtr(12),
		Settings:   settings,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pricing.DeliveryFee != 0 {
		t.Errorf("delivery fee = %d, want 0 from amount rule over distance fee 40", pricing.DeliveryFee)
	}
}

func TestBuildPricingSubtotalWithAddonsAndQuantity(t *testing.T) {
	pricing, err := BuildPricing(PricingParams{
		Items: []CartItemInput{
			{Name: "Burger", Price: 120, Quantity: 2, Addons: []models.Addon{{Name: "Cheese", Price: 30}}},
			{Name: "Fries", Price: 80, Quantity: 1},
		},
		Settings: models.FeeSettings{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pricing.Subtotal != 380 {
		t.Errorf("subtotal = %d, want 380", pricing.Subtotal)
	}
}

func TestBuildPricingRejectsEmptyCart(t *testing.T) {
	if _, err := BuildPricing(PricingParams{Settings: models.FeeSettings{}}); err == nil {
		t.Fatal("expected error for zero subtotal")
	}
}

func TestBuildPricingFreeDeliveryThresholds(t *testing.T) {
	t.Run("restaurant threshold zeroes fee", func(t *testing.T) {
		pricing, err := BuildPricing(PricingParams{
			Items:                           []CartItemInput{{Name: "Thali", Price: 600, Quantity: 1}},
			DistanceKm:                      floatPtr(3),
			Settings:                        slabSettings(),
			RestaurantFreeDeliveryThreshold: 500,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pricing.DeliveryFee != 0 {
			t.Errorf("delivery fee = %d, want 0 above restaurant threshold", pricing.DeliveryFee)
		}
	})

	t.Run("global threshold applies without amount rules", func(t *testing.T) {
		settings := slabSettings()
		settings.FreeDeliveryThreshold = 500
		pricing, err := BuildPricing(PricingParams{
			Items:      []CartItemInput{{Name: "Thali", Price: 600, Quantity: 1}},
			DistanceKm: floatPtr(3),
			Settings:   settings,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pricing.DeliveryFee != 0 {
			t.Errorf("delivery fee = %d, want 0 above global threshold", pricing.DeliveryFee)
		}
	})

	t.Run("global threshold ignored when amount rules exist", func(t *testing.T) {
		settings := slabSettings()
		settings.FreeDeliveryThreshold = 500
		settings.AmountConfig = datatypes.NewJSONType(models.AmountConfig{
			Rules: []models.AmountRule{{MinAmount: 0, MaxAmount: 1000, Fee: 15}},
		})
		pricing, err := BuildPricing(PricingParams{
			Items:      []CartItemInput{{Name: "Thali", Price: 600, Quantity: 1}},
			DistanceKm: floatPtr(3),
			Settings:   settings,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pricing.DeliveryFee != 15 {
			t.Errorf("delivery fee = %d, want 15 from amount rule", pricing.DeliveryFee)
		}
	})
}

func TestAmountRuleTieBreak(t *testing.T) {
	tests := []struct {
		name     string
		rules    []models.AmountRule
		subtotal int64
		wantFee  int64
	}{
		{
			name: "highest min wins",
			rules: []models.AmountRule{
				{MinAmount: 0, MaxAmount: 1000, Fee: 30},
				{MinAmount: 500, MaxAmount: 1000, Fee: 10},
			},
			subtotal: 600,
			wantFee:  10,
		},
		{
			name: "narrowest wins on equal min",
			rules: []models.AmountRule{
				{MinAmount: 500, MaxAmount: 2000, Fee: 30},
				{MinAmount: 500, MaxAmount: 1000, Fee: 10},
			},
			subtotal: 600,
			wantFee:  10,
		},
		{
			name: "inclusive top only on overall max",
			rules: []models.AmountRule{
				{MinAmount: 0, MaxAmount: 500, Fee: 30},
				{MinAmount: 500, MaxAmount: 1000, Fee: 10},
			},
			subtotal: 1000,
			wantFee:  10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, ok := amountRuleFee(tt.subtotal, tt.rules)
			if !ok {
				t.Fatalf("no rule matched subtotal %d", tt.subtotal)
			}
			if fee != tt.wantFee {
				t.Errorf("fee = %d, want %d", fee, tt.wantFee)
			}
		})
	}
}

func TestBuildPricingIsDeterministicAndAdditive(t *testing.T) {
	params := PricingParams{
		Items:      []CartItemInput{{Name: "Biryani", Price: 250, Quantity: 2}},
		DistanceKm: floatPtr(7),
		Settings:   slabSettings(),
	}

	first, err := BuildPricing(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := BuildPricing(params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *again != *first {
			t.Fatalf("pricing changed between runs: %+v vs %+v", *again, *first)
		}
	}

	sum := first.Subtotal - first.Discount + first.DeliveryFee + first.PlatformFee + first.Tax
	if first.Total != sum {
		t.Errorf("total %d is not the sum of its components %d", first.Total, sum)
	}
}
