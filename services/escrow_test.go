package services

import (
	"testing"

	"github.com/tindora/tindora-api/models"
)

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name           string
		pricing        models.Pricing
		commissionRate float64
		wantRestaurant int64
		wantPlatform   int64
		wantCommission int64
	}{
		{
			name:           "standard order",
			pricing:        models.Pricing{Subtotal: 300, DeliveryFee: 20, PlatformFee: 5, Tax: 15, Total: 340},
			commissionRate: 10,
			wantRestaurant: 270,
			wantPlatform:   70,
			wantCommission: 30,
		},
		{
			name:           "discount reduces the commissionable base",
			pricing:        models.Pricing{Subtotal: 300, Discount: 50, DeliveryFee: 20, PlatformFee: 5, Tax: 13, Total: 288},
			commissionRate: 10,
			wantRestaurant: 225,
			wantPlatform:   63,
			wantCommission: 25,
		},
		{
			name:           "zero commission",
			pricing:        models.Pricing{Subtotal: 300, DeliveryFee: 20, Total: 320},
			commissionRate: 0,
			wantRestaurant: 300,
			wantPlatform:   20,
			wantCommission: 0,
		},
		{
			name:           "fractional commission rounds",
			pricing:        models.Pricing{Subtotal: 333, Total: 333},
			commissionRate: 10,
			wantRestaurant: 300,
			wantPlatform:   33,
			wantCommission: 33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restaurant, platform, commission := ComputeSplit(tt.pricing, tt.commissionRate)
			if restaurant != tt.wantRestaurant || platform != tt.wantPlatform || commission != tt.wantCommission {
				t.Errorf("ComputeSplit = (%d, %d, %d), want (%d, %d, %d)",
					restaurant, platform, commission,
					tt.wantRestaurant, tt.wantPlatform, tt.wantCommission)
			}
			if restaurant+platform != tt.pricing.Total {
				t.Errorf("split %d + %d does not cover total %d", restaurant, platform, tt.pricing.Total)
			}
		})
	}
}
