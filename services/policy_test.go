package services

import (
	"strings"
	"testing"

	"github.com/tindora/tindora-api/models"
	"gorm.io/datatypes"
)

func TestValidateFeeSettings(t *testing.T) {
	tests := []struct {
		name    string
		fs      models.FeeSettings
		wantErr bool
	}{
		{
			name: "valid policy",
			fs: models.FeeSettings{
				GSTRate:        5,
				CommissionRate: 10,
				DistanceConfig: datatypes.NewJSONType(models.DistanceConfig{
					MaxDeliveryDistanceKm: 20,
					Slabs: []models.DistanceSlab{
						{MinKm: 0, MaxKm: 5, Fee: 20},
						{MinKm: 5, MaxKm: 10, Fee: 30},
					},
				}),
				AmountConfig: datatypes.NewJSONType(models.AmountConfig{
					Rules: []models.AmountRule{
						{MinAmount: 0, MaxAmount: 500, Fee: 25},
						{MinAmount: 500, MaxAmount: 1000, Fee: 0},
					},
				}),
			},
		},
		{
			name: "slab min >= max",
			fs: models.FeeSettings{
				DistanceConfig: datatypes.NewJSONType(models.DistanceConfig{
					Slabs: []models.DistanceSlab{{MinKm: 5, MaxKm: 5, Fee: 20}},
				}),
			},
			wantErr: true,
		},
		{
			name: "overlapping slabs",
			fs: models.FeeSettings{
				DistanceConfig: datatypes.NewJSONType(models.DistanceConfig{
					Slabs: []models.DistanceSlab{
						{MinKm: 0, MaxKm: 6, Fee: 20},
						{MinKm: 5, MaxKm: 10, Fee: 30},
					},
				}),
			},
			wantErr: true,
		},
		{
			name: "overlapping amount rules",
			fs: models.FeeSettings{
				AmountConfig: datatypes.NewJSONType(models.AmountConfig{
					Rules: []models.AmountRule{
						{MinAmount: 0, MaxAmount: 600, Fee: 25},
						{MinAmount: 500, MaxAmount: 1000, Fee: 0},
					},
				}),
			},
			wantErr: true,
		},
		{
			name: "amount rule min >= max",
			fs: models.FeeSettings{
				AmountConfig: datatypes.NewJSONType(models.AmountConfig{
					Rules: []models.AmountRule{{MinAmount: 800, MaxAmount: 500, Fee: 25}},
				}),
			},
			wantErr: true,
		},
		{
			name:    "gst rate out of range",
			fs:      models.FeeSettings{GSTRate: 120},
			wantErr: true,
		},
		{
			name:    "negative commission rate",
			fs:      models.FeeSettings{CommissionRate: -1},
			wantErr: true,
		},
		{
			name: "negative max distance",
			fs: models.FeeSettings{
				DistanceConfig: datatypes.NewJSONType(models.DistanceConfig{MaxDeliveryDistanceKm: -1}),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFeeSettings(&tt.fs)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFeeSettings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFeeSettingsOverlapMessage(t *testing.T) {
	fs := models.FeeSettings{
		DistanceConfig: datatypes.NewJSONType(models.DistanceConfig{
			Slabs: []models.DistanceSlab{
				{MinKm: 0, MaxKm: 6, Fee: 20},
				{MinKm: 5, MaxKm: 10, Fee: 30},
			},
		}),
	}

	err := ValidateFeeSettings(&fs)
	if err == nil {
		t.Fatal("expected overlap error")
	}
	msg := err.Error()
	for _, want := range []string{"distance slabs overlap", "[0, 6)", "[5, 10)"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}
