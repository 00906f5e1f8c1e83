package services

import (
	"context"
	"errors"
	"sort"

	"github.com/tindora/tindora-api/cache"
	"github.com/tindora/tindora-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PolicyStore serves the admin-configured fee policy and zone list to the
// order pipeline, with a redis read-through in front of the database.
type PolicyStore struct {
	db     *gorm.DB
	cache  *cache.PolicyCache
	logger *zap.Logger
}

func NewPolicyStore(db *gorm.DB, c *cache.PolicyCache, logger *zap.Logger) *PolicyStore {
	return &PolicyStore{db: db, cache: c, logger: logger}
}

// ActiveFeeSettings returns the single active policy, or nil when none is
// configured. Database errors propagate so callers can decide whether to
// degrade.
func (s *PolicyStore) ActiveFeeSettings(ctx context.Context) (*models.FeeSettings, error) {
	if fs, ok := s.cache.ActiveFeeSettings(ctx); ok {
		return fs, nil
	}

	var fs models.FeeSettings
	err := s.db.WithContext(ctx).Where("is_active = ?", true).
		Order("updated_at desc").First(&fs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.cache.StoreActiveFeeSettings(ctx, &fs)
	return &fs, nil
}

// ActiveZones returns all active zones in creation order, which makes the
// first-match-wins geofence evaluation deterministic.
func (s *PolicyStore) ActiveZones(ctx context.Context) ([]models.Zone, error) {
	if zones, ok := s.cache.ActiveZones(ctx); ok {
		return zones, nil
	}

	var zones []models.Zone
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).
		Order("id asc").Find(&zones).Error; err != nil {
		return nil, err
	}
	s.cache.StoreActiveZones(ctx, zones)
	return zones, nil
}

// SaveFeeSettings validates and activates a new policy. Previous actives are
// deactivated in the same transaction; uniqueness of the active record is a
// workflow guarantee, not a database constraint, so two concurrent admin
// saves can still race. Acceptable for an admin-only path.
func (s *PolicyStore) SaveFeeSettings(ctx context.Context, fs *models.FeeSettings) error {
	if err := ValidateFeeSettings(fs); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if fs.IsActive {
			if err := tx.Model(&models.FeeSettings{}).
				Where("is_active = ?", true).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(fs).Error
	})
	if err != nil {
		return internalErr("failed to save fee settings", err)
	}

	s.cache.InvalidatePolicy(ctx)
	return nil
}

func (s *PolicyStore) SaveZone(ctx context.Context, zone *models.Zone) error {
	usable := 0
	for _, v := range zone.Polygon {
		if v.Lat != nil && v.Lng != nil {
			usable++
		}
	}
	if usable < 3 {
		return validationErr("zone polygon needs at least 3 vertices with coordinates")
	}

	if err := s.db.WithContext(ctx).Create(zone).Error; err != nil {
		return internalErr("failed to save zone", err)
	}
	s.cache.InvalidatePolicy(ctx)
	return nil
}

func (s *PolicyStore) ListZones(ctx context.Context) ([]models.Zone, error) {
	var zones []models.Zone
	if err := s.db.WithContext(ctx).Order("id asc").Find(&zones).Error; err != nil {
		return nil, internalErr("failed to list zones", err)
	}
	return zones, nil
}

// ValidateFeeSettings checks the structural invariants of a policy: every
// slab/rule has min strictly below max and no two ranges overlap.
func ValidateFeeSettings(fs *models.FeeSettings) error {
	dc := fs.DistanceConfig.Data()
	for _, slab := range dc.Slabs {
		if slab.MinKm >= slab.MaxKm {
			return validationErr("distance slab [%v, %v) has min >= max", slab.MinKm, slab.MaxKm)
		}
	}
	if err := checkNoOverlap(len(dc.Slabs), func(i int) (float64, float64) {
		return dc.Slabs[i].MinKm, dc.Slabs[i].MaxKm
	}, "distance slabs"); err != nil {
		return err
	}
	if dc.MaxDeliveryDistanceKm < 0 {
		return validationErr("maximum delivery distance cannot be negative")
	}

	ac := fs.AmountConfig.Data()
	for _, rule := range ac.Rules {
		if rule.MinAmount >= rule.MaxAmount {
			return validationErr("amount rule [%d, %d) has min >= max", rule.MinAmount, rule.MaxAmount)
		}
	}
	if err := checkNoOverlap(len(ac.Rules), func(i int) (float64, float64) {
		return float64(ac.Rules[i].MinAmount), float64(ac.Rules[i].MaxAmount)
	}, "amount rules"); err != nil {
		return err
	}

	if fs.GSTRate < 0 || fs.GSTRate > 100 {
		return validationErr("gst rate must be between 0 and 100")
	}
	if fs.CommissionRate < 0 || fs.CommissionRate > 100 {
		return validationErr("commission rate must be between 0 and 100")
	}
	return nil
}

func checkNoOverlap(n int, rangeAt func(int) (float64, float64), what string) error {
	type span struct{ min, max float64 }
	spans := make([]span, n)
	for i := 0; i < n; i++ {
		spans[i].min, spans[i].max = rangeAt(i)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].min < spans[j].min })
	for i := 1; i < n; i++ {
		if spans[i].min < spans[i-1].max {
			return validationErr("%s overlap: [%v, %v) and [%v, %v)",
				what, spans[i-1].min, spans[i-1].max, spans[i].min, spans[i].max)
		}
	}
	return nil
}
