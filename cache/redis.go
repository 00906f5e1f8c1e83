package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/tindora/tindora-api/config"
	"github.com/tindora/tindora-api/models"
	"go.uber.org/zap"
)

const (
	keyActiveFeeSettings = "policy:fee_settings:active"
	keyActiveZones       = "policy:zones:active"

	policyTTL = 5 * time.Minute
)

// PolicyCache is a read-through cache for the admin-configured pricing
// policy and zone list. Every method tolerates a nil receiver and a dead
// redis: callers get a miss and fall back to the database, so pricing is
// never blocked by the cache being unreachable.
type PolicyCache struct {
	client *redis.Client
	logger *zap.Logger
}

func NewPolicyCache(cfg *config.RedisConfig, logger *zap.Logger) *PolicyCache {
	if cfg.Addr == "" {
		return nil
	}
	return &PolicyCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		logger: logger,
	}
}

func (c *PolicyCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *PolicyCache) getJSON(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("policy cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		c.logger.Warn("policy cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *PolicyCache) setJSON(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, policyTTL).Err(); err != nil {
		c.logger.Warn("policy cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *PolicyCache) ActiveFeeSettings(ctx context.Context) (*models.FeeSettings, bool) {
	var fs models.FeeSettings
	if !c.getJSON(ctx, keyActiveFeeSettings, &fs) {
		return nil, false
	}
	return &fs, true
}

func (c *PolicyCache) StoreActiveFeeSettings(ctx context.Context, fs *models.FeeSettings) {
	c.setJSON(ctx, keyActiveFeeSettings, fs)
}

func (c *PolicyCache) ActiveZones(ctx context.Context) ([]models.Zone, bool) {
	var zones []models.Zone
	if !c.getJSON(ctx, keyActiveZones, &zones) {
		return nil, false
	}
	return zones, true
}

func (c *PolicyCache) StoreActiveZones(ctx context.Context, zones []models.Zone) {
	c.setJSON(ctx, keyActiveZones, zones)
}

// InvalidatePolicy drops cached policy data after an admin save.
func (c *PolicyCache) InvalidatePolicy(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, keyActiveFeeSettings, keyActiveZones).Err(); err != nil {
		c.logger.Warn("policy cache invalidation failed", zap.Error(err))
	}
}

func (c *PolicyCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
