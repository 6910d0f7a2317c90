package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookline/bookline/services/availability-service/internal/availability"
	"github.com/bookline/bookline/services/availability-service/internal/model"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sched"

// ScheduleCache is a read-through Redis cache in front of the schedule
// sources. Windows and rules change rarely but are read on every
// availability query, so a short TTL plus event-driven invalidation keeps
// them warm. All Redis failures are logged and fall through to the
// underlying source; the cache never turns an availability query into an
// error.
type ScheduleCache struct {
	rdb     *redis.Client
	windows availability.WindowSource
	rules   availability.RuleSource
	ttl     time.Duration
	logger  *slog.Logger
}

func NewScheduleCache(rdb *redis.Client, windows availability.WindowSource, rules availability.RuleSource, ttl time.Duration, logger *slog.Logger) *ScheduleCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ScheduleCache{rdb: rdb, windows: windows, rules: rules, ttl: ttl, logger: logger}
}

func (c *ScheduleCache) WindowsForDay(ctx context.Context, businessID string, weekday time.Weekday, locationID string) ([]model.OperatingWindow, error) {
	key := fmt.Sprintf("%s:%s:win:%d:%s", keyPrefix, businessID, int(weekday), locationID)

	var cached []model.OperatingWindow
	if c.getJSON(ctx, key, &cached) {
		return cached, nil
	}

	windows, err := c.windows.WindowsForDay(ctx, businessID, weekday, locationID)
	if err != nil {
		return nil, err
	}
	c.setJSON(ctx, key, windows)
	return windows, nil
}

type cachedRule struct {
	Rule  model.BookingRule `json:"rule"`
	Found bool              `json:"found"`
}

func (c *ScheduleCache) RuleFor(ctx context.Context, businessID string) (model.BookingRule, bool, error) {
	key := fmt.Sprintf("%s:%s:rule", keyPrefix, businessID)

	var cached cachedRule
	if c.getJSON(ctx, key, &cached) {
		return cached.Rule, cached.Found, nil
	}

	rule, found, err := c.rules.RuleFor(ctx, businessID)
	if err != nil {
		return model.BookingRule{}, false, err
	}
	c.setJSON(ctx, key, cachedRule{Rule: rule, Found: found})
	return rule, found, nil
}

// InvalidateBusiness drops every cached entry for one business. Called by
// the event consumer when the business's schedule configuration changes.
func (c *ScheduleCache) InvalidateBusiness(ctx context.Context, businessID string) error {
	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, businessID)
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func ReadyCheck(rdb *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

func (c *ScheduleCache) getJSON(ctx context.Context, key string, out any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil && c.logger != nil {
			c.logger.Warn("schedule cache read failed", "key", key, "err", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if c.logger != nil {
			c.logger.Warn("schedule cache payload invalid", "key", key, "err", err)
		}
		return false
	}
	return true
}

func (c *ScheduleCache) setJSON(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.Warn("schedule cache write failed", "key", key, "err", err)
	}
}
