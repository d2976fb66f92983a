package nsrdb

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"

	"pv-estimate/internal/model"
)

// weatherCache memoizes fetched resources so repeated estimates for the same
// location do not burn NSRDB request quota while iterating locally. It is
// opt-in via ENABLE_NSRDB_CACHE=true and force-disabled when
// API_ENV=production.
type weatherCache struct {
	mu    sync.RWMutex
	slots map[string]cacheSlot
	ttl   time.Duration
}

type cacheSlot struct {
	resource *model.Resource
	staleAt  time.Time
}

var (
	sharedCache     *weatherCache
	sharedCacheOnce sync.Once
)

// activeCache returns the process-wide cache, or nil when caching is off.
// All weatherCache methods are inert on a nil receiver.
func activeCache() *weatherCache {
	if os.Getenv("ENABLE_NSRDB_CACHE") != "true" || os.Getenv("API_ENV") == "production" {
		return nil
	}

	sharedCacheOnce.Do(func() {
		// Historical weather never changes; the TTL just bounds memory held
		// for locations nobody asks about again.
		ttl := 24 * time.Hour
		if s := os.Getenv("NSRDB_CACHE_TTL"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				ttl = d
			}
		}
		sharedCache = &weatherCache{slots: make(map[string]cacheSlot), ttl: ttl}
		go sharedCache.sweep(5 * time.Minute)
	})

	return sharedCache
}

func (c *weatherCache) lookup(key string) (*model.Resource, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	slot, ok := c.slots[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(slot.staleAt) {
		return nil, false
	}
	return slot.resource, true
}

func (c *weatherCache) put(key string, res *model.Resource) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.slots[key] = cacheSlot{resource: res, staleAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *weatherCache) purge() {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.slots = make(map[string]cacheSlot)
	c.mu.Unlock()
}

// sweep drops stale slots on a fixed cadence so abandoned locations do not
// pin their weather tables forever.
func (c *weatherCache) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for now := range ticker.C {
		c.mu.Lock()
		for key, slot := range c.slots {
			if now.After(slot.staleAt) {
				delete(c.slots, key)
			}
		}
		c.mu.Unlock()
	}
}

// cacheKey hashes the request fields that change the returned resource.
func cacheKey(req model.ResourceRequest) string {
	raw := fmt.Sprintf("%.4f:%.4f:%s:%d:%g:%g",
		req.Latitude, req.Longitude, req.Dataset, req.Interval,
		req.SoilingLoss, req.CorrectionFactor)

	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
