package multi

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-edge-proxy/internal/interfaces"
	"go-edge-proxy/internal/models"
)

// Ensure MultiCache implements interfaces.LevelAwareCache
var _ interfaces.LevelAwareCache = (*MultiCache)(nil)

// MultiCache implements a composite cache that tries multiple cache implementations
// It attempts to get/set values through an array of cache interfaces in order
type MultiCache struct {
	caches            []interfaces.Cache
	logger            *zap.Logger
	enablePropagation bool
}

// NewMultiCache creates a new MultiCache instance with provided cache implementations.
// With propagation enabled, a hit in a lower cache is copied back into the
// caches above it so the next lookup stops earlier.
func NewMultiCache(caches []interfaces.Cache, logger *zap.Logger, enablePropagation bool) *MultiCache {
	return &MultiCache{
		caches:            caches,
		logger:            logger,
		enablePropagation: enablePropagation,
	}
}

// Get retrieves an entry from the first available cache that has the key
func (mc *MultiCache) Get(key string) (*models.CacheEntry, bool) {
	entry, _, found := mc.GetWithLevel(key)
	return entry, found
}

// GetWithLevel retrieves an entry and reports which level served it
func (mc *MultiCache) GetWithLevel(key string) (*models.CacheEntry, string, bool) {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for get operation", zap.String("key", key))
		return nil, "", false
	}

	for i, cache := range mc.caches {
		entry, found := cache.Get(key)
		if found {
			if mc.enablePropagation && i > 0 {
				mc.propagate(key, entry, i)
			}
			return entry, levelName(i), true
		}
	}
	return nil, "", false
}

// GetStale retrieves a stale entry from the first available cache that has the key
func (mc *MultiCache) GetStale(key string) (*models.CacheEntry, bool) {
	if len(mc.caches) == 0 {
		return nil, false
	}

	for _, cache := range mc.caches {
		entry, found := cache.GetStale(key)
		if found {
			return entry, true
		}
	}
	return nil, false
}

// Set stores an entry in all available caches
func (mc *MultiCache) Set(key string, entry *models.CacheEntry, ttl models.TTL) {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for set operation", zap.String("key", key))
		return
	}

	for _, cache := range mc.caches {
		cache.Set(key, entry, ttl)
	}
}

// Delete removes entry from all available caches
func (mc *MultiCache) Delete(key string) {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for delete operation", zap.String("key", key))
		return
	}

	for _, cache := range mc.caches {
		cache.Delete(key)
	}
}

// GetCacheCount returns the number of caches in the multi-cache
func (mc *MultiCache) GetCacheCount() int {
	return len(mc.caches)
}

// propagate copies an entry that was found at the given level into the caches
// above it, keeping the original deadlines so the lifetime is not extended
func (mc *MultiCache) propagate(key string, entry *models.CacheEntry, foundAt int) {
	now := time.Now().Unix()

	fresh := entry.StaleAt - now
	if fresh < 0 {
		fresh = 0
	}
	staleFrom := entry.StaleAt
	if staleFrom < now {
		staleFrom = now
	}
	stale := entry.ExpiresAt - staleFrom
	if stale < 0 {
		stale = 0
	}

	ttl := models.TTL{
		Fresh: time.Duration(fresh) * time.Second,
		Stale: time.Duration(stale) * time.Second,
	}

	for i := 0; i < foundAt; i++ {
		mc.caches[i].Set(key, entry, ttl)
	}
}

func levelName(i int) string {
	switch i {
	case 0:
		return "l1"
	case 1:
		return "l2"
	default:
		return fmt.Sprintf("l%d", i+1)
	}
}
