package interfaces

import (
	"go-edge-proxy/internal/models"
)

//go:generate mockgen -package=mock -source=cache.go -destination=mock/cache.go

// Cache interface defines the contract for content cache implementations
type Cache interface {
	Get(key string) (*models.CacheEntry, bool)      // returns entry and found flag
	GetStale(key string) (*models.CacheEntry, bool) // stale-if-error, returns entry and found flag
	Set(key string, entry *models.CacheEntry, ttl models.TTL)
	Delete(key string)
}

// LevelAwareCache extends Cache with lookups that report which level served the hit
type LevelAwareCache interface {
	Cache
	GetWithLevel(key string) (entry *models.CacheEntry, level string, found bool)
}
