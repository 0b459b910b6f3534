package service

import (
	"go.uber.org/zap"

	"go-edge-proxy/internal/cache"
	"go-edge-proxy/internal/cache/multi"
	"go-edge-proxy/internal/interfaces"
	"go-edge-proxy/internal/metrics"
	"go-edge-proxy/internal/models"
)

// CacheService handles content cache operations for static files
type CacheService struct {
	multiCache interfaces.LevelAwareCache
	keyBuilder interfaces.KeyBuilder
	logger     *zap.Logger
}

// NewCacheService creates a new cache service instance with MultiCache
func NewCacheService(l1Cache, l2Cache interfaces.Cache, enablePropagation bool, logger *zap.Logger) *CacheService {
	// Create MultiCache with L1 and L2 caches
	caches := []interfaces.Cache{l1Cache, l2Cache}
	multiCache := multi.NewMultiCache(caches, logger, enablePropagation)

	return &CacheService{
		multiCache: multiCache,
		keyBuilder: cache.NewKeyBuilder(),
		logger:     logger,
	}
}

// LookupResult represents the result of a cache lookup
type LookupResult struct {
	Entry *models.CacheEntry
	Level string
	Fresh bool
	Found bool
}

// Lookup retrieves a cached entry for a resolved static file. A found entry
// past its fresh TTL is still returned so the caller can fall back to it when
// the filesystem read fails.
func (s *CacheService) Lookup(route, filePath string) LookupResult {
	key, err := s.keyBuilder.Build(route, filePath)
	if err != nil {
		s.logger.Warn("Failed to build cache key", zap.String("path", filePath), zap.Error(err))
		return LookupResult{}
	}

	metrics.RecordCacheRequest(route)

	// Start timing cache get operation
	timer := metrics.TimeCacheGetOperation("multi")
	defer timer()

	entry, level, found := s.multiCache.GetWithLevel(key)
	if found && entry != nil {
		metrics.RecordCacheHit(route, level)

		return LookupResult{
			Entry: entry,
			Level: level,
			Fresh: entry.IsFresh(),
			Found: true,
		}
	}

	metrics.RecordCacheMiss(route)

	return LookupResult{}
}

// LookupStale retrieves a cached entry regardless of freshness (stale-if-error)
func (s *CacheService) LookupStale(route, filePath string) (*models.CacheEntry, bool) {
	key, err := s.keyBuilder.Build(route, filePath)
	if err != nil {
		return nil, false
	}

	return s.multiCache.GetStale(key)
}

// Store writes a static file entry into all cache levels
func (s *CacheService) Store(route, filePath string, entry *models.CacheEntry, ttl models.TTL) {
	// Don't cache if TTL is 0
	if ttl.Fresh == 0 {
		return
	}

	key, err := s.keyBuilder.Build(route, filePath)
	if err != nil {
		s.logger.Warn("Failed to build cache key", zap.String("path", filePath), zap.Error(err))
		return
	}

	s.multiCache.Set(key, entry, ttl)
}
