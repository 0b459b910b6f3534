package noop

import (
	"testing"
	"time"

	"go-edge-proxy/internal/interfaces"
	"go-edge-proxy/internal/models"
)

func TestNewNoOpCache(t *testing.T) {
	cache := NewNoOpCache()

	// Verify it implements the Cache interface
	var _ interfaces.Cache = cache

	// Verify it returns a NoOpCache instance
	if _, ok := cache.(*NoOpCache); !ok {
		t.Errorf("NewNoOpCache() should return a *NoOpCache instance")
	}
}

func TestNoOpCache_Get(t *testing.T) {
	cache := NewNoOpCache()

	// Test with various keys
	testCases := []string{
		"test-key",
		"",
		"static:_next/static:abc123",
		"key-with-numbers-123456789",
	}

	for _, key := range testCases {
		t.Run("key="+key, func(t *testing.T) {
			entry, found := cache.Get(key)

			if entry != nil {
				t.Errorf("Get(%q) entry = %v, want nil", key, entry)
			}
			if found {
				t.Errorf("Get(%q) found = %v, want false", key, found)
			}
		})
	}
}

func TestNoOpCache_GetStale(t *testing.T) {
	cache := NewNoOpCache()

	// Test with various keys
	testCases := []string{
		"test-key",
		"",
		"static:_next/static:abc123",
		"key-with-numbers-123456789",
	}

	for _, key := range testCases {
		t.Run("key="+key, func(t *testing.T) {
			entry, found := cache.GetStale(key)

			if entry != nil {
				t.Errorf("GetStale(%q) entry = %v, want nil", key, entry)
			}
			if found {
				t.Errorf("GetStale(%q) found = %v, want false", key, found)
			}
		})
	}
}

func TestNoOpCache_Set(t *testing.T) {
	cache := NewNoOpCache()

	// Test setting various values
	testCases := []struct {
		key   string
		entry *models.CacheEntry
		ttl   models.TTL
	}{
		{"test-key", &models.CacheEntry{Data: []byte("test-value")}, models.TTL{Fresh: 60 * time.Second, Stale: 120 * time.Second}},
		{"", &models.CacheEntry{}, models.TTL{Fresh: 0, Stale: 0}},
		{"binary-key", &models.CacheEntry{Data: []byte{0x01, 0x02, 0x03, 0xFF}}, models.TTL{Fresh: 3600 * time.Second, Stale: 7200 * time.Second}},
		{"nil-entry", nil, models.TTL{Fresh: 300 * time.Second, Stale: 600 * time.Second}},
	}

	for _, tc := range testCases {
		t.Run("key="+tc.key, func(t *testing.T) {
			// Set should not panic and should be a no-op
			cache.Set(tc.key, tc.entry, tc.ttl)

			// Verify it's still a cache miss after setting
			entry, found := cache.Get(tc.key)
			if entry != nil || found {
				t.Errorf("After Set(%q), Get() = (%v, %v), want (nil, false)", tc.key, entry, found)
			}
		})
	}
}

func TestNoOpCache_Delete(t *testing.T) {
	cache := NewNoOpCache()

	// Test deleting various keys
	testCases := []string{
		"test-key",
		"",
		"non-existent-key",
	}

	for _, key := range testCases {
		t.Run("key="+key, func(t *testing.T) {
			// Delete should not panic and should be a no-op
			cache.Delete(key)

			// Verify it's still a cache miss after deleting
			entry, found := cache.Get(key)
			if entry != nil || found {
				t.Errorf("After Delete(%q), Get() = (%v, %v), want (nil, false)", key, entry, found)
			}
		})
	}
}

func TestNoOpCache_ConcurrentAccess(t *testing.T) {
	cache := NewNoOpCache()

	// Test concurrent access to ensure no race conditions
	done := make(chan bool)

	// Start multiple goroutines performing operations
	for i := 0; i < 10; i++ {
		go func(id int) {
			defer func() { done <- true }()

			key := "concurrent-key"
			entry := &models.CacheEntry{Data: []byte("concurrent-value")}
			ttl := models.TTL{Fresh: 60 * time.Second, Stale: 120 * time.Second}

			// Perform various operations
			cache.Set(key, entry, ttl)
			cache.Get(key)
			cache.GetStale(key)
			cache.Delete(key)
		}(i)
	}

	// Wait for all goroutines to complete
	for i := 0; i < 10; i++ {
		<-done
	}

	// Verify cache is still in expected state
	entry, found := cache.Get("concurrent-key")
	if entry != nil || found {
		t.Errorf("After concurrent operations, Get() = (%v, %v), want (nil, false)", entry, found)
	}
}
