package models

import (
	"testing"
	"time"
)

func TestCacheEntry_Freshness(t *testing.T) {
	now := time.Now().Unix()

	fresh := &CacheEntry{CreatedAt: now, StaleAt: now + 60, ExpiresAt: now + 120}
	if !fresh.IsFresh() {
		t.Error("entry within fresh window should be fresh")
	}
	if fresh.IsExpired() {
		t.Error("entry within fresh window should not be expired")
	}

	stale := &CacheEntry{CreatedAt: now - 120, StaleAt: now - 60, ExpiresAt: now + 60}
	if stale.IsFresh() {
		t.Error("entry past StaleAt should not be fresh")
	}
	if stale.IsExpired() {
		t.Error("entry within stale window should not be expired")
	}

	expired := &CacheEntry{CreatedAt: now - 300, StaleAt: now - 200, ExpiresAt: now - 100}
	if expired.IsFresh() {
		t.Error("expired entry should not be fresh")
	}
	if !expired.IsExpired() {
		t.Error("entry past ExpiresAt should be expired")
	}
}
