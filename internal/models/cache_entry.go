package models

import "time"

// CacheEntry is a cached static file: the bytes plus the metadata needed
// to serve it without touching the filesystem again.
type CacheEntry struct {
	Data        []byte `json:"data"`
	ContentType string `json:"content_type"`
	ModTime     int64  `json:"mod_time"`   // file mtime, unix seconds
	CreatedAt   int64  `json:"created_at"` // unix seconds
	StaleAt     int64  `json:"stale_at"`   // fresh until this time
	ExpiresAt   int64  `json:"expires_at"` // unusable after this time
}

// IsFresh returns true if the entry is still within its fresh TTL
func (e *CacheEntry) IsFresh() bool {
	return time.Now().Unix() < e.StaleAt
}

// IsExpired returns true if the entry is beyond its stale window and must be discarded
func (e *CacheEntry) IsExpired() bool {
	return time.Now().Unix() >= e.ExpiresAt
}

// TTL represents cache time-to-live configuration
type TTL struct {
	Fresh time.Duration // How long the entry is considered fresh
	Stale time.Duration // How long a stale entry can still be served (stale-if-error)
}
