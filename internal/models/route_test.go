package models

import (
	"testing"
	"time"
)

func TestCachePolicy_CacheControl(t *testing.T) {
	tests := []struct {
		name   string
		policy CachePolicy
		want   string
	}{
		{
			name:   "zero policy emits nothing",
			policy: CachePolicy{},
			want:   "",
		},
		{
			name:   "immutable asset policy",
			policy: CachePolicy{MaxAge: Duration(365 * 24 * time.Hour), Immutable: true, Public: true},
			want:   "public, max-age=31536000, immutable",
		},
		{
			name:   "max-age only",
			policy: CachePolicy{MaxAge: Duration(30 * time.Second)},
			want:   "max-age=30",
		},
		{
			name:   "public without immutable",
			policy: CachePolicy{MaxAge: Duration(time.Hour), Public: true},
			want:   "public, max-age=3600",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.CacheControl(); got != tt.want {
				t.Errorf("CacheControl() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCachePolicy_Enabled(t *testing.T) {
	if (CachePolicy{}).Enabled() {
		t.Error("zero policy should not be enabled")
	}
	if !(CachePolicy{MaxAge: Duration(time.Second)}).Enabled() {
		t.Error("policy with max_age should be enabled")
	}
}

func TestLogPolicy_ZeroValueLogsEverything(t *testing.T) {
	var p LogPolicy
	if p.SkipAccess || p.SkipNotFound {
		t.Error("zero LogPolicy must not suppress anything")
	}
}
