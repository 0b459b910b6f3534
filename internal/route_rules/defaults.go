package route_rules

import (
	"time"

	"go-edge-proxy/internal/models"
)

// immutableAssets is the one-year immutable policy fingerprinted build assets get
var immutableAssets = models.CachePolicy{
	MaxAge:    models.Duration(365 * 24 * time.Hour),
	Immutable: true,
	Public:    true,
}

// DefaultRules returns the built-in routing table: build assets and the
// well-known root files are served directly with their log suppression,
// everything else goes to the origin.
func DefaultRules() []models.RouteRule {
	return []models.RouteRule{
		{
			Pattern: "/favicon.ico",
			Match:   models.MatchExact,
			Action:  models.ActionStatic,
			Cache:   immutableAssets,
			Log:     models.LogPolicy{SkipAccess: true, SkipNotFound: true},
		},
		{
			Pattern: "/robots.txt",
			Match:   models.MatchExact,
			Action:  models.ActionStatic,
			Log:     models.LogPolicy{SkipAccess: true},
		},
		{
			Pattern: "/_next/static",
			Match:   models.MatchPrefix,
			Action:  models.ActionStatic,
			Cache:   immutableAssets,
			Log:     models.LogPolicy{SkipAccess: true},
		},
		{
			Pattern: "/static",
			Match:   models.MatchPrefix,
			Action:  models.ActionStatic,
			Cache:   immutableAssets,
			Log:     models.LogPolicy{SkipAccess: true},
		},
		{
			Pattern: "/",
			Match:   models.MatchPrefix,
			Action:  models.ActionProxy,
		},
	}
}
