package route_rules

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"go-edge-proxy/internal/interfaces"
	"go-edge-proxy/internal/models"
)

// Ensure Classifier implements the RouteClassifier interface
var _ interfaces.RouteClassifier = (*Classifier)(nil)

// Classifier matches request paths against an ordered rule table.
// Exact rules are checked before prefix rules; among prefix rules the
// longest pattern wins. The table is immutable after construction.
type Classifier struct {
	logger   *zap.Logger
	rules    []models.RouteRule
	exact    map[string]models.RouteRule
	prefixes []models.RouteRule // sorted by descending pattern length
}

// NewClassifier creates a new Classifier instance from a validated rule list
func NewClassifier(logger *zap.Logger, rules []models.RouteRule) *Classifier {
	c := &Classifier{
		logger: logger,
		rules:  rules,
		exact:  make(map[string]models.RouteRule),
	}

	for _, rule := range rules {
		switch rule.Match {
		case models.MatchExact:
			c.exact[rule.Pattern] = rule
		case models.MatchPrefix:
			c.prefixes = append(c.prefixes, rule)
		}
	}

	// Longest prefix first, so /_next/static beats /
	sort.SliceStable(c.prefixes, func(i, j int) bool {
		return len(c.prefixes[i].Pattern) > len(c.prefixes[j].Pattern)
	})

	return c
}

// Match returns the rule governing the given request path. Validation
// guarantees a catch-all "/" prefix rule, so a match always exists.
func (c *Classifier) Match(path string) models.RouteRule {
	if rule, ok := c.exact[path]; ok {
		return rule
	}

	for _, rule := range c.prefixes {
		if strings.HasPrefix(path, rule.Pattern) {
			return rule
		}
	}

	// Unreachable with a validated table; fail safe by proxying
	c.logger.Warn("No route rule matched, falling back to proxy", zap.String("path", path))
	return models.RouteRule{
		Pattern: "/",
		Match:   models.MatchPrefix,
		Action:  models.ActionProxy,
	}
}

// Rules returns the table in its configured order
func (c *Classifier) Rules() []models.RouteRule {
	return c.rules
}
