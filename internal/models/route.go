package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MatchKind determines how a route pattern is compared against a request path
type MatchKind string

const (
	MatchExact  MatchKind = "exact"
	MatchPrefix MatchKind = "prefix"
)

// UnmarshalYAML implements custom YAML unmarshaling for MatchKind
func (m *MatchKind) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "exact", "prefix":
		*m = MatchKind(str)
		return nil
	default:
		return fmt.Errorf("invalid match kind '%s': must be one of 'exact', 'prefix'", str)
	}
}

// ActionKind determines what the edge does with a matched request
type ActionKind string

const (
	ActionStatic ActionKind = "static"
	ActionProxy  ActionKind = "proxy"
)

// UnmarshalYAML implements custom YAML unmarshaling for ActionKind
func (a *ActionKind) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "static", "proxy":
		*a = ActionKind(str)
		return nil
	default:
		return fmt.Errorf("invalid action '%s': must be one of 'static', 'proxy'", str)
	}
}

// CachePolicy describes the client-caching headers attached to a static response.
// A zero MaxAge means no caching headers are emitted for the rule.
type CachePolicy struct {
	MaxAge    Duration `yaml:"max_age" json:"max_age"`
	Immutable bool     `yaml:"immutable" json:"immutable"`
	Public    bool     `yaml:"public" json:"public"`
}

// Enabled reports whether the policy emits any caching headers at all
func (p CachePolicy) Enabled() bool {
	return p.MaxAge > 0
}

// CacheControl renders the policy as a Cache-Control header value
func (p CachePolicy) CacheControl() string {
	if !p.Enabled() {
		return ""
	}

	parts := make([]string, 0, 3)
	if p.Public {
		parts = append(parts, "public")
	}
	parts = append(parts, "max-age="+strconv.FormatInt(int64(time.Duration(p.MaxAge).Seconds()), 10))
	if p.Immutable {
		parts = append(parts, "immutable")
	}
	return strings.Join(parts, ", ")
}

// LogPolicy controls per-rule log suppression, equivalent to nginx's
// access_log off and log_not_found off directives. The zero value logs everything.
type LogPolicy struct {
	SkipAccess   bool `yaml:"skip_access" json:"skip_access"`       // suppress the access-log line for matched requests
	SkipNotFound bool `yaml:"skip_not_found" json:"skip_not_found"` // keep missing files out of the error log
}

// RouteRule maps a path pattern to an action and its policies. Root overrides
// the configured document root for static rules when non-empty.
type RouteRule struct {
	Pattern string      `yaml:"pattern" json:"pattern" validate:"required"`
	Match   MatchKind   `yaml:"match" json:"match" validate:"required"`
	Action  ActionKind  `yaml:"action" json:"action" validate:"required"`
	Cache   CachePolicy `yaml:"cache" json:"cache"`
	Log     LogPolicy   `yaml:"log" json:"log"`
	Root    string      `yaml:"root,omitempty" json:"root,omitempty"`
}
